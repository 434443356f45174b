package osal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-osal/osal/backend/sim"
)

func TestModuleLoadSymbolLookup(t *testing.T) {
	initForTest(t)

	s, err := current()
	require.NoError(t, err)
	modBackend := s.backends.Module.(*sim.ModuleBackend)
	modBackend.Register("/lib/foo.so", map[string]uintptr{"foo_init": 0x1000})

	id, err := ModuleLoad("foo", "/lib/foo.so", true)
	require.NoError(t, err)

	addr, err := ModuleSymbolLookup(id, "foo_init")
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x1000), addr)

	addr, err = ModuleSymbolLookupGlobal("foo_init")
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x1000), addr)

	_, err = ModuleSymbolLookup(id, "missing")
	assert.Error(t, err)
}

func TestModuleLoadUnknownPathFails(t *testing.T) {
	initForTest(t)

	_, err := ModuleLoad("bar", "/lib/nope.so", false)
	assert.Error(t, err)
}

func TestModuleUnloadThenOperationsFail(t *testing.T) {
	initForTest(t)

	s, err := current()
	require.NoError(t, err)
	modBackend := s.backends.Module.(*sim.ModuleBackend)
	modBackend.Register("/lib/baz.so", map[string]uintptr{"baz": 1})

	id, err := ModuleLoad("baz", "/lib/baz.so", false)
	require.NoError(t, err)
	require.NoError(t, ModuleUnload(id))

	_, err = ModuleSymbolLookup(id, "baz")
	assert.Error(t, err)
}

func TestModuleSymbolTableDumpLength(t *testing.T) {
	initForTest(t)

	s, err := current()
	require.NoError(t, err)
	modBackend := s.backends.Module.(*sim.ModuleBackend)
	modBackend.Register("/lib/dump.so", map[string]uintptr{"a": 1, "b": 2})

	id, err := ModuleLoad("dump", "/lib/dump.so", false)
	require.NoError(t, err)

	data, err := ModuleSymbolTableDump(id, 8)
	require.NoError(t, err)
	assert.Equal(t, 24, len(data)) // 2 entries * (8 + 4)
}

func TestModuleGetInfo(t *testing.T) {
	initForTest(t)

	s, err := current()
	require.NoError(t, err)
	modBackend := s.backends.Module.(*sim.ModuleBackend)
	modBackend.Register("/lib/info.so", map[string]uintptr{"_start": 0x2000})

	id, err := ModuleLoad("info-module", "/lib/info.so", false)
	require.NoError(t, err)

	info, err := ModuleGetInfo(id)
	require.NoError(t, err)
	assert.Equal(t, id, info.Id)
	assert.Equal(t, "info-module", info.Name)
	assert.Equal(t, uintptr(0x2000), info.EntryPoint)
}

func TestModuleGetIdByName(t *testing.T) {
	initForTest(t)

	s, err := current()
	require.NoError(t, err)
	modBackend := s.backends.Module.(*sim.ModuleBackend)
	modBackend.Register("/lib/named.so", map[string]uintptr{})

	id, err := ModuleLoad("named-module", "/lib/named.so", false)
	require.NoError(t, err)

	got, err := ModuleGetIdByName("named-module")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
