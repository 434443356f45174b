package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleLoadAndSymbolLookup(t *testing.T) {
	b := NewModuleBackend()
	b.Register("/mods/a.so", map[string]uintptr{"foo": 0x1000})

	h, err := b.Load("/mods/a.so", false)
	require.NoError(t, err)

	addr, err := b.SymbolLookup(h, "foo")
	require.NoError(t, err)
	assert.EqualValues(t, 0x1000, addr)

	_, err = b.SymbolLookup(h, "missing")
	assert.Error(t, err)
}

func TestModuleLoadUnregisteredFails(t *testing.T) {
	b := NewModuleBackend()
	_, err := b.Load("/nope.so", false)
	assert.Error(t, err)
}

func TestSymbolLookupGlobalSearchesAllModules(t *testing.T) {
	b := NewModuleBackend()
	b.Register("/a.so", map[string]uintptr{"alpha": 1})
	b.Register("/b.so", map[string]uintptr{"beta": 2})

	addr, err := b.SymbolLookupGlobal("beta")
	require.NoError(t, err)
	assert.EqualValues(t, 2, addr)
}
