package osal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRWLockReadReadConcurrent(t *testing.T) {
	initForTest(t)

	id, err := RWLockCreate("rw")
	require.NoError(t, err)

	require.NoError(t, RWLockRead(id))
	require.NoError(t, RWLockRead(id))
	require.NoError(t, RWLockReadGive(id))
	require.NoError(t, RWLockReadGive(id))
}

func TestRWLockWriteRoundTrip(t *testing.T) {
	initForTest(t)

	id, err := RWLockCreate("rw")
	require.NoError(t, err)

	require.NoError(t, RWLockWrite(id))
	require.NoError(t, RWLockWriteGive(id))
}

func TestRWLockDeleteThenOperationsFail(t *testing.T) {
	initForTest(t)

	id, err := RWLockCreate("gone")
	require.NoError(t, err)
	require.NoError(t, RWLockDelete(id))

	err = RWLockRead(id)
	assert.Error(t, err)
}
