package osal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleWriteAndOverflow(t *testing.T) {
	initForTest(t)

	n, err := ConsoleWrite([]byte("hello console\n"))
	require.NoError(t, err)
	assert.Equal(t, 14, n)

	overflow, err := ConsoleOverflow()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), overflow)
}

func TestConsoleSetEnabledGatesWrites(t *testing.T) {
	initForTest(t)

	enabled, err := ConsoleEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, ConsoleSetEnabled(false))
	enabled, err = ConsoleEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	n, err := ConsoleWrite([]byte("dropped"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, ConsoleSetEnabled(true))
}

func TestPrintfIsBestEffort(t *testing.T) {
	initForTest(t)

	assert.NotPanics(t, func() { Printf("count=%d\n", 7) })

	assert.Eventually(t, func() bool {
		overflow, err := ConsoleOverflow()
		return err == nil && overflow == 0
	}, time.Second, 5*time.Millisecond)
}
