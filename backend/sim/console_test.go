package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleWritePassesThrough(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleBackend(&buf)

	n, err := c.WriteConsole([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", buf.String())
}
