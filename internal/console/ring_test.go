package console

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-osal/osal/backend/sim"
)

func drainInto(buf *bytes.Buffer, mu *sync.Mutex) *sim.ConsoleBackend {
	return sim.NewConsoleBackend(&lockedWriter{buf: buf, mu: mu})
}

type lockedWriter struct {
	buf *bytes.Buffer
	mu  *sync.Mutex
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func TestWriteIsEventuallyDrainedToBackend(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	r := New(drainInto(&buf, &mu), 64)
	defer r.Close()

	_, err := r.Write([]byte("hello"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return buf.String() == "hello"
	}, time.Second, 5*time.Millisecond)
}

func TestWriteDroppedWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	r := New(drainInto(&buf, &mu), 64)
	defer r.Close()

	r.SetEnabled(false)
	n, err := r.Write([]byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, "", buf.String())
	mu.Unlock()
}

func TestOverflowCountedWhenRingFull(t *testing.T) {
	// Constructed directly rather than via New so no drain goroutine
	// is running to race with these writes: the test is about Write's
	// full-ring accounting, not the drain loop.
	r := &Ring{
		buf:     make([]byte, 4),
		enabled: 1,
		notify:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}

	_, err := r.Write([]byte("abcd"))
	require.NoError(t, err)
	n, err := r.Write([]byte("xyz"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, uint64(3), r.Overflow())
}
