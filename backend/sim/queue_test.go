package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-osal/osal/internal/errkind"
)

func TestQueuePutGetRoundTrip(t *testing.T) {
	b := NewQueueBackend()
	q, err := b.CreateQueue(4, 16)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, q.Put(ctx, []byte("hello"), -1))

	buf := make([]byte, 16)
	n, err := q.Get(ctx, buf, -1)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestQueueGetEmptyPollReturnsQueueEmpty(t *testing.T) {
	b := NewQueueBackend()
	q, err := b.CreateQueue(1, 16)
	require.NoError(t, err)

	buf := make([]byte, 16)
	_, err = q.Get(context.Background(), buf, 0)
	assert.ErrorIs(t, err, errkind.KindQueueEmpty)
}

func TestQueuePutFullPollReturnsQueueFull(t *testing.T) {
	b := NewQueueBackend()
	q, err := b.CreateQueue(1, 16)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, q.Put(ctx, []byte("x"), 0))
	err = q.Put(ctx, []byte("y"), 0)
	assert.ErrorIs(t, err, errkind.KindQueueFull)
}

func TestQueueGetTimesOut(t *testing.T) {
	b := NewQueueBackend()
	q, err := b.CreateQueue(1, 16)
	require.NoError(t, err)

	buf := make([]byte, 16)
	start := time.Now()
	_, err = q.Get(context.Background(), buf, 20*time.Millisecond)
	assert.ErrorIs(t, err, errkind.KindTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestQueueGetRespectsContextCancellation(t *testing.T) {
	b := NewQueueBackend()
	q, err := b.CreateQueue(1, 16)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := make([]byte, 16)
	_, err = q.Get(ctx, buf, -1)
	assert.ErrorIs(t, err, context.Canceled)
}
