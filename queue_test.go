package osal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePutGetRoundTrip(t *testing.T) {
	initForTest(t)

	id, err := QueueCreate("q", 2, 8)
	require.NoError(t, err)

	require.NoError(t, QueuePut(context.Background(), id, []byte("hi"), 0))

	buf := make([]byte, 8)
	n, err := QueueGet(context.Background(), id, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(buf[:n]))
}

func TestQueuePutRejectsOversizeMessage(t *testing.T) {
	initForTest(t)

	id, err := QueueCreate("q", 2, 4)
	require.NoError(t, err)

	err = QueuePut(context.Background(), id, []byte("too long"), 0)
	assert.ErrorIs(t, err, KindInvalidSize)
}

func TestQueueGetPollOnEmptyQueueFails(t *testing.T) {
	initForTest(t)

	id, err := QueueCreate("q", 2, 8)
	require.NoError(t, err)

	buf := make([]byte, 8)
	_, err = QueueGet(context.Background(), id, buf, 0)
	assert.Error(t, err)
}

func TestQueueCreateRejectsNonPositiveSizes(t *testing.T) {
	initForTest(t)

	_, err := QueueCreate("bad", 0, 8)
	assert.ErrorIs(t, err, KindInvalidSize)

	_, err = QueueCreate("bad2", 2, 0)
	assert.ErrorIs(t, err, KindInvalidSize)
}

func TestQueueDeleteThenOperationsFail(t *testing.T) {
	initForTest(t)

	id, err := QueueCreate("gone", 2, 8)
	require.NoError(t, err)
	require.NoError(t, QueueDelete(id))

	err = QueuePut(context.Background(), id, []byte("x"), 0)
	assert.Error(t, err)
}

func TestQueueGetIdByName(t *testing.T) {
	initForTest(t)

	id, err := QueueCreate("named-queue", 2, 8)
	require.NoError(t, err)

	got, err := QueueGetIdByName("named-queue")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
