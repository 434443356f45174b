package osal

import (
	"context"
	"testing"
	"time"

	"github.com/go-osal/osal/internal/idmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskCreateRunsEntry(t *testing.T) {
	initForTest(t)

	done := make(chan any, 1)
	id, err := TaskCreate("worker", func(arg any) { done <- arg }, "payload", 0, 10)
	require.NoError(t, err)
	assert.NotEqual(t, uint32(0), uint32(id))

	select {
	case got := <-done:
		assert.Equal(t, "payload", got)
	case <-time.After(time.Second):
		t.Fatal("entry never ran")
	}
}

func TestTaskGetIdByNameAndInfo(t *testing.T) {
	initForTest(t)

	block := make(chan struct{})
	defer close(block)
	id, err := TaskCreate("named-task", func(any) { <-block }, nil, 0, 42)
	require.NoError(t, err)

	got, err := TaskGetIdByName("named-task")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	info, err := TaskGetInfo(id)
	require.NoError(t, err)
	assert.Equal(t, "named-task", info.Name)
	assert.Equal(t, 42, info.Priority)
}

func TestTaskSetPriorityUpdatesInfo(t *testing.T) {
	initForTest(t)

	block := make(chan struct{})
	defer close(block)
	id, err := TaskCreate("prio-task", func(any) { <-block }, nil, 0, 1)
	require.NoError(t, err)

	require.NoError(t, TaskSetPriority(id, 99))

	info, err := TaskGetInfo(id)
	require.NoError(t, err)
	assert.Equal(t, 99, info.Priority)
}

func TestTaskDeleteThenOperationsFail(t *testing.T) {
	initForTest(t)

	block := make(chan struct{})
	defer close(block)
	id, err := TaskCreate("gone", func(any) { <-block }, nil, 0, 1)
	require.NoError(t, err)
	require.NoError(t, TaskDelete(id))

	_, err = TaskGetInfo(id)
	assert.Error(t, err)
}

func TestTaskEntryReturnReapsSlot(t *testing.T) {
	initForTest(t)

	done := make(chan struct{})
	id, err := TaskCreate("self-returns", func(any) { close(done) }, nil, 0, 1)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("entry never ran")
	}

	require.Eventually(t, func() bool {
		_, err := TaskGetInfo(id)
		return err != nil
	}, time.Second, time.Millisecond, "task slot was never reaped after entry returned")
}

func TestTaskExitReapsSlotAndRunsDeleteHandler(t *testing.T) {
	initForTest(t)

	handlerRan := make(chan idmap.ObjectId, 1)
	proceed := make(chan struct{})
	id, err := TaskCreate("self-exits", func(any) {
		<-proceed
		TaskExit()
	}, nil, 0, 1)
	require.NoError(t, err)

	require.NoError(t, TaskRegisterDeleteHandler(id, func(gotID idmap.ObjectId) {
		handlerRan <- gotID
	}))
	close(proceed)

	select {
	case gotID := <-handlerRan:
		assert.Equal(t, id, gotID)
	case <-time.After(time.Second):
		t.Fatal("delete handler never ran after TaskExit")
	}

	_, err = TaskGetInfo(id)
	assert.Error(t, err)
}

func TestTaskRegisterDeleteHandlerRunsOnExternalDelete(t *testing.T) {
	initForTest(t)

	block := make(chan struct{})
	defer close(block)
	handlerRan := make(chan idmap.ObjectId, 1)
	id, err := TaskCreate("deleted-externally", func(any) { <-block }, nil, 0, 1)
	require.NoError(t, err)

	require.NoError(t, TaskRegisterDeleteHandler(id, func(gotID idmap.ObjectId) {
		handlerRan <- gotID
	}))
	require.NoError(t, TaskDelete(id))

	select {
	case gotID := <-handlerRan:
		assert.Equal(t, id, gotID)
	case <-time.After(time.Second):
		t.Fatal("delete handler never ran after TaskDelete")
	}
}

func TestTaskDelayRespectsContextCancellation(t *testing.T) {
	initForTest(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := TaskDelay(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
