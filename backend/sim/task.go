package sim

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-osal/osal/internal/backend"
)

// TaskBackend runs each OSAL task as its own goroutine.
type TaskBackend struct{}

// NewTaskBackend constructs the reference task back-end.
func NewTaskBackend() *TaskBackend { return &TaskBackend{} }

type taskHandle struct {
	done     chan struct{}
	priority int32
}

func (t *taskHandle) Join() {
	<-t.done
}

func (b *TaskBackend) CreateTask(name string, entry func(arg any), arg any, stackSize int, priority int) (backend.TaskHandle, error) {
	h := &taskHandle{done: make(chan struct{}), priority: int32(priority)}
	go func() {
		defer close(h.done)
		entry(arg)
	}()
	return h, nil
}

// DeleteTask cannot forcibly interrupt a running goroutine -- Go
// offers no safe preemption primitive for that -- so the sim back-end
// only ever honors a cooperative exit. A task that never returns from
// entry (and never calls TaskExit) leaks its goroutine under this
// back-end; real platform back-ends do not share that limitation.
func (b *TaskBackend) DeleteTask(h backend.TaskHandle) error {
	return nil
}

func (b *TaskBackend) SetPriority(h backend.TaskHandle, priority int) error {
	th := h.(*taskHandle)
	atomic.StoreInt32(&th.priority, int32(priority))
	return nil
}

func (b *TaskBackend) Delay(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
