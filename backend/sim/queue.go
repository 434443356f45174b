package sim

import (
	"context"
	"time"

	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/errkind"
)

// QueueBackend implements bounded message queues as buffered channels
// of pre-sized byte slices.
type QueueBackend struct{}

func NewQueueBackend() *QueueBackend { return &QueueBackend{} }

type queueHandle struct {
	ch       chan []byte
	itemSize int
}

func (b *QueueBackend) CreateQueue(depth, itemSize int) (backend.QueueHandle, error) {
	return &queueHandle{ch: make(chan []byte, depth), itemSize: itemSize}, nil
}

func (b *QueueBackend) DeleteQueue(h backend.QueueHandle) error {
	return nil
}

func (q *queueHandle) Put(ctx context.Context, data []byte, timeout time.Duration) error {
	msg := make([]byte, len(data))
	copy(msg, data)

	if timeout == 0 {
		select {
		case q.ch <- msg:
			return nil
		default:
			return errkind.KindQueueFull
		}
	}

	deadline, stop := afterChan(timeout)
	defer stop()
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-deadline:
		return errTimeout
	}
}

func (q *queueHandle) Get(ctx context.Context, buf []byte, timeout time.Duration) (int, error) {
	if timeout == 0 {
		select {
		case msg := <-q.ch:
			return copy(buf, msg), nil
		default:
			return 0, errkind.KindQueueEmpty
		}
	}

	deadline, stop := afterChan(timeout)
	defer stop()
	select {
	case msg := <-q.ch:
		return copy(buf, msg), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-deadline:
		return 0, errTimeout
	}
}
