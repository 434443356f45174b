package osal

import (
	"context"
	"time"

	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/idmap"
)

type queueRecord struct {
	handle   backend.QueueHandle
	depth    int
	itemSize int
}

// QueueCreate creates a bounded FIFO of depth messages, each up to
// itemSize bytes.
func QueueCreate(name string, depth, itemSize int) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}
	if depth <= 0 || itemSize <= 0 {
		return idmap.ObjectIdUndefined, newErr("OS_QueueCreate", idmap.ObjectIdUndefined, KindInvalidSize, "depth and itemSize must be positive")
	}

	tok, id, err := s.queues.Reserve(name, idmap.ObjectIdUndefined)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_QueueCreate", idmap.ObjectIdUndefined, err)
	}

	h, err := s.backends.Queue.CreateQueue(depth, itemSize)
	if err != nil {
		s.queues.Abort(tok)
		return idmap.ObjectIdUndefined, wrapErr("OS_QueueCreate", idmap.ObjectIdUndefined, err)
	}

	if err := s.queues.Commit(tok, queueRecord{handle: h, depth: depth, itemSize: itemSize}); err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_QueueCreate", id, err)
	}
	return id, nil
}

// QueueDelete removes a queue.
func QueueDelete(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	delTok, rec, err := s.queues.AcquireExclusiveForDelete(id)
	if err != nil {
		return wrapErr("OS_QueueDelete", id, err)
	}
	backendErr := s.backends.Queue.DeleteQueue(rec.handle)
	if err := s.queues.FinishDelete(delTok, backendErr, false); err != nil {
		return wrapErr("OS_QueueDelete", id, err)
	}
	return nil
}

// QueuePut enqueues data. timeout follows OSAL's three-way convention:
// 0 polls, a negative value blocks indefinitely, positive is a wait
// bound in milliseconds.
func QueuePut(ctx context.Context, id idmap.ObjectId, data []byte, timeoutMs int32) error {
	s, err := current()
	if err != nil {
		return err
	}
	tok, rec, err := s.queues.AcquireShared(id)
	if err != nil {
		return wrapErr("OS_QueuePut", id, err)
	}
	defer s.queues.ReleaseShared(tok)

	if len(data) > rec.itemSize {
		return newErr("OS_QueuePut", id, KindInvalidSize, "message larger than queue item size")
	}
	if err := rec.handle.Put(ctx, data, msToDuration(timeoutMs)); err != nil {
		return wrapErr("OS_QueuePut", id, err)
	}
	return nil
}

// QueueGet dequeues into buf, returning the number of bytes copied.
func QueueGet(ctx context.Context, id idmap.ObjectId, buf []byte, timeoutMs int32) (int, error) {
	s, err := current()
	if err != nil {
		return 0, err
	}
	tok, rec, err := s.queues.AcquireShared(id)
	if err != nil {
		return 0, wrapErr("OS_QueueGet", id, err)
	}
	defer s.queues.ReleaseShared(tok)

	n, err := rec.handle.Get(ctx, buf, msToDuration(timeoutMs))
	if err != nil {
		return n, wrapErr("OS_QueueGet", id, err)
	}
	return n, nil
}

// QueueGetIdByName looks up a queue's id by name.
func QueueGetIdByName(name string) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}
	id, err := s.queues.GetIdByName(name)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_QueueGetIdByName", idmap.ObjectIdUndefined, err)
	}
	return id, nil
}

// msToDuration converts OSAL's millisecond timeout convention to a
// time.Duration, preserving the sign so 0/poll and negative/indefinite
// pass through unchanged to the backend.
func msToDuration(ms int32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
