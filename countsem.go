package osal

import (
	"context"

	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/idmap"
)

type countSemRecord struct {
	handle backend.CountSemHandle
}

// CountSemCreate creates a counting semaphore with the given initial
// value, bounded by climits.Config.MaxSemValue.
func CountSemCreate(name string, initial int) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}
	if initial < 0 || initial > s.cfg.MaxSemValue {
		return idmap.ObjectIdUndefined, newErr("OS_CountSemCreate", idmap.ObjectIdUndefined, KindInvalidSemValue, "initial value out of range")
	}

	tok, id, err := s.countsems.Reserve(name, idmap.ObjectIdUndefined)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_CountSemCreate", idmap.ObjectIdUndefined, err)
	}
	h, err := s.backends.CountSem.CreateCountSem(initial)
	if err != nil {
		s.countsems.Abort(tok)
		return idmap.ObjectIdUndefined, wrapErr("OS_CountSemCreate", idmap.ObjectIdUndefined, err)
	}
	if err := s.countsems.Commit(tok, countSemRecord{handle: h}); err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_CountSemCreate", id, err)
	}
	return id, nil
}

// CountSemDelete removes a counting semaphore.
func CountSemDelete(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	delTok, rec, err := s.countsems.AcquireExclusiveForDelete(id)
	if err != nil {
		return wrapErr("OS_CountSemDelete", id, err)
	}
	backendErr := s.backends.CountSem.DeleteCountSem(rec.handle)
	if err := s.countsems.FinishDelete(delTok, backendErr, false); err != nil {
		return wrapErr("OS_CountSemDelete", id, err)
	}
	return nil
}

// CountSemTake blocks until the semaphore's count is non-zero.
func CountSemTake(ctx context.Context, id idmap.ObjectId, timeoutMs int32) error {
	s, err := current()
	if err != nil {
		return err
	}
	tok, rec, err := s.countsems.AcquireShared(id)
	if err != nil {
		return wrapErr("OS_CountSemTimedWait", id, err)
	}
	defer s.countsems.ReleaseShared(tok)
	if err := rec.handle.Take(ctx, msToDuration(timeoutMs)); err != nil {
		return wrapErr("OS_CountSemTimedWait", id, err)
	}
	return nil
}

// CountSemGive increments the semaphore's count.
func CountSemGive(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	tok, rec, err := s.countsems.AcquireShared(id)
	if err != nil {
		return wrapErr("OS_CountSemGive", id, err)
	}
	defer s.countsems.ReleaseShared(tok)
	if err := rec.handle.Give(); err != nil {
		return wrapErr("OS_CountSemGive", id, err)
	}
	return nil
}
