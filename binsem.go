package osal

import (
	"context"

	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/idmap"
)

type binSemRecord struct {
	handle backend.BinSemHandle
}

// BinSemCreate creates a binary semaphore with initial value 0 or 1.
func BinSemCreate(name string, initial int) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}
	if initial != 0 && initial != 1 {
		return idmap.ObjectIdUndefined, newErr("OS_BinSemCreate", idmap.ObjectIdUndefined, KindInvalidSemValue, "initial value must be 0 or 1")
	}

	tok, id, err := s.binsems.Reserve(name, idmap.ObjectIdUndefined)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_BinSemCreate", idmap.ObjectIdUndefined, err)
	}
	h, err := s.backends.BinSem.CreateBinSem(initial)
	if err != nil {
		s.binsems.Abort(tok)
		return idmap.ObjectIdUndefined, wrapErr("OS_BinSemCreate", idmap.ObjectIdUndefined, err)
	}
	if err := s.binsems.Commit(tok, binSemRecord{handle: h}); err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_BinSemCreate", id, err)
	}
	return id, nil
}

// BinSemDelete removes a binary semaphore.
func BinSemDelete(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	delTok, rec, err := s.binsems.AcquireExclusiveForDelete(id)
	if err != nil {
		return wrapErr("OS_BinSemDelete", id, err)
	}
	backendErr := s.backends.BinSem.DeleteBinSem(rec.handle)
	if err := s.binsems.FinishDelete(delTok, backendErr, false); err != nil {
		return wrapErr("OS_BinSemDelete", id, err)
	}
	return nil
}

// BinSemTake blocks until the semaphore is available, per timeoutMs.
func BinSemTake(ctx context.Context, id idmap.ObjectId, timeoutMs int32) error {
	s, err := current()
	if err != nil {
		return err
	}
	tok, rec, err := s.binsems.AcquireShared(id)
	if err != nil {
		return wrapErr("OS_BinSemTimedWait", id, err)
	}
	defer s.binsems.ReleaseShared(tok)
	if err := rec.handle.Take(ctx, msToDuration(timeoutMs)); err != nil {
		return wrapErr("OS_BinSemTimedWait", id, err)
	}
	return nil
}

// BinSemGive releases the semaphore.
func BinSemGive(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	tok, rec, err := s.binsems.AcquireShared(id)
	if err != nil {
		return wrapErr("OS_BinSemGive", id, err)
	}
	defer s.binsems.ReleaseShared(tok)
	if err := rec.handle.Give(); err != nil {
		return wrapErr("OS_BinSemGive", id, err)
	}
	return nil
}

// BinSemFlush releases every task currently blocked in BinSemTake
// without handing any of them the semaphore.
func BinSemFlush(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	tok, rec, err := s.binsems.AcquireShared(id)
	if err != nil {
		return wrapErr("OS_BinSemFlush", id, err)
	}
	defer s.binsems.ReleaseShared(tok)
	if err := rec.handle.Flush(); err != nil {
		return wrapErr("OS_BinSemFlush", id, err)
	}
	return nil
}
