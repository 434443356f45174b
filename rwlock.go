package osal

import (
	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/idmap"
)

type rwLockRecord struct {
	handle backend.RWLockHandle
}

// RWLockCreate creates a reader/writer lock.
func RWLockCreate(name string) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}
	tok, id, err := s.rwlocks.Reserve(name, idmap.ObjectIdUndefined)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_RWLockCreate", idmap.ObjectIdUndefined, err)
	}
	h, err := s.backends.RWLock.CreateRWLock()
	if err != nil {
		s.rwlocks.Abort(tok)
		return idmap.ObjectIdUndefined, wrapErr("OS_RWLockCreate", idmap.ObjectIdUndefined, err)
	}
	if err := s.rwlocks.Commit(tok, rwLockRecord{handle: h}); err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_RWLockCreate", id, err)
	}
	return id, nil
}

// RWLockDelete removes a reader/writer lock.
func RWLockDelete(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	delTok, rec, err := s.rwlocks.AcquireExclusiveForDelete(id)
	if err != nil {
		return wrapErr("OS_RWLockDelete", id, err)
	}
	backendErr := s.backends.RWLock.DeleteRWLock(rec.handle)
	if err := s.rwlocks.FinishDelete(delTok, backendErr, false); err != nil {
		return wrapErr("OS_RWLockDelete", id, err)
	}
	return nil
}

func withRWLock(id idmap.ObjectId, op string, fn func(backend.RWLockHandle) error) error {
	s, err := current()
	if err != nil {
		return err
	}
	tok, rec, err := s.rwlocks.AcquireShared(id)
	if err != nil {
		return wrapErr(op, id, err)
	}
	defer s.rwlocks.ReleaseShared(tok)
	if err := fn(rec.handle); err != nil {
		return wrapErr(op, id, err)
	}
	return nil
}

// RWLockRead takes the read lock.
func RWLockRead(id idmap.ObjectId) error {
	return withRWLock(id, "OS_RWLockRead", func(h backend.RWLockHandle) error { return h.ReadTake() })
}

// RWLockReadGive releases the read lock.
func RWLockReadGive(id idmap.ObjectId) error {
	return withRWLock(id, "OS_RWLockReadGive", func(h backend.RWLockHandle) error { return h.ReadGive() })
}

// RWLockWrite takes the write lock.
func RWLockWrite(id idmap.ObjectId) error {
	return withRWLock(id, "OS_RWLockWrite", func(h backend.RWLockHandle) error { return h.WriteTake() })
}

// RWLockWriteGive releases the write lock.
func RWLockWriteGive(id idmap.ObjectId) error {
	return withRWLock(id, "OS_RWLockWriteGive", func(h backend.RWLockHandle) error { return h.WriteGive() })
}
