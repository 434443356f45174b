package osal

import (
	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/idmap"
)

type mutexRecord struct {
	handle backend.MutexHandle
}

// MutexCreate creates a mutual exclusion lock.
func MutexCreate(name string) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}
	tok, id, err := s.mutexes.Reserve(name, idmap.ObjectIdUndefined)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_MutSemCreate", idmap.ObjectIdUndefined, err)
	}
	h, err := s.backends.Mutex.CreateMutex()
	if err != nil {
		s.mutexes.Abort(tok)
		return idmap.ObjectIdUndefined, wrapErr("OS_MutSemCreate", idmap.ObjectIdUndefined, err)
	}
	if err := s.mutexes.Commit(tok, mutexRecord{handle: h}); err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_MutSemCreate", id, err)
	}
	return id, nil
}

// MutexDelete removes a mutex.
func MutexDelete(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	delTok, rec, err := s.mutexes.AcquireExclusiveForDelete(id)
	if err != nil {
		return wrapErr("OS_MutSemDelete", id, err)
	}
	backendErr := s.backends.Mutex.DeleteMutex(rec.handle)
	if err := s.mutexes.FinishDelete(delTok, backendErr, false); err != nil {
		return wrapErr("OS_MutSemDelete", id, err)
	}
	return nil
}

// MutexTake blocks until the mutex is held by the caller.
func MutexTake(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	tok, rec, err := s.mutexes.AcquireShared(id)
	if err != nil {
		return wrapErr("OS_MutSemTake", id, err)
	}
	defer s.mutexes.ReleaseShared(tok)
	if err := rec.handle.Take(); err != nil {
		return wrapErr("OS_MutSemTake", id, err)
	}
	return nil
}

// MutexGive releases the mutex.
func MutexGive(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	tok, rec, err := s.mutexes.AcquireShared(id)
	if err != nil {
		return wrapErr("OS_MutSemGive", id, err)
	}
	defer s.mutexes.ReleaseShared(tok)
	if err := rec.handle.Give(); err != nil {
		return wrapErr("OS_MutSemGive", id, err)
	}
	return nil
}
