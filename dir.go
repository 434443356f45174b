package osal

import (
	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/idmap"
)

type dirRecord struct {
	handle backend.DirHandle
}

// DirMake creates a directory at path.
func DirMake(path string) error {
	s, err := current()
	if err != nil {
		return err
	}
	if err := s.backends.File.MkDir(path); err != nil {
		return wrapErr("OS_mkdir", idmap.ObjectIdUndefined, err)
	}
	return nil
}

// DirRemove removes an empty directory at path.
func DirRemove(path string) error {
	s, err := current()
	if err != nil {
		return err
	}
	if err := s.backends.File.RmDir(path); err != nil {
		return wrapErr("OS_rmdir", idmap.ObjectIdUndefined, err)
	}
	return nil
}

// DirOpen opens path for iteration with DirRead.
func DirOpen(path string) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}
	tok, id, err := s.dirs.Reserve("", idmap.ObjectIdUndefined)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_DirectoryOpen", idmap.ObjectIdUndefined, err)
	}
	h, derr := s.backends.File.OpenDir(path)
	if derr != nil {
		s.dirs.Abort(tok)
		return idmap.ObjectIdUndefined, wrapErr("OS_DirectoryOpen", idmap.ObjectIdUndefined, derr)
	}
	if err := s.dirs.Commit(tok, dirRecord{handle: h}); err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_DirectoryOpen", id, err)
	}
	return id, nil
}

// DirRead returns the next entry name in the directory, or ok=false
// once exhausted.
func DirRead(id idmap.ObjectId) (name string, ok bool, err error) {
	s, serr := current()
	if serr != nil {
		return "", false, serr
	}
	tok, rec, aerr := s.dirs.AcquireShared(id)
	if aerr != nil {
		return "", false, wrapErr("OS_DirectoryRead", id, aerr)
	}
	defer s.dirs.ReleaseShared(tok)
	name, ok, err = rec.handle.Read()
	if err != nil {
		return "", false, wrapErr("OS_DirectoryRead", id, err)
	}
	return name, ok, nil
}

// DirClose closes a directory handle opened with DirOpen.
func DirClose(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	delTok, rec, err := s.dirs.AcquireExclusiveForDelete(id)
	if err != nil {
		return wrapErr("OS_DirectoryClose", id, err)
	}
	backendErr := rec.handle.Close()
	if err := s.dirs.FinishDelete(delTok, backendErr, false); err != nil {
		return wrapErr("OS_DirectoryClose", id, err)
	}
	return nil
}
