package osal

import (
	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/idmap"
	"github.com/go-osal/osal/internal/ioseam"
)

// File open flags, passed through to the back-end unchanged.
const (
	OpenRead     = backend.OpenRead
	OpenWrite    = backend.OpenWrite
	OpenCreate   = backend.OpenCreate
	OpenTruncate = backend.OpenTruncate
)

type fileRecord struct {
	handle     backend.FileHandle
	selectable bool
}

// FileOpen opens path and returns a fresh descriptor id. Unlike named
// resources, descriptor table slots carry no name of their own --
// multiple opens of the same path each get an independent id.
func FileOpen(path string, flags int) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}

	tok, id, err := s.files.Reserve("", idmap.ObjectIdUndefined)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_OpenCreate", idmap.ObjectIdUndefined, err)
	}

	h, selectable, ferr := s.backends.File.Open(path, flags)
	if ferr != nil {
		s.files.Abort(tok)
		return idmap.ObjectIdUndefined, wrapErr("OS_OpenCreate", idmap.ObjectIdUndefined, ferr)
	}
	if err := s.files.Commit(tok, fileRecord{handle: h, selectable: selectable}); err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_OpenCreate", id, err)
	}
	return id, nil
}

// FileClose closes a file descriptor and frees its id.
func FileClose(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	delTok, rec, err := s.files.AcquireExclusiveForDelete(id)
	if err != nil {
		return wrapErr("OS_close", id, err)
	}
	backendErr := rec.handle.Close()
	if err := s.files.FinishDelete(delTok, backendErr, false); err != nil {
		return wrapErr("OS_close", id, err)
	}
	return nil
}

// FileWrite writes buf in full, retrying partial writes, per the
// OS_write contract.
func FileWrite(id idmap.ObjectId, buf []byte) (int, error) {
	s, err := current()
	if err != nil {
		return 0, err
	}
	tok, rec, err := s.files.AcquireShared(id)
	if err != nil {
		return 0, wrapErr("OS_write", id, err)
	}
	defer s.files.ReleaseShared(tok)
	n, werr := ioseam.WriteAll(rec.handle, buf)
	if werr != nil {
		return n, wrapErr("OS_write", id, werr)
	}
	return n, nil
}

// FileRead reads whatever is currently available into buf, without
// filling it (matching OS_read's "read what's there" contract).
func FileRead(id idmap.ObjectId, buf []byte) (int, error) {
	s, err := current()
	if err != nil {
		return 0, err
	}
	tok, rec, err := s.files.AcquireShared(id)
	if err != nil {
		return 0, wrapErr("OS_read", id, err)
	}
	defer s.files.ReleaseShared(tok)
	n, rerr := ioseam.Read(rec.handle, buf)
	if rerr != nil {
		return n, wrapErr("OS_read", id, rerr)
	}
	return n, nil
}

// FileSeek repositions the file offset and returns the new absolute
// offset.
func FileSeek(id idmap.ObjectId, offset int64, whence int) (int64, error) {
	s, err := current()
	if err != nil {
		return 0, err
	}
	tok, rec, err := s.files.AcquireShared(id)
	if err != nil {
		return 0, wrapErr("OS_lseek", id, err)
	}
	defer s.files.ReleaseShared(tok)
	pos, serr := ioseam.Seek(rec.handle, offset, whence)
	if serr != nil {
		return pos, wrapErr("OS_lseek", id, serr)
	}
	return pos, nil
}

// FileRemove deletes a path from the backing filesystem. It does not
// require the file to be open.
func FileRemove(path string) error {
	s, err := current()
	if err != nil {
		return err
	}
	if err := s.backends.File.Remove(path); err != nil {
		return wrapErr("OS_remove", idmap.ObjectIdUndefined, err)
	}
	return nil
}

// FileRename renames oldPath to newPath.
func FileRename(oldPath, newPath string) error {
	s, err := current()
	if err != nil {
		return err
	}
	if err := s.backends.File.Rename(oldPath, newPath); err != nil {
		return wrapErr("OS_rename", idmap.ObjectIdUndefined, err)
	}
	return nil
}

// FileChmod changes a path's permission bits.
func FileChmod(path string, mode uint32) error {
	s, err := current()
	if err != nil {
		return err
	}
	if err := s.backends.File.Chmod(path, mode); err != nil {
		return wrapErr("OS_chmod", idmap.ObjectIdUndefined, err)
	}
	return nil
}

// FileStat reports metadata for path.
func FileStat(path string) (backend.FileStat, error) {
	s, err := current()
	if err != nil {
		return backend.FileStat{}, err
	}
	st, serr := s.backends.File.Stat(path)
	if serr != nil {
		return backend.FileStat{}, wrapErr("OS_stat", idmap.ObjectIdUndefined, serr)
	}
	return st, nil
}

// FileSelectable reports whether id's descriptor can be polled by
// Select, or must instead be checked by polling its own state directly:
// non-selectable handles degrade to direct polling.
func FileSelectable(id idmap.ObjectId) (bool, error) {
	s, err := current()
	if err != nil {
		return false, err
	}
	snap, err := s.files.Snapshot(id)
	if err != nil {
		return false, wrapErr("OS_SelectSingle", id, err)
	}
	return snap.Backend.selectable, nil
}

// FileFd exposes the raw descriptor backing id, for use with Select.
func FileFd(id idmap.ObjectId) (int, error) {
	s, err := current()
	if err != nil {
		return -1, err
	}
	tok, rec, err := s.files.AcquireShared(id)
	if err != nil {
		return -1, wrapErr("OS_SelectSingle", id, err)
	}
	defer s.files.ReleaseShared(tok)
	return rec.handle.Fd(), nil
}
