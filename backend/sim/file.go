package sim

import (
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/errkind"
)

// FileBackend is an in-memory filesystem. Each file's bytes live
// behind their own RWMutex rather than one lock for the whole
// filesystem, since OSAL files are small control/config artifacts
// that different tasks open and touch independently.
type FileBackend struct {
	mu    sync.Mutex
	files map[string]*memFile
	dirs  map[string]bool
	nextFd int
}

type memFile struct {
	mu      sync.RWMutex
	data    []byte
	mode    uint32
	modTime time.Time
}

func NewFileBackend() *FileBackend {
	return &FileBackend{
		files: make(map[string]*memFile),
		dirs:  map[string]bool{"/": true},
	}
}

func (b *FileBackend) Open(path string, flags int) (backend.FileHandle, bool, error) {
	b.mu.Lock()
	f, ok := b.files[path]
	if !ok {
		if flags&backend.OpenCreate == 0 {
			b.mu.Unlock()
			return nil, false, errkind.KindInvalidPointer
		}
		f = &memFile{modTime: time.Time{}}
		b.files[path] = f
	}
	b.nextFd++
	fd := b.nextFd
	b.mu.Unlock()

	if flags&backend.OpenTruncate != 0 {
		f.mu.Lock()
		f.data = nil
		f.mu.Unlock()
	}

	return &memFileHandle{file: f, fd: fd, writable: flags&backend.OpenWrite != 0}, false, nil
}

func (b *FileBackend) Remove(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.files[path]; !ok {
		return errkind.KindInvalidPointer
	}
	delete(b.files, path)
	return nil
}

func (b *FileBackend) Rename(oldPath, newPath string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.files[oldPath]
	if !ok {
		return errkind.KindInvalidPointer
	}
	b.files[newPath] = f
	delete(b.files, oldPath)
	return nil
}

func (b *FileBackend) Chmod(path string, mode uint32) error {
	b.mu.Lock()
	f, ok := b.files[path]
	b.mu.Unlock()
	if !ok {
		return errkind.KindInvalidPointer
	}
	f.mu.Lock()
	f.mode = mode
	f.mu.Unlock()
	return nil
}

func (b *FileBackend) Stat(path string) (backend.FileStat, error) {
	b.mu.Lock()
	f, ok := b.files[path]
	isDir := b.dirs[path]
	b.mu.Unlock()
	if isDir {
		return backend.FileStat{IsDir: true}, nil
	}
	if !ok {
		return backend.FileStat{}, errkind.KindInvalidPointer
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return backend.FileStat{Size: int64(len(f.data)), Mode: f.mode, ModTime: f.modTime}, nil
}

func (b *FileBackend) MkDir(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirs[path] = true
	return nil
}

func (b *FileBackend) RmDir(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.dirs[path] {
		return errkind.KindInvalidPointer
	}
	delete(b.dirs, path)
	return nil
}

func (b *FileBackend) OpenDir(path string) (backend.DirHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.dirs[path] {
		return nil, errkind.KindInvalidPointer
	}
	prefix := strings.TrimSuffix(path, "/") + "/"
	var names []string
	for p := range b.files {
		if rest, ok := strings.CutPrefix(p, prefix); ok && !strings.Contains(rest, "/") {
			names = append(names, rest)
		}
	}
	for p := range b.dirs {
		if rest, ok := strings.CutPrefix(p, prefix); ok && rest != "" && !strings.Contains(strings.TrimSuffix(rest, "/"), "/") {
			names = append(names, strings.TrimSuffix(rest, "/"))
		}
	}
	sort.Strings(names)
	return &memDirHandle{names: names}, nil
}

type memFileHandle struct {
	file     *memFile
	fd       int
	offset   int64
	writable bool
}

func (h *memFileHandle) Read(buf []byte) (int, error) {
	h.file.mu.RLock()
	defer h.file.mu.RUnlock()
	if h.offset >= int64(len(h.file.data)) {
		return 0, io.EOF
	}
	n := copy(buf, h.file.data[h.offset:])
	h.offset += int64(n)
	return n, nil
}

func (h *memFileHandle) Write(buf []byte) (int, error) {
	h.file.mu.Lock()
	defer h.file.mu.Unlock()
	end := h.offset + int64(len(buf))
	if end > int64(len(h.file.data)) {
		grown := make([]byte, end)
		copy(grown, h.file.data)
		h.file.data = grown
	}
	n := copy(h.file.data[h.offset:end], buf)
	h.offset += int64(n)
	h.file.modTime = time.Time{}
	return n, nil
}

func (h *memFileHandle) Seek(offset int64, whence int) (int64, error) {
	h.file.mu.RLock()
	size := int64(len(h.file.data))
	h.file.mu.RUnlock()

	switch whence {
	case io.SeekStart:
		h.offset = offset
	case io.SeekCurrent:
		h.offset += offset
	case io.SeekEnd:
		h.offset = size + offset
	}
	return h.offset, nil
}

func (h *memFileHandle) Close() error { return nil }
func (h *memFileHandle) Fd() int      { return h.fd }

type memDirHandle struct {
	names []string
	next  int
}

func (d *memDirHandle) Read() (string, bool, error) {
	if d.next >= len(d.names) {
		return "", false, nil
	}
	name := d.names[d.next]
	d.next++
	return name, true, nil
}

func (d *memDirHandle) Close() error { return nil }
