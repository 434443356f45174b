// Package backend declares the capability set a platform back-end
// must provide for each OSAL resource type. The core never reaches
// into a back-end's private data; every method here takes only plain
// values and the minimal identifying info a platform implementation
// needs, splitting the public and platform-facing surfaces.
package backend

import (
	"context"
	"time"

	"github.com/go-osal/osal/internal/errkind"
)

// TaskBackend creates and manages the platform thread of execution
// standing in for an OSAL task.
type TaskBackend interface {
	// CreateTask starts a new schedulable unit of execution running
	// entry(arg). It must not block past the point the unit is
	// schedulable.
	CreateTask(name string, entry func(arg any), arg any, stackSize int, priority int) (TaskHandle, error)
	DeleteTask(h TaskHandle) error
	SetPriority(h TaskHandle, priority int) error
	Delay(ctx context.Context, d time.Duration) error
}

// TaskHandle is the opaque platform-side reference to a running task,
// owned entirely by the TaskBackend implementation.
type TaskHandle interface {
	Join()
}

// QueueBackend implements a bounded FIFO of fixed-size messages.
type QueueBackend interface {
	CreateQueue(depth, itemSize int) (QueueHandle, error)
	DeleteQueue(h QueueHandle) error
}

// QueueHandle is the platform-side queue; Get/Put operate directly on
// it so the core never copies message bytes through an intermediate
// representation.
type QueueHandle interface {
	Put(ctx context.Context, data []byte, timeout time.Duration) error
	Get(ctx context.Context, buf []byte, timeout time.Duration) (n int, err error)
}

// BinSemBackend implements a binary semaphore (0 or 1).
type BinSemBackend interface {
	CreateBinSem(initial int) (BinSemHandle, error)
	DeleteBinSem(h BinSemHandle) error
}

type BinSemHandle interface {
	Take(ctx context.Context, timeout time.Duration) error
	Give() error
	Flush() error
}

// CountSemBackend implements a counting semaphore.
type CountSemBackend interface {
	CreateCountSem(initial int) (CountSemHandle, error)
	DeleteCountSem(h CountSemHandle) error
}

type CountSemHandle interface {
	Take(ctx context.Context, timeout time.Duration) error
	Give() error
}

// MutexBackend implements a simple recursive-free mutual exclusion
// lock.
type MutexBackend interface {
	CreateMutex() (MutexHandle, error)
	DeleteMutex(h MutexHandle) error
}

type MutexHandle interface {
	Take() error
	Give() error
}

// RWLockBackend implements a reader/writer lock.
type RWLockBackend interface {
	CreateRWLock() (RWLockHandle, error)
	DeleteRWLock(h RWLockHandle) error
}

type RWLockHandle interface {
	ReadTake() error
	ReadGive() error
	WriteTake() error
	WriteGive() error
}

// TimeBaseBackend owns exactly one platform tick source.
type TimeBaseBackend interface {
	// CreateTimeBase returns a tick source that delivers a tick on
	// Ticks() each time an Arm deadline elapses; the quantum it
	// achieves is reported by the handle's AccuracyMicros.
	CreateTimeBase(externalSync bool) (TimeBaseHandle, error)
	DeleteTimeBase(h TimeBaseHandle) error
}

// TimeBaseHandle is the platform tick source. Reset re-synchronises
// the source (e.g. after a host clock step).
type TimeBaseHandle interface {
	Ticks() <-chan struct{}
	AccuracyMicros() uint32
	Arm(next time.Duration)
	Reset()
	Close()
}

// Open flags for FileBackend.Open, portable across back-ends.
const (
	OpenRead = 1 << iota
	OpenWrite
	OpenCreate
	OpenTruncate
)

// FileBackend opens and manages platform file descriptors.
type FileBackend interface {
	Open(path string, flags int) (FileHandle, bool, error) // bool: selectable
	Remove(path string) error
	Rename(oldPath, newPath string) error
	Chmod(path string, mode uint32) error
	Stat(path string) (FileStat, error)
	MkDir(path string) error
	RmDir(path string) error
	OpenDir(path string) (DirHandle, error)
}

type FileHandle interface {
	Read(buf []byte) (int, error)
	Write(buf []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	Close() error
	Fd() int
}

type DirHandle interface {
	Read() (name string, ok bool, err error)
	Close() error
}

// FileStat is the portable subset of file metadata get_info exposes.
type FileStat struct {
	Size    int64
	Mode    uint32
	IsDir   bool
	ModTime time.Time
}

// ModuleBackend loads and resolves platform dynamic modules.
type ModuleBackend interface {
	Load(path string, global bool) (ModuleHandle, error)
	Unload(h ModuleHandle) error
	SymbolLookup(h ModuleHandle, symbol string) (uintptr, error)
	SymbolLookupGlobal(symbol string) (uintptr, error)
}

type ModuleHandle interface {
	EntryPoint() uintptr
	AddrRanges() (start, end uintptr)
}

// ModuleSymbolEnumerator is an optional capability a back-end may
// implement to support OS_SymbolTableDump. Most platform dynamic
// loaders cannot enumerate every symbol in a loaded object; a
// back-end that can't simply doesn't implement this, and the public
// API reports NotImplemented.
type ModuleSymbolEnumerator interface {
	EnumerateSymbols(h ModuleHandle) map[string]uintptr
}

// ConsoleBackend is the single platform descriptor the console ring's
// drain thread writes to.
type ConsoleBackend interface {
	WriteConsole(buf []byte) (int, error)
}

// NotImplemented is the sentinel a back-end returns for an operation
// it does not support on this platform; the core propagates that
// status as-is. It is data, not a missing method -- every interface
// above other than the optional ModuleSymbolEnumerator is always fully
// implemented, even if some methods just return this.
var NotImplemented = errkind.KindNotImplemented
