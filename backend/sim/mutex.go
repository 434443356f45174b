package sim

import (
	"sync"

	"github.com/go-osal/osal/internal/backend"
)

// MutexBackend wraps sync.Mutex directly: OSAL mutex semantics
// (unconditional blocking Take/Give, no timeout) map onto it exactly.
type MutexBackend struct{}

func NewMutexBackend() *MutexBackend { return &MutexBackend{} }

type mutexHandle struct {
	mu sync.Mutex
}

func (b *MutexBackend) CreateMutex() (backend.MutexHandle, error) {
	return &mutexHandle{}, nil
}

func (b *MutexBackend) DeleteMutex(h backend.MutexHandle) error {
	return nil
}

func (m *mutexHandle) Take() error {
	m.mu.Lock()
	return nil
}

func (m *mutexHandle) Give() error {
	m.mu.Unlock()
	return nil
}

// RWLockBackend wraps sync.RWMutex.
type RWLockBackend struct{}

func NewRWLockBackend() *RWLockBackend { return &RWLockBackend{} }

type rwLockHandle struct {
	mu sync.RWMutex
}

func (b *RWLockBackend) CreateRWLock() (backend.RWLockHandle, error) {
	return &rwLockHandle{}, nil
}

func (b *RWLockBackend) DeleteRWLock(h backend.RWLockHandle) error {
	return nil
}

func (l *rwLockHandle) ReadTake() error {
	l.mu.RLock()
	return nil
}

func (l *rwLockHandle) ReadGive() error {
	l.mu.RUnlock()
	return nil
}

func (l *rwLockHandle) WriteTake() error {
	l.mu.Lock()
	return nil
}

func (l *rwLockHandle) WriteGive() error {
	l.mu.Unlock()
	return nil
}
