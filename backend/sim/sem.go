package sim

import (
	"context"
	"sync"
	"time"

	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/errkind"
)

// BinSemBackend implements a binary semaphore as a capacity-1 token
// channel plus a flush generation channel: Flush releases every
// blocked Take without handing any of them the token, matching
// OS_BinSemFlush's "ready, but not signaled" contract.
type BinSemBackend struct{}

func NewBinSemBackend() *BinSemBackend { return &BinSemBackend{} }

type binSemHandle struct {
	mu      sync.Mutex
	token   chan struct{}
	flushCh chan struct{}
}

func (b *BinSemBackend) CreateBinSem(initial int) (backend.BinSemHandle, error) {
	h := &binSemHandle{token: make(chan struct{}, 1), flushCh: make(chan struct{})}
	if initial != 0 {
		h.token <- struct{}{}
	}
	return h, nil
}

func (b *BinSemBackend) DeleteBinSem(h backend.BinSemHandle) error {
	return nil
}

func (s *binSemHandle) Take(ctx context.Context, timeout time.Duration) error {
	s.mu.Lock()
	flush := s.flushCh
	s.mu.Unlock()

	if timeout == 0 {
		select {
		case <-s.token:
			return nil
		default:
			return errTimeout
		}
	}

	deadline, stop := afterChan(timeout)
	defer stop()
	select {
	case <-s.token:
		return nil
	case <-flush:
		return errkind.KindSemFailure
	case <-ctx.Done():
		return ctx.Err()
	case <-deadline:
		return errTimeout
	}
}

func (s *binSemHandle) Give() error {
	select {
	case s.token <- struct{}{}:
	default:
	}
	return nil
}

func (s *binSemHandle) Flush() error {
	s.mu.Lock()
	close(s.flushCh)
	s.flushCh = make(chan struct{})
	s.mu.Unlock()
	return nil
}

// CountSemBackend implements a counting semaphore as a buffered
// channel capped at climits.Config.MaxSemValue.
type CountSemBackend struct {
	max int
}

func NewCountSemBackend(maxValue int) *CountSemBackend {
	return &CountSemBackend{max: maxValue}
}

type countSemHandle struct {
	tokens chan struct{}
}

func (b *CountSemBackend) CreateCountSem(initial int) (backend.CountSemHandle, error) {
	cap := b.max
	if cap <= 0 {
		cap = 1
	}
	h := &countSemHandle{tokens: make(chan struct{}, cap)}
	for i := 0; i < initial && i < cap; i++ {
		h.tokens <- struct{}{}
	}
	return h, nil
}

func (b *CountSemBackend) DeleteCountSem(h backend.CountSemHandle) error {
	return nil
}

func (s *countSemHandle) Take(ctx context.Context, timeout time.Duration) error {
	if timeout == 0 {
		select {
		case <-s.tokens:
			return nil
		default:
			return errTimeout
		}
	}

	deadline, stop := afterChan(timeout)
	defer stop()
	select {
	case <-s.tokens:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-deadline:
		return errTimeout
	}
}

func (s *countSemHandle) Give() error {
	select {
	case s.tokens <- struct{}{}:
		return nil
	default:
		return errkind.KindSemFailure
	}
}
