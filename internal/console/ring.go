// Package console implements the console ring buffer: writers append
// bytes under a short lock and a single drain goroutine owns the only
// call into the platform console backend, so a slow or blocking
// terminal write never stalls a task calling OS_printf.
package console

import (
	"errors"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/go-osal/osal/internal/backend"
)

// Ring buffers console output between OS_printf callers and the
// single drain goroutine that owns the platform write.
type Ring struct {
	mu      sync.Mutex
	buf     []byte
	head    int
	tail    int
	count   int
	enabled int32 // atomic bool

	overflow uint64 // atomic

	notify chan struct{}
	stopCh chan struct{}
	wg     sync.WaitGroup

	backend backend.ConsoleBackend
}

// New starts the drain goroutine writing to backend out of a ring of
// the given capacity. The console starts enabled.
func New(out backend.ConsoleBackend, capacity int) *Ring {
	if capacity <= 0 {
		capacity = 4096
	}
	r := &Ring{
		buf:     make([]byte, capacity),
		enabled: 1,
		notify:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		backend: out,
	}
	r.wg.Add(1)
	go r.drainLoop()
	return r
}

// SetEnabled gates whether Write accepts new bytes. Disabling does
// not discard bytes already queued; the drain goroutine still flushes
// them.
func (r *Ring) SetEnabled(enabled bool) {
	if enabled {
		atomic.StoreInt32(&r.enabled, 1)
	} else {
		atomic.StoreInt32(&r.enabled, 0)
	}
}

// Enabled reports the current gate state.
func (r *Ring) Enabled() bool {
	return atomic.LoadInt32(&r.enabled) != 0
}

// Overflow returns the count of bytes dropped because the ring was
// full when Write was called.
func (r *Ring) Overflow() uint64 {
	return atomic.LoadUint64(&r.overflow)
}

// Write enqueues data for the drain goroutine. When the console is
// disabled, or the ring is full, the write is dropped and (in the
// full case) counted against Overflow; Write itself never blocks.
func (r *Ring) Write(data []byte) (int, error) {
	if !r.Enabled() {
		return 0, nil
	}

	r.mu.Lock()
	free := len(r.buf) - r.count
	n := len(data)
	if n > free {
		dropped := n - free
		atomic.AddUint64(&r.overflow, uint64(dropped))
		n = free
	}
	for i := 0; i < n; i++ {
		r.buf[r.tail] = data[i]
		r.tail = (r.tail + 1) % len(r.buf)
	}
	r.count += n
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
	return n, nil
}

// Close stops the drain goroutine after flushing whatever remains
// queued.
func (r *Ring) Close() {
	close(r.stopCh)
	r.wg.Wait()
}

func (r *Ring) drainLoop() {
	defer r.wg.Done()
	scratch := make([]byte, len(r.buf))
	for {
		n := r.drainOnce(scratch)
		if n > 0 {
			continue // keep draining while data is still queued
		}
		select {
		case <-r.stopCh:
			r.drainOnce(scratch) // final flush
			return
		case <-r.notify:
		}
	}
}

func (r *Ring) drainOnce(scratch []byte) int {
	r.mu.Lock()
	n := r.count
	if n > len(scratch) {
		n = len(scratch)
	}
	for i := 0; i < n; i++ {
		scratch[i] = r.buf[r.head]
		r.head = (r.head + 1) % len(r.buf)
	}
	r.count -= n
	r.mu.Unlock()

	// Loop over short writes and retry on EINTR; any other error, or a
	// write that makes no progress, drops the rest of this run.
	for off := 0; off < n; {
		w, err := r.backend.WriteConsole(scratch[off:n])
		off += w
		if err != nil && !errors.Is(err, syscall.EINTR) {
			break
		}
		if w == 0 && err == nil {
			break
		}
	}
	return n
}
