package sim

import (
	"time"

	"github.com/go-osal/osal/internal/backend"
)

// simAccuracyMicros is the quantum the sim backend's tick source
// reports; it is arbitrary but fixed so tests can reason about it.
const simAccuracyMicros = 1000

// TimeBaseBackend produces one goroutine-driven tick source per time
// base, armed by the core's dispatch loop (internal/timebase.Base)
// rather than free-running, so idle time bases cost nothing.
type TimeBaseBackend struct{}

func NewTimeBaseBackend() *TimeBaseBackend { return &TimeBaseBackend{} }

type timeBaseHandle struct {
	ticks   chan struct{}
	armCh   chan time.Duration
	resetCh chan struct{}
	closeCh chan struct{}
}

func (b *TimeBaseBackend) CreateTimeBase(externalSync bool) (backend.TimeBaseHandle, error) {
	h := &timeBaseHandle{
		ticks:   make(chan struct{}, 1),
		armCh:   make(chan time.Duration),
		resetCh: make(chan struct{}),
		closeCh: make(chan struct{}),
	}
	go h.run()
	return h, nil
}

func (b *TimeBaseBackend) DeleteTimeBase(h backend.TimeBaseHandle) error {
	return nil
}

func (h *timeBaseHandle) run() {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-h.closeCh:
			return
		case d := <-h.armCh:
			drainTimer(timer)
			if d <= 0 {
				d = time.Nanosecond
			}
			timer.Reset(d)
		case <-h.resetCh:
			// The sim source has no external reference to resync
			// against; Reset is a no-op beyond what Arm already does.
		case <-timer.C:
			select {
			case h.ticks <- struct{}{}:
			default:
				// Dispatch hasn't drained the previous tick; the core's
				// own missed-period accounting covers the overrun.
			}
		}
	}
}

func drainTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func (h *timeBaseHandle) Ticks() <-chan struct{} { return h.ticks }
func (h *timeBaseHandle) AccuracyMicros() uint32  { return simAccuracyMicros }

func (h *timeBaseHandle) Arm(next time.Duration) {
	select {
	case h.armCh <- next:
	case <-h.closeCh:
	}
}

func (h *timeBaseHandle) Reset() {
	select {
	case h.resetCh <- struct{}{}:
	case <-h.closeCh:
	}
}

func (h *timeBaseHandle) Close() {
	select {
	case <-h.closeCh:
	default:
		close(h.closeCh)
	}
}
