// Package timebase implements the dispatch engine a time base object
// runs: one platform tick source multiplexed across however many
// timers are registered against it. It is an "actor" -- one goroutine
// per Base, a mailbox (the tick channel), and a handler mutex
// serialising timer list mutation with dispatch -- so the same engine
// works whether the platform tick source is a kernel timer, a signal,
// or (as in the reference sim backend) a time.Timer.
package timebase

import (
	"sync"

	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/errkind"
	"github.com/go-osal/osal/internal/idmap"
	"github.com/go-osal/osal/internal/logging"
)

// timer is one registered callback. Deadlines and periods are counted
// in tick units, never wall-clock time directly, so the dispatch loop
// never has to re-derive them from a clock that may have stepped.
type timer struct {
	id       idmap.ObjectId
	deadline uint64
	period   uint64 // 0 = one-shot
	callback func(id idmap.ObjectId)
	overruns uint64
}

// Base owns one backend.TimeBaseHandle tick source and the goroutine
// dispatching every timer registered against it.
type Base struct {
	mu     sync.Mutex // handler mutex: table -> time-base-handler -> console
	handle backend.TimeBaseHandle
	timers map[idmap.ObjectId]*timer

	tickCount uint64
	resetFlag bool

	logger *logging.Logger
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New starts the dispatch goroutine for handle. The goroutine runs
// until Close is called.
func New(handle backend.TimeBaseHandle, logger *logging.Logger) *Base {
	if logger == nil {
		logger = logging.Default()
	}
	b := &Base{
		handle: handle,
		timers: make(map[idmap.ObjectId]*timer),
		logger: logger,
		stopCh: make(chan struct{}),
	}
	b.wg.Add(1)
	go b.runLoop()
	return b
}

// AccuracyMicros is the nominal tick quantum of the underlying source.
func (b *Base) AccuracyMicros() uint32 {
	return b.handle.AccuracyMicros()
}

// TimerCount returns the number of timers currently bound to this
// base. A base refuses deletion while non-empty.
func (b *Base) TimerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.timers)
}

// Add registers a new timer at startTicks from now, repeating every
// periodTicks ticks (0 for one-shot).
func (b *Base) Add(id idmap.ObjectId, startTicks, periodTicks uint64, cb func(idmap.ObjectId)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.timers[id]; exists {
		return errkind.KindTimerInvalidArgs
	}
	b.timers[id] = &timer{
		id:       id,
		deadline: b.tickCount + startTicks,
		period:   periodTicks,
		callback: cb,
	}
	b.rearmLocked()
	return nil
}

// Set reschedules an existing timer (OS_TimerSet semantics: restart
// the one-shot/period cycle from now).
func (b *Base) Set(id idmap.ObjectId, startTicks, periodTicks uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tm, ok := b.timers[id]
	if !ok {
		return errkind.KindInvalidId
	}
	tm.deadline = b.tickCount + startTicks
	tm.period = periodTicks
	b.rearmLocked()
	return nil
}

// Remove unregisters a timer. A timer whose callback is mid-flight
// completes naturally: the dispatch loop holds its own reference
// during the call and Remove only deletes the map entry, which is
// safe to do concurrently with that in-flight call because Go map
// deletion does not invalidate the caller's already-read pointer.
func (b *Base) Remove(id idmap.ObjectId) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.timers, id)
	b.rearmLocked()
}

// Reset asks the dispatch loop to recompute deadlines relative to the
// current tick count, e.g. after a host clock step.
func (b *Base) Reset() {
	b.mu.Lock()
	b.resetFlag = true
	b.mu.Unlock()
	b.handle.Reset()
}

// Close stops the dispatch goroutine and the underlying tick source.
func (b *Base) Close() {
	close(b.stopCh)
	b.wg.Wait()
	b.handle.Close()
}

// Ticks returns the base's current monotonic tick count.
func (b *Base) Ticks() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tickCount
}

func (b *Base) runLoop() {
	defer b.wg.Done()
	ticks := b.handle.Ticks()
	for {
		select {
		case <-b.stopCh:
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
			b.onTick()
		}
	}
}

func (b *Base) onTick() {
	b.mu.Lock()
	b.tickCount++
	if b.resetFlag {
		now := b.tickCount
		for _, tm := range b.timers {
			tm.deadline = now
		}
		b.resetFlag = false
	}

	due := make([]*timer, 0, 4)
	for _, tm := range b.timers {
		if tm.deadline <= b.tickCount {
			due = append(due, tm)
		}
	}
	b.mu.Unlock()

	// Callbacks run with the handler mutex released, so a callback
	// that itself calls TimerAdd/TimerDelete on this base cannot
	// deadlock against dispatch.
	for _, tm := range due {
		cb := tm.callback
		if cb != nil {
			cb(tm.id)
		}
	}

	b.mu.Lock()
	for _, tm := range due {
		if _, stillBound := b.timers[tm.id]; !stillBound {
			continue // deleted from within its own callback
		}
		if tm.period > 0 {
			next := tm.deadline + tm.period
			if next <= b.tickCount {
				// Restore monotonicity without silently dropping more
				// than one period: skip forward to the next period
				// boundary and flag the overrun.
				missed := (b.tickCount - tm.deadline) / tm.period
				next = tm.deadline + (missed+1)*tm.period
				tm.overruns += missed
				b.logger.Warn("timer overrun", "id", tm.id, "missed_periods", missed)
			}
			tm.deadline = next
		} else {
			delete(b.timers, tm.id)
		}
	}
	b.rearmLocked()
	b.mu.Unlock()
}

func (b *Base) rearmLocked() {
	var next uint64
	has := false
	for _, tm := range b.timers {
		if !has || tm.deadline < next {
			next = tm.deadline
			has = true
		}
	}
	if !has {
		return
	}
	var delta uint64
	if next > b.tickCount {
		delta = next - b.tickCount
	}
	b.handle.Arm(ticksToDuration(delta, b.handle.AccuracyMicros()))
}

// Overruns reports the accumulated missed-period count for a timer,
// for diagnostics.
func (b *Base) Overruns(id idmap.ObjectId) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if tm, ok := b.timers[id]; ok {
		return tm.overruns
	}
	return 0
}
