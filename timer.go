package osal

import (
	"github.com/go-osal/osal/internal/errkind"
	"github.com/go-osal/osal/internal/idmap"
	"github.com/go-osal/osal/internal/timebase"
)

// TimerCallback is invoked from the owning time base's dispatch
// goroutine, never from the caller's own goroutine. It must not block.
type TimerCallback func(id idmap.ObjectId)

type timerRecord struct {
	timebaseId idmap.ObjectId
	base       *timebase.Base
	callback   TimerCallback
	armed      bool
}

// TimerAdd binds a new, disarmed timer to an existing time base. Call
// TimerSet to actually schedule it; a timer with no TimerSet call
// never fires, but it still references its base, so TimeBaseDelete
// refuses that base until the timer is deleted.
func TimerAdd(name string, timebaseId idmap.ObjectId, callback TimerCallback) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}

	tbTok, tbRec, err := s.timebases.AcquireShared(timebaseId)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_TimerAdd", timebaseId, err)
	}
	base := tbRec.engine
	s.timebases.ReleaseShared(tbTok)

	tok, id, err := s.timers.Reserve(name, idmap.ObjectIdUndefined)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_TimerAdd", idmap.ObjectIdUndefined, err)
	}
	rec := timerRecord{timebaseId: timebaseId, base: base, callback: callback}
	if err := s.timers.Commit(tok, rec); err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_TimerAdd", id, err)
	}
	return id, nil
}

// TimerSet (re)schedules a timer. startUs is the delay, in
// microseconds, until the first expiration; intervalUs, if non-zero,
// rearms the timer periodically after that. Both are rounded up to
// the owning time base's tick accuracy.
func TimerSet(id idmap.ObjectId, startUs, intervalUs uint32) error {
	s, err := current()
	if err != nil {
		return err
	}

	// A start and period of zero together would arm a timer to fire
	// immediately and never again, which is never a useful schedule --
	// either alone is fine (zero start = fire on the first tick, zero
	// period = one-shot).
	if startUs == 0 && intervalUs == 0 {
		return wrapErr("OS_TimerSet", id, errkind.KindTimerInvalidArgs)
	}

	snap, err := s.timers.Snapshot(id)
	if err != nil {
		return wrapErr("OS_TimerSet", id, err)
	}
	base := snap.Backend.base
	accuracy := base.AccuracyMicros()
	startTicks := timebase.UsToTicks(startUs, accuracy)
	intervalTicks := timebase.UsToTicks(intervalUs, accuracy)

	err = s.timers.Update(id, func(r *timerRecord) error {
		if !r.armed {
			if err := r.base.Add(id, startTicks, intervalTicks, func(tid idmap.ObjectId) { r.callback(tid) }); err != nil {
				return err
			}
			r.armed = true
			return nil
		}
		return r.base.Set(id, startTicks, intervalTicks)
	})
	if err != nil {
		return wrapErr("OS_TimerSet", id, err)
	}
	return nil
}

// TimerDelete unbinds a timer from its time base and frees its id.
func TimerDelete(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	delTok, rec, err := s.timers.AcquireExclusiveForDelete(id)
	if err != nil {
		return wrapErr("OS_TimerDelete", id, err)
	}
	if rec.armed {
		rec.base.Remove(id)
	}
	if err := s.timers.FinishDelete(delTok, nil, false); err != nil {
		return wrapErr("OS_TimerDelete", id, err)
	}
	return nil
}

// TimerGetIdByName looks up a timer's id by name.
func TimerGetIdByName(name string) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}
	id, err := s.timers.GetIdByName(name)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_TimerGetIdByName", idmap.ObjectIdUndefined, err)
	}
	return id, nil
}

// TimerCreate is the single-call convenience form: it creates a
// private time base named name+".timebase" and binds one disarmed
// timer to it (schedule it with TimerSet), mirroring the one-step
// timer API callers expect when they don't need to share a time base
// across timers. accuracyUs is not used; the hidden base runs at the
// backend's own quantum, which TimeBaseGetAccuracy reports. TimerDelete
// removes only the timer; the hidden base stays allocated until
// TimeBaseDelete or Teardown.
func TimerCreate(name string, accuracyUs uint32, callback TimerCallback) (idmap.ObjectId, error) {
	tbId, err := TimeBaseCreate(name+".timebase", false)
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}
	id, err := TimerAdd(name, tbId, callback)
	if err != nil {
		_ = TimeBaseDelete(tbId)
		return idmap.ObjectIdUndefined, err
	}
	return id, nil
}
