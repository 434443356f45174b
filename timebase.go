package osal

import (
	"github.com/go-osal/osal/internal/idmap"
	"github.com/go-osal/osal/internal/timebase"
)

type timeBaseRecord struct {
	engine *timebase.Base
}

// TimeBaseCreate starts a new time base: one platform tick source
// dispatched to however many timers get bound to it with TimerAdd.
// externalSync, when true, asks the backend to synchronize its tick
// source to an external reference instead of free-running.
func TimeBaseCreate(name string, externalSync bool) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}

	tok, id, err := s.timebases.Reserve(name, idmap.ObjectIdUndefined)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_TimeBaseCreate", idmap.ObjectIdUndefined, err)
	}

	h, err := s.backends.TimeBase.CreateTimeBase(externalSync)
	if err != nil {
		s.timebases.Abort(tok)
		return idmap.ObjectIdUndefined, wrapErr("OS_TimeBaseCreate", idmap.ObjectIdUndefined, err)
	}

	engine := timebase.New(h, s.logger.Named("timebase"))
	if err := s.timebases.Commit(tok, timeBaseRecord{engine: engine}); err != nil {
		engine.Close()
		return idmap.ObjectIdUndefined, wrapErr("OS_TimeBaseCreate", id, err)
	}
	return id, nil
}

// TimeBaseDelete stops a time base's dispatch goroutine and tick
// source. It refuses while any timer still references this base, armed
// or not: a base cannot be deleted out from under a timer that
// references it.
func TimeBaseDelete(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}

	delTok, rec, err := s.timebases.AcquireExclusiveForDelete(id)
	if err != nil {
		return wrapErr("OS_TimeBaseDelete", id, err)
	}

	bound := rec.engine.TimerCount() > 0
	s.timers.Each(idmap.StateActive, func(t idmap.RecordSnapshot[timerRecord]) {
		if t.Backend.timebaseId == id {
			bound = true
		}
	})
	if bound {
		refuse := newErr("OS_TimeBaseDelete", id, KindError, "time base still has timers bound")
		_ = s.timebases.FinishDelete(delTok, refuse, false)
		return refuse
	}

	rec.engine.Close()
	if err := s.timebases.FinishDelete(delTok, nil, false); err != nil {
		return wrapErr("OS_TimeBaseDelete", id, err)
	}
	return nil
}

// TimeBaseGetIdByName looks up a time base's id by name.
func TimeBaseGetIdByName(name string) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}
	id, err := s.timebases.GetIdByName(name)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_TimeBaseGetIdByName", idmap.ObjectIdUndefined, err)
	}
	return id, nil
}

// TimeBaseGetAccuracy reports the tick quantum, in microseconds, that
// the underlying backend actually achieves.
func TimeBaseGetAccuracy(id idmap.ObjectId) (uint32, error) {
	s, err := current()
	if err != nil {
		return 0, err
	}
	snap, err := s.timebases.Snapshot(id)
	if err != nil {
		return 0, wrapErr("OS_TimeBaseGetFreeRun", id, err)
	}
	return snap.Backend.engine.AccuracyMicros(), nil
}
