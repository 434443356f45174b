package osal

import (
	"context"
	"time"

	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/idmap"
)

// TaskDeleteHandler runs once a task's slot has been reaped, whether
// that happened through an external TaskDelete or through the task
// exiting on its own (entry returning, or TaskExit). It runs on the
// goroutine that drove the reap, never concurrently with itself.
type TaskDeleteHandler func(id idmap.ObjectId)

// taskRecord is the idmap payload for a task object: the backend
// handle plus the fields OS_TaskGetInfo reports that the backend
// itself does not own.
type taskRecord struct {
	handle        backend.TaskHandle
	priority      int
	deleteHandler TaskDeleteHandler
}

// taskExitSignal is the sentinel TaskExit panics with. The entry
// wrapper recovers exactly this value and treats it as an ordinary
// return; any other panic keeps propagating.
type taskExitSignal struct{}

// TaskExit ends the calling task immediately, as an alternative to
// letting entry return on its own. It must be called from within a
// task's own entry function -- calling it from any other goroutine
// only unwinds that goroutine's stack and reaps nothing.
func TaskExit() {
	panic(taskExitSignal{})
}

// TaskCreate starts a new task running entry(arg) and returns its id.
// entry runs on its own goroutine; priority and stackSize are passed
// through to the backend, which may ignore either on platforms
// without real scheduling priorities.
//
// entry returning, or entry calling TaskExit, both end the task the
// same way: its slot is reaped and its registered delete handler, if
// any, runs -- the same outcome an external TaskDelete produces.
func TaskCreate(name string, entry func(arg any), arg any, stackSize, priority int) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}

	tok, id, err := s.tasks.Reserve(name, idmap.ObjectIdUndefined)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_TaskCreate", idmap.ObjectIdUndefined, err)
	}

	// committed gates the wrapped entry from running until this slot
	// is either active or aborted, so a task that returns (or exits)
	// the instant it starts can never race reapTask against Commit.
	committed := make(chan struct{})
	wrapped := func(a any) {
		<-committed
		defer reapTask(id)
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(taskExitSignal); !ok {
					panic(r)
				}
			}
		}()
		entry(a)
	}

	h, err := s.backends.Task.CreateTask(name, wrapped, arg, stackSize, priority)
	if err != nil {
		close(committed)
		s.tasks.Abort(tok)
		return idmap.ObjectIdUndefined, wrapErr("OS_TaskCreate", idmap.ObjectIdUndefined, err)
	}

	if err := s.tasks.Commit(tok, taskRecord{handle: h, priority: priority}); err != nil {
		close(committed)
		return idmap.ObjectIdUndefined, wrapErr("OS_TaskCreate", id, err)
	}
	close(committed)
	return id, nil
}

// reapTask drives id's slot through the same delete path TaskDelete
// uses, and runs its delete handler, when a task's own goroutine
// returns instead of being torn down by an external TaskDelete call.
// alreadyGone is true since there is nothing left for the backend to
// stop: the goroutine asking for the reap is the one exiting.
func reapTask(id idmap.ObjectId) {
	s, err := current()
	if err != nil {
		return // Teardown already ran.
	}
	delTok, rec, err := s.tasks.AcquireExclusiveForDelete(id)
	if err != nil {
		return // deleted externally already, or never committed
	}
	if err := s.tasks.FinishDelete(delTok, nil, true); err != nil {
		s.logger.Warn("task reap failed", "id", id, "err", err)
		return
	}
	if rec.deleteHandler != nil {
		rec.deleteHandler(id)
	}
}

// TaskRegisterDeleteHandler installs fn to run once id's slot has
// been reaped. Only one handler may be registered per task; a later
// call replaces the earlier one.
func TaskRegisterDeleteHandler(id idmap.ObjectId, fn TaskDeleteHandler) error {
	s, err := current()
	if err != nil {
		return err
	}
	if err := s.tasks.Update(id, func(r *taskRecord) error {
		r.deleteHandler = fn
		return nil
	}); err != nil {
		return wrapErr("OS_TaskRegisterDeleteHandler", id, err)
	}
	return nil
}

// TaskDelete removes a task from the table and asks the backend to
// stop it. See backend/sim's TaskBackend doc comment for the sim
// back-end's limits on actually interrupting a running goroutine.
func TaskDelete(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}

	delTok, rec, err := s.tasks.AcquireExclusiveForDelete(id)
	if err != nil {
		return wrapErr("OS_TaskDelete", id, err)
	}

	backendErr := s.backends.Task.DeleteTask(rec.handle)
	if err := s.tasks.FinishDelete(delTok, backendErr, false); err != nil {
		return wrapErr("OS_TaskDelete", id, err)
	}
	if rec.deleteHandler != nil {
		rec.deleteHandler(id)
	}
	return nil
}

// TaskSetPriority changes a task's scheduling priority.
func TaskSetPriority(id idmap.ObjectId, priority int) error {
	s, err := current()
	if err != nil {
		return err
	}

	tok, rec, err := s.tasks.AcquireShared(id)
	if err != nil {
		return wrapErr("OS_TaskSetPriority", id, err)
	}
	backendErr := s.backends.Task.SetPriority(rec.handle, priority)
	s.tasks.ReleaseShared(tok)
	if backendErr != nil {
		return wrapErr("OS_TaskSetPriority", id, backendErr)
	}

	_ = s.tasks.Update(id, func(r *taskRecord) error {
		r.priority = priority
		return nil
	})
	return nil
}

// TaskDelay blocks the calling goroutine for d, honoring ctx
// cancellation (OS_TaskDelay takes only a duration; this port adds
// ctx so that a delay can be cancelled).
func TaskDelay(ctx context.Context, d time.Duration) error {
	s, err := current()
	if err != nil {
		return err
	}
	if err := s.backends.Task.Delay(ctx, d); err != nil {
		return wrapErr("OS_TaskDelay", idmap.ObjectIdUndefined, err)
	}
	return nil
}

// TaskGetIdByName looks up a task's id by its registered name.
func TaskGetIdByName(name string) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}
	id, err := s.tasks.GetIdByName(name)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_TaskGetIdByName", idmap.ObjectIdUndefined, err)
	}
	return id, nil
}

// TaskInfo is the portable subset OS_TaskGetInfo reports.
type TaskInfo struct {
	Id       idmap.ObjectId
	Name     string
	Priority int
}

// TaskGetInfo snapshots a task's table entry.
func TaskGetInfo(id idmap.ObjectId) (TaskInfo, error) {
	s, err := current()
	if err != nil {
		return TaskInfo{}, err
	}
	snap, err := s.tasks.Snapshot(id)
	if err != nil {
		return TaskInfo{}, wrapErr("OS_TaskGetInfo", id, err)
	}
	return TaskInfo{Id: snap.ID, Name: snap.Name, Priority: snap.Backend.priority}, nil
}
