package osal

import (
	"sync"

	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/climits"
	"github.com/go-osal/osal/internal/console"
	"github.com/go-osal/osal/internal/errkind"
	"github.com/go-osal/osal/internal/idmap"
	"github.com/go-osal/osal/internal/logging"
)

// Backends gathers one implementation per resource type. A deployment
// builds this from backend/sim for testing/simulation, or from its
// own platform package for a real target.
type Backends struct {
	Task     backend.TaskBackend
	Queue    backend.QueueBackend
	BinSem   backend.BinSemBackend
	CountSem backend.CountSemBackend
	Mutex    backend.MutexBackend
	RWLock   backend.RWLockBackend
	TimeBase backend.TimeBaseBackend
	File     backend.FileBackend
	Module   backend.ModuleBackend
	Console  backend.ConsoleBackend
}

type apiState struct {
	cfg      climits.Config
	backends Backends

	tasks     *idmap.Table[taskRecord]
	queues    *idmap.Table[queueRecord]
	binsems   *idmap.Table[binSemRecord]
	countsems *idmap.Table[countSemRecord]
	mutexes   *idmap.Table[mutexRecord]
	rwlocks   *idmap.Table[rwLockRecord]
	timebases *idmap.Table[timeBaseRecord]
	timers    *idmap.Table[timerRecord]
	files     *idmap.Table[fileRecord]
	dirs      *idmap.Table[dirRecord]
	modules   *idmap.Table[moduleRecord]

	console *console.Ring
	logger  *logging.Logger
}

var (
	stateMu sync.RWMutex
	state   *apiState
)

// Init brings the core up: every object table is sized from cfg, and
// the console ring starts draining immediately (OS_API_Init). Calling
// Init twice without an intervening Teardown returns an error.
func Init(cfg climits.Config, backends Backends) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	if state != nil {
		return newErr("OS_API_Init", idmap.ObjectIdUndefined, errkind.KindError, "already initialized")
	}

	logger := logging.Default()
	s := &apiState{
		cfg:       cfg,
		backends:  backends,
		tasks:     idmap.NewTable[taskRecord](idmap.TypeTask, cfg.MaxTasks, cfg.MaxNameLen),
		queues:    idmap.NewTable[queueRecord](idmap.TypeQueue, cfg.MaxQueues, cfg.MaxNameLen),
		binsems:   idmap.NewTable[binSemRecord](idmap.TypeBinSem, cfg.MaxBinSems, cfg.MaxNameLen),
		countsems: idmap.NewTable[countSemRecord](idmap.TypeCountSem, cfg.MaxCountSems, cfg.MaxNameLen),
		mutexes:   idmap.NewTable[mutexRecord](idmap.TypeMutex, cfg.MaxMutexes, cfg.MaxNameLen),
		rwlocks:   idmap.NewTable[rwLockRecord](idmap.TypeRWLock, cfg.MaxRWLocks, cfg.MaxNameLen),
		timebases: idmap.NewTable[timeBaseRecord](idmap.TypeTimeBase, cfg.MaxTimeBases, cfg.MaxNameLen),
		timers:    idmap.NewTable[timerRecord](idmap.TypeTimer, cfg.MaxTimers, cfg.MaxNameLen),
		files:     idmap.NewTable[fileRecord](idmap.TypeFile, cfg.MaxFiles, cfg.MaxPathLen),
		dirs:      idmap.NewTable[dirRecord](idmap.TypeDir, cfg.MaxDirs, cfg.MaxPathLen),
		modules:   idmap.NewTable[moduleRecord](idmap.TypeModule, cfg.MaxModules, cfg.MaxNameLen),
		logger:    logger,
	}
	if backends.Console != nil {
		s.console = console.New(backends.Console, cfg.ConsoleBufferSize)
	}
	state = s
	logger.Info("osal initialized", "max_tasks", cfg.MaxTasks, "max_queues", cfg.MaxQueues)
	return nil
}

// Teardown stops every still-open time base and the console drain
// goroutine, then clears the global state so Init can run again
// (OS_ApplicationShutdown / idle_loop exit path).
func Teardown() error {
	stateMu.Lock()
	defer stateMu.Unlock()
	if state == nil {
		return nil
	}

	state.timebases.Each(idmap.StateActive, func(rec idmap.RecordSnapshot[timeBaseRecord]) {
		rec.Backend.engine.Close()
	})
	if state.console != nil {
		state.console.Close()
	}
	state = nil
	return nil
}

// current returns the live API state, or an error if Init has not
// been called -- every public operation in this package starts here.
func current() (*apiState, error) {
	stateMu.RLock()
	defer stateMu.RUnlock()
	if state == nil {
		return nil, newErr("osal", idmap.ObjectIdUndefined, errkind.KindError, "not initialized")
	}
	return state, nil
}
