// Package climits carries the compile-time sizing that drives every
// object table in the core. The OSAL does not parse configuration
// files; a deployment picks a Config (usually DefaultConfig) once, at
// build or process-start time, and every table is sized from it.
package climits

// Config holds the per-deployment compile-time limits every object
// table is sized from.
type Config struct {
	MaxTasks      int
	MaxQueues     int
	MaxBinSems    int
	MaxCountSems  int
	MaxMutexes    int
	MaxRWLocks    int
	MaxTimeBases  int
	MaxTimers     int
	MaxFiles      int
	MaxDirs       int
	MaxModules    int
	MaxConsoles   int

	MaxNameLen int // includes the trailing NUL
	MaxPathLen int

	ConsoleBufferSize int

	MaxSymbolNameLen int // record width for SymbolTableDump

	// MaxSemValue bounds OS_CountSemCreate's initial/give-ceiling value.
	// The original cFE OSAL leaves this platform-defined; this port
	// fixes it so the sim backend's counting semaphore can use a
	// bounded buffered channel instead of an unbounded counter.
	MaxSemValue int
}

// DefaultConfig returns the limits used unless a deployment overrides
// them at Init. Values follow the magnitudes typical of the original
// cFE OSAL osconfig.h (dozens of tasks/queues, a handful of time
// bases, a few dozen files).
func DefaultConfig() Config {
	return Config{
		MaxTasks:     64,
		MaxQueues:    64,
		MaxBinSems:   64,
		MaxCountSems: 64,
		MaxMutexes:   64,
		MaxRWLocks:   32,
		MaxTimeBases: 8,
		MaxTimers:    32,
		MaxFiles:     64,
		MaxDirs:      16,
		MaxModules:   16,
		MaxConsoles:  1,

		MaxNameLen: 32,
		MaxPathLen: 64,

		ConsoleBufferSize: 16 * 1024,

		MaxSymbolNameLen: 64,

		MaxSemValue: 255,
	}
}
