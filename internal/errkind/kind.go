// Package errkind defines the stable error taxonomy shared by the
// table/token layer, the time-base engine, the I/O seam, and the
// public API. It is kept dependency-free so every other internal
// package can return a Kind without creating an import cycle back to
// the root package, which wraps Kind into its exported *Error type.
package errkind

// Kind is a stable, named error category. Kind values never change
// meaning across builds; only the set may grow.
type Kind string

// Error lets a bare Kind be returned and compared directly as an
// error, which keeps the table/token layer (idmap) and the time-base
// and I/O seam packages free of any dependency on the root package's
// richer *Error wrapper.
func (k Kind) Error() string {
	return string(k)
}

const (
	KindNone Kind = ""

	// Argument errors - detected before a slot is ever reserved.
	KindInvalidPointer    Kind = "InvalidPointer"
	KindInvalidSize       Kind = "InvalidSize"
	KindNameTooLong       Kind = "NameTooLong"
	KindInvalidSemValue   Kind = "InvalidSemValue"
	KindTimerInvalidArgs  Kind = "TimerInvalidArgs"

	// State errors - surfaced while reserving/looking up a slot.
	KindInvalidId        Kind = "InvalidId"
	KindNameTaken        Kind = "NameTaken"
	KindNameNotFound     Kind = "NameNotFound"
	KindNoFreeIds        Kind = "NoFreeIds"
	KindQueueInvalidSize Kind = "QueueInvalidSize"

	// Outcome errors - normal, expected non-success results.
	KindTimeout     Kind = "Timeout"
	KindQueueEmpty  Kind = "QueueEmpty"
	KindQueueFull   Kind = "QueueFull"
	KindWouldBlock  Kind = "WouldBlock"

	// Back-end errors.
	KindSemFailure      Kind = "SemFailure"
	KindTimerInternal   Kind = "TimerInternal"
	KindTimerUnavailable Kind = "TimerUnavailable"
	KindNotImplemented  Kind = "NotImplemented"
	KindError           Kind = "Error"
)

// Status is the signed 32-bit numeric form of a Kind, partitioned by
// negative-value range the way the original OSAL partitions its error
// space (generic / semaphore / queue / timer / module / file), so that
// two builds of the core assign the same Status to the same Kind.
type Status int32

const (
	StatusSuccess Status = 0

	// Generic range.
	StatusError              Status = -1
	StatusInvalidPointer     Status = -2
	StatusErrorAddress       Status = -3
	StatusInvalidId          Status = -4
	StatusErrorNameTooLong   Status = -5
	StatusErrorNoFreeIds     Status = -6
	StatusErrorNameTaken     Status = -7
	StatusErrorNameNotFound  Status = -8
	StatusErrorTimeout       Status = -9
	StatusInvalidInt         Status = -10
	StatusErrorInvalidSize   Status = -11
	StatusErrorNotImplemented Status = -12

	// Semaphore range.
	StatusSemFailure      Status = -100
	StatusSemTimeout      Status = -101
	StatusInvalidSemValue Status = -102

	// Queue range.
	StatusQueueEmpty       Status = -200
	StatusQueueFull        Status = -201
	StatusQueueTimeout     Status = -202
	StatusQueueInvalidSize Status = -203
	StatusQueueIdError     Status = -204

	// Timer range.
	StatusTimerErrInvalidArgs  Status = -300
	StatusTimerErrTimerId      Status = -301
	StatusTimerErrUnavailable  Status = -302
	StatusTimerErrInternal     Status = -303

	// File range.
	StatusFsErrPathTooLong  Status = -400
	StatusFsErrNameTooLong  Status = -401
	StatusFsErrPathInvalid  Status = -402
	StatusFsErrDriveNotConn Status = -403

	// Module range.
	StatusErrorFileOpen Status = -500
)

// kindToStatus gives every Kind exactly one Status. The mapping is not
// one-to-one: KindWouldBlock and KindError both map to StatusError, and
// some Statuses (e.g. StatusSemTimeout) have no Kind.
var kindToStatus = map[Kind]Status{
	KindNone:             StatusSuccess,
	KindInvalidPointer:   StatusInvalidPointer,
	KindInvalidSize:      StatusErrorInvalidSize,
	KindNameTooLong:      StatusErrorNameTooLong,
	KindInvalidSemValue:  StatusInvalidSemValue,
	KindTimerInvalidArgs: StatusTimerErrInvalidArgs,
	KindInvalidId:        StatusInvalidId,
	KindNameTaken:        StatusErrorNameTaken,
	KindNameNotFound:     StatusErrorNameNotFound,
	KindNoFreeIds:        StatusErrorNoFreeIds,
	KindQueueInvalidSize: StatusQueueInvalidSize,
	KindTimeout:          StatusErrorTimeout,
	KindQueueEmpty:       StatusQueueEmpty,
	KindQueueFull:        StatusQueueFull,
	KindWouldBlock:       StatusError,
	KindSemFailure:       StatusSemFailure,
	KindTimerInternal:    StatusTimerErrInternal,
	KindTimerUnavailable: StatusTimerErrUnavailable,
	KindNotImplemented:   StatusErrorNotImplemented,
	KindError:            StatusError,
}

var statusToKind map[Status]Kind
var statusToName map[Status]string

func init() {
	statusToKind = make(map[Status]Kind, len(kindToStatus))
	for k, s := range kindToStatus {
		statusToKind[s] = k
	}
	statusToName = map[Status]string{
		StatusSuccess:             "OS_SUCCESS",
		StatusError:               "OS_ERROR",
		StatusInvalidPointer:      "OS_INVALID_POINTER",
		StatusErrorAddress:        "OS_ERROR_ADDRESS_MISALIGNED",
		StatusInvalidId:           "OS_ERR_INVALID_ID",
		StatusErrorNameTooLong:    "OS_ERR_NAME_TOO_LONG",
		StatusErrorNoFreeIds:      "OS_ERR_NO_FREE_IDS",
		StatusErrorNameTaken:      "OS_ERR_NAME_TAKEN",
		StatusErrorNameNotFound:   "OS_ERR_NAME_NOT_FOUND",
		StatusErrorTimeout:        "OS_ERROR_TIMEOUT",
		StatusInvalidInt:          "OS_INVALID_INT_NUM",
		StatusErrorInvalidSize:    "OS_ERR_INVALID_SIZE",
		StatusErrorNotImplemented: "OS_ERR_NOT_IMPLEMENTED",
		StatusSemFailure:          "OS_SEM_FAILURE",
		StatusSemTimeout:          "OS_SEM_TIMEOUT",
		StatusInvalidSemValue:     "OS_INVALID_SEM_VALUE",
		StatusQueueEmpty:          "OS_QUEUE_EMPTY",
		StatusQueueFull:           "OS_QUEUE_FULL",
		StatusQueueTimeout:        "OS_QUEUE_TIMEOUT",
		StatusQueueInvalidSize:    "OS_QUEUE_INVALID_SIZE",
		StatusQueueIdError:        "OS_QUEUE_ID_ERROR",
		StatusTimerErrInvalidArgs: "OS_TIMER_ERR_INVALID_ARGS",
		StatusTimerErrTimerId:     "OS_TIMER_ERR_TIMER_ID",
		StatusTimerErrUnavailable: "OS_TIMER_ERR_UNAVAILABLE",
		StatusTimerErrInternal:    "OS_TIMER_ERR_INTERNAL",
		StatusFsErrPathTooLong:    "OS_FS_ERR_PATH_TOO_LONG",
		StatusFsErrNameTooLong:    "OS_FS_ERR_NAME_TOO_LONG",
		StatusFsErrPathInvalid:    "OS_FS_ERR_PATH_INVALID",
		StatusFsErrDriveNotConn:   "OS_FS_ERR_DRIVE_NOT_CONNECTED",
		StatusErrorFileOpen:       "OS_ERROR_FILE_OPEN",
	}
}

// ToStatus converts a Kind to its stable numeric Status.
func (k Kind) ToStatus() Status {
	if s, ok := kindToStatus[k]; ok {
		return s
	}
	return StatusError
}

// Name returns the stable name string for a Status, or the
// "OS_UNKNOWN(<n>)" sentinel for codes this build does not recognise.
func Name(status Status) string {
	if name, ok := statusToName[status]; ok {
		return name
	}
	return unknownName(status)
}

func unknownName(status Status) string {
	return "OS_UNKNOWN(" + itoa(int32(status)) + ")"
}

func itoa(n int32) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// extraNames lets a backend register additional status->name mappings
// at init time, so a back-end can contribute its own extension table.
// Kept separate from the static table so the core's mapping stays
// immutable and race-free without locking on every lookup.
var extraNames = map[Status]string{}

// RegisterNames merges a backend's extension table into the name
// lookup used by Name. Intended to be called from an init() function,
// before any concurrent use.
func RegisterNames(extra map[Status]string) {
	for s, n := range extra {
		extraNames[s] = n
		statusToName[s] = n
	}
}
