package osal

import (
	"errors"
	"fmt"

	"github.com/go-osal/osal/internal/errkind"
	"github.com/go-osal/osal/internal/idmap"
)

// Error is the structured form every OSAL operation returns on
// failure: enough context to log without a caller reaching back into
// the object table, plus a stable Kind/Status pair that stays fixed
// release over release.
type Error struct {
	Op     string
	Id     idmap.ObjectId
	Kind   errkind.Kind
	Status errkind.Status
	Msg    string
	Inner  error
}

func (e *Error) Error() string {
	name := errkind.Name(e.Status)
	if e.Msg != "" {
		if e.Id != idmap.ObjectIdUndefined {
			return fmt.Sprintf("osal: %s: %s (%s, id=%s)", e.Op, e.Msg, name, e.Id)
		}
		return fmt.Sprintf("osal: %s: %s (%s)", e.Op, e.Msg, name)
	}
	if e.Id != idmap.ObjectIdUndefined {
		return fmt.Sprintf("osal: %s: %s (id=%s)", e.Op, name, e.Id)
	}
	return fmt.Sprintf("osal: %s: %s", e.Op, name)
}

func (e *Error) Unwrap() error {
	return e.Inner
}

// Is supports errors.Is(err, SomeKind) by comparing Kind, so callers
// can test for a category without type-asserting *Error first.
func (e *Error) Is(target error) bool {
	if k, ok := target.(errkind.Kind); ok {
		return e.Kind == k
	}
	var te *Error
	if errors.As(target, &te) {
		return e.Kind == te.Kind
	}
	return false
}

// newErr builds an *Error from a Kind, filling Status from the stable
// Kind->Status mapping.
func newErr(op string, id idmap.ObjectId, kind errkind.Kind, msg string) *Error {
	return &Error{Op: op, Id: id, Kind: kind, Status: kind.ToStatus(), Msg: msg}
}

// wrapErr classifies any error returned by a back-end into an *Error,
// preserving a Kind already attached by idmap/timebase/ioseam and
// falling back to a generic failure for anything else (e.g. a raw
// context.Canceled from a back-end's blocking call).
func wrapErr(op string, id idmap.ObjectId, err error) *Error {
	if err == nil {
		return nil
	}
	var already *Error
	if errors.As(err, &already) {
		return already
	}
	var kind errkind.Kind
	if errors.As(err, &kind) {
		return newErr(op, id, kind, "")
	}
	e := newErr(op, id, errkind.KindError, err.Error())
	e.Inner = err
	return e
}

// StatusOf extracts the numeric Status from any error produced by
// this package, or StatusSuccess for nil.
func StatusOf(err error) errkind.Status {
	if err == nil {
		return errkind.StatusSuccess
	}
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Status
	}
	return errkind.StatusError
}

// GetErrorName is the public wrapper around the status name table
// (OS_GetErrorName in the original API).
func GetErrorName(status errkind.Status) string {
	return errkind.Name(status)
}

// Is lets callers write errors.Is(err, osal.KindInvalidId) etc.
// without importing internal/errkind directly; the Kind constants are
// re-exported below.
const (
	KindInvalidId       = errkind.KindInvalidId
	KindNameTaken        = errkind.KindNameTaken
	KindNameNotFound     = errkind.KindNameNotFound
	KindNoFreeIds        = errkind.KindNoFreeIds
	KindNameTooLong      = errkind.KindNameTooLong
	KindTimeout          = errkind.KindTimeout
	KindQueueEmpty       = errkind.KindQueueEmpty
	KindQueueFull        = errkind.KindQueueFull
	KindInvalidSize      = errkind.KindInvalidSize
	KindInvalidSemValue  = errkind.KindInvalidSemValue
	KindTimerInvalidArgs = errkind.KindTimerInvalidArgs
	KindNotImplemented   = errkind.KindNotImplemented
	KindError            = errkind.KindError
)
