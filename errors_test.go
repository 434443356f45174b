package osal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-osal/osal/internal/errkind"
	"github.com/go-osal/osal/internal/idmap"
)

func TestErrorMessageIncludesOpAndStatusName(t *testing.T) {
	err := newErr("OS_TaskCreate", idmap.ObjectIdUndefined, errkind.KindNoFreeIds, "")
	assert.Contains(t, err.Error(), "OS_TaskCreate")
	assert.Contains(t, err.Error(), "OS_ERR_NO_FREE_IDS")
}

func TestErrorIsMatchesByKind(t *testing.T) {
	err := newErr("OS_QueueGet", idmap.ObjectIdUndefined, errkind.KindQueueEmpty, "")
	assert.True(t, errors.Is(err, errkind.KindQueueEmpty))
	assert.False(t, errors.Is(err, errkind.KindQueueFull))
}

func TestWrapErrPreservesExistingError(t *testing.T) {
	inner := newErr("OS_TaskCreate", idmap.ObjectIdUndefined, errkind.KindNameTaken, "")
	wrapped := wrapErr("OS_TaskDelete", idmap.ObjectIdUndefined, inner)
	assert.Same(t, inner, wrapped)
}

func TestWrapErrClassifiesBareKind(t *testing.T) {
	wrapped := wrapErr("OS_TimerAdd", idmap.ObjectIdUndefined, errkind.KindInvalidId)
	assert.Equal(t, errkind.KindInvalidId, wrapped.Kind)
}

func TestWrapErrNilIsNil(t *testing.T) {
	assert.Nil(t, wrapErr("OS_TaskCreate", idmap.ObjectIdUndefined, nil))
}

func TestStatusOfRoundTripsThroughGetErrorName(t *testing.T) {
	err := newErr("OS_SemTake", idmap.ObjectIdUndefined, errkind.KindTimeout, "")
	status := StatusOf(err)
	assert.Equal(t, "OS_ERROR_TIMEOUT", GetErrorName(status))
	assert.Equal(t, errkind.StatusSuccess, StatusOf(nil))
}
