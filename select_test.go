package osal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-osal/osal/internal/idmap"
)

func TestSelectSingleDegradesToReadyForNonSelectable(t *testing.T) {
	initForTest(t)

	id, err := FileOpen("/sel-single.txt", OpenCreate|OpenWrite)
	require.NoError(t, err)
	defer FileClose(id)

	// the sim file back-end never reports a descriptor as selectable,
	// so SelectSingle must degrade to an immediate ready.
	assert.NoError(t, SelectSingle(context.Background(), id, SelectReadable, 0))
}

func TestSelectSingleDefaultFlagsToReadable(t *testing.T) {
	initForTest(t)

	id, err := FileOpen("/sel-default.txt", OpenCreate|OpenWrite)
	require.NoError(t, err)
	defer FileClose(id)

	assert.NoError(t, SelectSingle(context.Background(), id, 0, 0))
}

func TestSelectMultipleReturnsAllNonSelectable(t *testing.T) {
	initForTest(t)

	a, err := FileOpen("/sel-a.txt", OpenCreate|OpenWrite)
	require.NoError(t, err)
	defer FileClose(a)
	b, err := FileOpen("/sel-b.txt", OpenCreate|OpenWrite)
	require.NoError(t, err)
	defer FileClose(b)

	readyRead, readyWrite, err := SelectMultiple(context.Background(), []idmap.ObjectId{a}, []idmap.ObjectId{b}, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []idmap.ObjectId{a}, readyRead)
	assert.ElementsMatch(t, []idmap.ObjectId{b}, readyWrite)
}
