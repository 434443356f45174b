package osal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirMakeOpenReadClose(t *testing.T) {
	initForTest(t)

	require.NoError(t, DirMake("/etc"))

	id, err := FileOpen("/etc/a.txt", OpenCreate|OpenWrite)
	require.NoError(t, err)
	require.NoError(t, FileClose(id))
	id, err = FileOpen("/etc/b.txt", OpenCreate|OpenWrite)
	require.NoError(t, err)
	require.NoError(t, FileClose(id))

	dirId, err := DirOpen("/etc")
	require.NoError(t, err)

	var names []string
	for {
		name, ok, err := DirRead(dirId)
		require.NoError(t, err)
		if !ok {
			break
		}
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, names)

	require.NoError(t, DirClose(dirId))
}

func TestDirOpenTwiceGetsIndependentIds(t *testing.T) {
	initForTest(t)

	a, err := DirOpen("/")
	require.NoError(t, err)
	b, err := DirOpen("/")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	require.NoError(t, DirClose(a))
	require.NoError(t, DirClose(b))
}

func TestDirRemoveMissingPathFails(t *testing.T) {
	initForTest(t)

	err := DirRemove("/never-made")
	assert.Error(t, err)
}

func TestDirCloseThenReadFails(t *testing.T) {
	initForTest(t)

	id, err := DirOpen("/")
	require.NoError(t, err)
	require.NoError(t, DirClose(id))

	_, _, err = DirRead(id)
	assert.Error(t, err)
}
