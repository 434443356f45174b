package osal

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOpenWriteReadSeekRoundTrip(t *testing.T) {
	initForTest(t)

	id, err := FileOpen("/greeting.txt", OpenCreate|OpenWrite|OpenRead)
	require.NoError(t, err)

	n, err := FileWrite(id, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = FileSeek(id, 0, io.SeekStart)
	require.NoError(t, err)

	buf := make([]byte, 5)
	n, err = FileRead(id, buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	require.NoError(t, FileClose(id))
}

func TestFileOpenTwiceGetsIndependentIds(t *testing.T) {
	initForTest(t)

	a, err := FileOpen("/shared.txt", OpenCreate|OpenWrite)
	require.NoError(t, err)
	b, err := FileOpen("/shared.txt", OpenCreate|OpenWrite)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)

	require.NoError(t, FileClose(a))
	require.NoError(t, FileClose(b))
}

func TestFileOpenWithoutCreateFailsOnMissingPath(t *testing.T) {
	initForTest(t)

	_, err := FileOpen("/does-not-exist.txt", OpenRead)
	assert.Error(t, err)
}

func TestFileRemoveRenameChmodStat(t *testing.T) {
	initForTest(t)

	id, err := FileOpen("/tmp-file.txt", OpenCreate|OpenWrite)
	require.NoError(t, err)
	_, err = FileWrite(id, []byte("data"))
	require.NoError(t, err)
	require.NoError(t, FileClose(id))

	require.NoError(t, FileChmod("/tmp-file.txt", 0o644))
	st, err := FileStat("/tmp-file.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(4), st.Size)
	assert.Equal(t, uint32(0o644), st.Mode)

	require.NoError(t, FileRename("/tmp-file.txt", "/renamed.txt"))
	_, err = FileStat("/tmp-file.txt")
	assert.Error(t, err)

	require.NoError(t, FileRemove("/renamed.txt"))
	_, err = FileStat("/renamed.txt")
	assert.Error(t, err)
}

func TestFileSelectableAndFd(t *testing.T) {
	initForTest(t)

	id, err := FileOpen("/sel.txt", OpenCreate|OpenWrite)
	require.NoError(t, err)

	selectable, err := FileSelectable(id)
	require.NoError(t, err)
	assert.False(t, selectable)

	fd, err := FileFd(id)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fd, 0)

	require.NoError(t, FileClose(id))
}

func TestFileCloseThenOperationsFail(t *testing.T) {
	initForTest(t)

	id, err := FileOpen("/closeme.txt", OpenCreate|OpenWrite)
	require.NoError(t, err)
	require.NoError(t, FileClose(id))

	_, err = FileWrite(id, []byte("x"))
	assert.Error(t, err)
}
