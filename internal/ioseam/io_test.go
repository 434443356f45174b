package ioseam

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-osal/osal/internal/errkind"
)

func TestSelectReturnsFdOnceReadable(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	rfd := int(r.Fd())

	done := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte("x"))
		close(done)
	}()

	ready, _, _, err := Select(context.Background(), []int{rfd}, nil, nil, -1)
	require.NoError(t, err)
	assert.Equal(t, []int{rfd}, ready)
	<-done
}

func TestSelectPollReturnsTimeoutWhenNotReady(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	_, _, _, err = Select(context.Background(), []int{int(r.Fd())}, nil, nil, 0)
	assert.ErrorIs(t, err, errkind.KindTimeout)
}

func TestSelectTimesOutWhenNeverReady(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	_, _, _, err = Select(context.Background(), []int{int(r.Fd())}, nil, nil, 30*time.Millisecond)
	assert.ErrorIs(t, err, errkind.KindTimeout)
}

func TestSelectRespectsContextCancellation(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, _, _, err = Select(ctx, []int{int(r.Fd())}, nil, nil, -1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteAllRetriesPartialWrites(t *testing.T) {
	fh := &stubFile{writeChunk: 2}
	n, err := WriteAll(fh, []byte("abcdef"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "abcdef", string(fh.written))
}

type stubFile struct {
	written    []byte
	writeChunk int
}

func (s *stubFile) Read(buf []byte) (int, error)  { return 0, nil }
func (s *stubFile) Close() error                  { return nil }
func (s *stubFile) Fd() int                       { return -1 }
func (s *stubFile) Seek(int64, int) (int64, error) { return 0, nil }
func (s *stubFile) Write(buf []byte) (int, error) {
	n := s.writeChunk
	if n > len(buf) {
		n = len(buf)
	}
	s.written = append(s.written, buf[:n]...)
	return n, nil
}
