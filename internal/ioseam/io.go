// Package ioseam is the file/IO seam: synchronous read/write/seek/
// select over the handles a FileBackend hands out. WriteAll applies
// OSAL's partial-write retry; Select applies the three-way timeout
// convention. Read, WriteAll and Seek take no timeout and never wait
// on the descriptor first; Seek is passed to every handle, selectable
// or not.
package ioseam

import (
	"context"
	"time"

	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/errkind"
)

// WriteAll retries a FileHandle.Write until every byte of buf is
// written or an error occurs, since a platform write(2) is free to
// return a short count even when the caller did not ask for a
// non-blocking descriptor.
func WriteAll(h backend.FileHandle, buf []byte) (int, error) {
	written := 0
	for written < len(buf) {
		n, err := h.Write(buf[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, errkind.KindError
		}
	}
	return written, nil
}

// Read performs a single read of up to len(buf) bytes and may return
// fewer -- OS_read's contract is "read what's currently available",
// not "fill the buffer", so this does not loop past a single short
// read the way WriteAll does.
func Read(h backend.FileHandle, buf []byte) (int, error) {
	return h.Read(buf)
}

// Seek repositions a handle; whence follows io.Seek* values.
func Seek(h backend.FileHandle, offset int64, whence int) (int64, error) {
	return h.Seek(offset, whence)
}

// pollInterval bounds how long a single Select syscall blocks before
// this package re-checks ctx, so a long or indefinite OS_SelectSingle
// timeout still responds promptly to cancellation.
const pollInterval = 50 * time.Millisecond

// Select waits until at least one descriptor in readFds is ready to
// read, one in writeFds is ready to write, or one in exceptFds has an
// exceptional condition pending, or the timeout elapses (0 = poll
// once, <0 = block until ctx is done). A descriptor may appear in more
// than one set. Non-selectable handles never appear in any set; the
// public API layer substitutes an immediate "ready" for those, since
// selecting on a non-selectable handle degrades to polling its state
// directly.
func Select(ctx context.Context, readFds, writeFds, exceptFds []int, timeout time.Duration) (readyRead, readyWrite, readyExcept []int, err error) {
	if len(readFds) == 0 && len(writeFds) == 0 && len(exceptFds) == 0 {
		return nil, nil, nil, nil
	}

	deadline, hasDeadline := time.Time{}, false
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
		hasDeadline = true
	}

	for {
		slice := pollInterval
		if timeout == 0 {
			slice = 0
		} else if hasDeadline {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return nil, nil, nil, errkind.KindTimeout
			}
			if remaining < slice {
				slice = remaining
			}
		}

		rr, rw, re, serr := selectOnce(readFds, writeFds, exceptFds, slice)
		if serr != nil {
			return nil, nil, nil, serr
		}
		if len(rr) > 0 || len(rw) > 0 || len(re) > 0 {
			return rr, rw, re, nil
		}
		if timeout == 0 {
			return nil, nil, nil, errkind.KindTimeout
		}
		if hasDeadline && !time.Now().Before(deadline) {
			return nil, nil, nil, errkind.KindTimeout
		}

		select {
		case <-ctx.Done():
			return nil, nil, nil, ctx.Err()
		default:
		}
	}
}
