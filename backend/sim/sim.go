// Package sim is the reference back-end: every internal/backend
// interface implemented on top of goroutines, channels, and an
// in-memory file arena, so the core can be exercised and tested
// without a real target platform -- a concrete, swappable
// implementation of the abstract trait set.
package sim

import (
	"time"

	"github.com/go-osal/osal/internal/errkind"
)

// afterChan returns the channel a select should race a blocking
// operation against, given OSAL's three-way timeout convention
// (0 = poll, negative = block indefinitely, positive = timeout after
// that duration). The caller handles timeout == 0 itself with a
// non-blocking select, since a poll must never race a real timer.
func afterChan(timeout time.Duration) (<-chan time.Time, func()) {
	if timeout <= 0 {
		return nil, func() {}
	}
	t := time.NewTimer(timeout)
	return t.C, func() { t.Stop() }
}

var errTimeout = errkind.KindTimeout
