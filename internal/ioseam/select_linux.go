//go:build linux

package ioseam

import (
	"sort"
	"time"

	"golang.org/x/sys/unix"
)

// selectOnce runs one poll(2) covering readFds, writeFds and
// exceptFds for up to slice, retrying transparently on EINTR. A
// descriptor listed in more than one set gets a single PollFd entry
// with the union of the requested events.
func selectOnce(readFds, writeFds, exceptFds []int, slice time.Duration) (readyRead, readyWrite, readyExcept []int, err error) {
	events := make(map[int]int16, len(readFds)+len(writeFds)+len(exceptFds))
	for _, fd := range readFds {
		events[fd] |= unix.POLLIN
	}
	for _, fd := range writeFds {
		events[fd] |= unix.POLLOUT
	}
	for _, fd := range exceptFds {
		events[fd] |= unix.POLLPRI
	}

	fds := make([]int, 0, len(events))
	for fd := range events {
		fds = append(fds, fd)
	}
	sort.Ints(fds) // deterministic PollFd order; map iteration order is not

	pfds := make([]unix.PollFd, len(fds))
	for i, fd := range fds {
		pfds[i] = unix.PollFd{Fd: int32(fd), Events: events[fd]}
	}
	timeoutMs := int(slice.Milliseconds())

	for {
		n, perr := unix.Poll(pfds, timeoutMs)
		if perr == unix.EINTR {
			continue
		}
		if perr != nil {
			return nil, nil, nil, perr
		}
		if n == 0 {
			return nil, nil, nil, nil
		}
		for _, pfd := range pfds {
			fd := int(pfd.Fd)
			if pfd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
				readyRead = append(readyRead, fd)
			}
			if pfd.Revents&(unix.POLLOUT|unix.POLLERR) != 0 {
				readyWrite = append(readyWrite, fd)
			}
			if pfd.Revents&unix.POLLPRI != 0 {
				readyExcept = append(readyExcept, fd)
			}
		}
		return readyRead, readyWrite, readyExcept, nil
	}
}
