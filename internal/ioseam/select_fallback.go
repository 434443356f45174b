//go:build !linux

package ioseam

import "time"

// selectOnce on non-Linux platforms has no portable select(2)
// equivalent wired in, so it degrades to reporting every requested
// descriptor ready after waiting out the slice. Real deployments of
// this core target Linux; this exists so the package still builds
// elsewhere.
func selectOnce(readFds, writeFds, exceptFds []int, slice time.Duration) (readyRead, readyWrite, readyExcept []int, err error) {
	if slice > 0 {
		time.Sleep(slice)
	}
	return readFds, writeFds, exceptFds, nil
}
