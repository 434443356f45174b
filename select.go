package osal

import (
	"context"

	"github.com/go-osal/osal/internal/idmap"
	"github.com/go-osal/osal/internal/ioseam"
)

// SelectFlags is the condition set SelectSingle waits on. The zero
// value behaves as SelectReadable, matching the common single-flag
// polling-loop call pattern.
type SelectFlags uint8

const (
	SelectReadable SelectFlags = 1 << iota
	SelectWritable
	SelectException
)

// SelectSingle waits, per the three-way timeout convention, until id
// satisfies any condition in flags. Non-selectable descriptors
// degrade to reporting ready immediately, matching the platform's own
// inability to poll them.
func SelectSingle(ctx context.Context, id idmap.ObjectId, flags SelectFlags, timeoutMs int32) error {
	if _, err := current(); err != nil {
		return err
	}
	if flags == 0 {
		flags = SelectReadable
	}
	selectable, serr := FileSelectable(id)
	if serr != nil {
		return serr
	}
	if !selectable {
		return nil
	}
	fd, ferr := FileFd(id)
	if ferr != nil {
		return ferr
	}

	var readFds, writeFds, exceptFds []int
	if flags&SelectReadable != 0 {
		readFds = []int{fd}
	}
	if flags&SelectWritable != 0 {
		writeFds = []int{fd}
	}
	if flags&SelectException != 0 {
		exceptFds = []int{fd}
	}

	if _, _, _, err := ioseam.Select(ctx, readFds, writeFds, exceptFds, msToDuration(timeoutMs)); err != nil {
		return wrapErr("OS_SelectSingle", id, err)
	}
	return nil
}

// SelectMultiple waits until at least one id in readIds is ready to
// read or one in writeIds is ready to write, returning the ready
// subset of each (an id present in both sets can appear in both
// results). Non-selectable ids are always reported ready in whichever
// result set they were supplied in, per the same degrade-to-ready
// rule as SelectSingle.
func SelectMultiple(ctx context.Context, readIds, writeIds []idmap.ObjectId, timeoutMs int32) (readyRead, readyWrite []idmap.ObjectId, err error) {
	readFdToId := map[int]idmap.ObjectId{}
	writeFdToId := map[int]idmap.ObjectId{}
	var readFds, writeFds []int

	for _, id := range readIds {
		selectable, serr := FileSelectable(id)
		if serr != nil {
			return nil, nil, serr
		}
		if !selectable {
			readyRead = append(readyRead, id)
			continue
		}
		fd, ferr := FileFd(id)
		if ferr != nil {
			return nil, nil, ferr
		}
		readFds = append(readFds, fd)
		readFdToId[fd] = id
	}
	for _, id := range writeIds {
		selectable, serr := FileSelectable(id)
		if serr != nil {
			return nil, nil, serr
		}
		if !selectable {
			readyWrite = append(readyWrite, id)
			continue
		}
		fd, ferr := FileFd(id)
		if ferr != nil {
			return nil, nil, ferr
		}
		writeFds = append(writeFds, fd)
		writeFdToId[fd] = id
	}

	if len(readFds) == 0 && len(writeFds) == 0 {
		return readyRead, readyWrite, nil
	}

	rr, rw, _, serr := ioseam.Select(ctx, readFds, writeFds, nil, msToDuration(timeoutMs))
	if serr != nil {
		if len(readyRead) > 0 || len(readyWrite) > 0 {
			return readyRead, readyWrite, nil
		}
		return nil, nil, wrapErr("OS_SelectMultiple", idmap.ObjectIdUndefined, serr)
	}

	for _, fd := range rr {
		readyRead = append(readyRead, readFdToId[fd])
	}
	for _, fd := range rw {
		readyWrite = append(readyWrite, writeFdToId[fd])
	}
	return readyRead, readyWrite, nil
}
