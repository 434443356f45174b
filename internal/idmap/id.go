// Package idmap implements the typed, generation-counted handle table
// and token/reservation protocol that every OSAL resource type is
// built on. It never reaches into backend data; it hands callers a
// Token to present to the backend and a generic B payload slot to
// store whatever that resource type needs alongside the record's
// common header.
package idmap

import "fmt"

// ObjectType is the non-zero type tag packed into the high bits of an
// ObjectId. Zero is reserved so the all-zero ObjectId means undefined.
type ObjectType uint32

const (
	TypeTask ObjectType = iota + 1
	TypeQueue
	TypeBinSem
	TypeCountSem
	TypeMutex
	TypeRWLock
	TypeTimeBase
	TypeTimer
	TypeFile
	TypeDir
	TypeModule
	TypeStream
	TypeConsole
)

func (t ObjectType) String() string {
	switch t {
	case TypeTask:
		return "TASK"
	case TypeQueue:
		return "QUEUE"
	case TypeBinSem:
		return "BINSEM"
	case TypeCountSem:
		return "COUNTSEM"
	case TypeMutex:
		return "MUTEX"
	case TypeRWLock:
		return "RWLOCK"
	case TypeTimeBase:
		return "TIMEBASE"
	case TypeTimer:
		return "TIMER"
	case TypeFile:
		return "FILE"
	case TypeDir:
		return "DIR"
	case TypeModule:
		return "MODULE"
	case TypeStream:
		return "STREAM"
	case TypeConsole:
		return "CONSOLE"
	default:
		return fmt.Sprintf("TYPE(%d)", t)
	}
}

// Bit layout of ObjectId: [4 bits type][12 bits generation][16 bits index].
const (
	indexBits = 16
	genBits   = 12
	typeBits  = 4

	indexMask = (uint32(1) << indexBits) - 1
	genMask   = (uint32(1) << genBits) - 1
	typeMask  = (uint32(1) << typeBits) - 1

	genShift  = indexBits
	typeShift = indexBits + genBits

	maxGeneration = genMask // generation wraps modulo this width, skipping 0
	maxIndex      = indexMask
)

// ObjectId is an opaque 32-bit generation-tagged reference to an
// object. The all-zero value is the reserved "undefined" id.
type ObjectId uint32

// ObjectIdUndefined is the reserved all-zero id.
const ObjectIdUndefined ObjectId = 0

func makeID(t ObjectType, index int, generation uint16) ObjectId {
	return ObjectId((uint32(t) & typeMask << typeShift) |
		(uint32(generation) & genMask << genShift) |
		(uint32(index) & indexMask))
}

func (id ObjectId) decode() (t ObjectType, index int, generation uint16) {
	v := uint32(id)
	t = ObjectType((v >> typeShift) & typeMask)
	generation = uint16((v >> genShift) & genMask)
	index = int(v & indexMask)
	return
}

// Type returns the resource type tag encoded in id, or 0 for undefined.
func (id ObjectId) Type() ObjectType {
	t, _, _ := id.decode()
	return t
}

func (id ObjectId) String() string {
	if id == ObjectIdUndefined {
		return "OS_OBJECT_ID_UNDEFINED"
	}
	t, idx, gen := id.decode()
	return fmt.Sprintf("%s:%d/%d", t, idx, gen)
}

// nextGeneration advances a per-slot generation counter, skipping 0.
func nextGeneration(g uint16) uint16 {
	g++
	if uint32(g) > maxGeneration {
		g = 1
	}
	return g
}
