package idmap

import (
	"sync"

	"github.com/go-osal/osal/internal/errkind"
)

// State is a slot's position in the free -> reserved -> active ->
// deleting -> free lifecycle.
type State int

const (
	StateFree State = iota
	StateReserved
	StateActive
	StateDeleting
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateReserved:
		return "reserved"
	case StateActive:
		return "active"
	case StateDeleting:
		return "deleting"
	default:
		return "invalid"
	}
}

// Mode is the acquisition mode of a Token.
type Mode int

const (
	ModeExclusive Mode = iota
	ModeShared
)

// Token bundles the (type, slot, generation, mode) a caller holds
// across a backend call. It carries no pointer into the table; every
// field is a plain value, so holding a stale Token past a delete is
// always detectable via generation mismatch rather than being a
// dangling pointer.
type Token struct {
	Type       ObjectType
	Index      int
	Generation uint16
	Mode       Mode
}

// ID reconstructs the ObjectId a Token refers to.
func (t Token) ID() ObjectId {
	return makeID(t.Type, t.Index, t.Generation)
}

// record is the common header every per-type slot carries, plus an
// arbitrary payload B owned by the domain package (core "extra"
// fields such as queue depth or timer period, and the backend's own
// opaque state, both live in B -- the table itself only ever inspects
// the header).
type record[B any] struct {
	state    State
	id       ObjectId
	name     string
	creator  ObjectId
	refcount int32
	nextGen  uint16 // persists across free/realloc so generations keep advancing
	backend  B
}

// Table is a fixed-size array of typed records, one table lock, and
// the round-robin allocation cursor.
type Table[B any] struct {
	typ       ObjectType
	mu        sync.Mutex
	cond      *sync.Cond
	slots     []record[B]
	lastAlloc int
	maxName   int
}

// NewTable builds a table with the given slot capacity for resource
// type t. maxNameLen bounds name length at allocation and lookup.
func NewTable[B any](t ObjectType, capacity, maxNameLen int) *Table[B] {
	tbl := &Table[B]{
		typ:       t,
		slots:     make([]record[B], capacity),
		lastAlloc: capacity - 1, // so the first allocation starts at index 0
		maxName:   maxNameLen,
	}
	tbl.cond = sync.NewCond(&tbl.mu)
	return tbl
}

// Reserve allocates a free slot for a new object named name, created
// by creator. On success the slot is State Reserved and the returned
// Token is held in ModeExclusive until Commit or Abort is called. No
// backend call may happen while holding this reservation's lock -- the
// table lock is already released by the time Reserve returns.
func (t *Table[B]) Reserve(name string, creator ObjectId) (Token, ObjectId, error) {
	if len(name)+1 > t.maxName {
		return Token{}, ObjectIdUndefined, errkind.KindNameTooLong
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// The empty name marks an anonymous object (e.g. an open file
	// descriptor); anonymous objects are never subject to the
	// one-name-one-object uniqueness rule and are never found by
	// GetIdByName.
	if name != "" {
		for i := range t.slots {
			if t.slots[i].state != StateFree && t.slots[i].name == name {
				return Token{}, ObjectIdUndefined, errkind.KindNameTaken
			}
		}
	}

	n := len(t.slots)
	start := (t.lastAlloc + 1) % n
	idx := -1
	for i := 0; i < n; i++ {
		cand := (start + i) % n
		if t.slots[cand].state == StateFree {
			idx = cand
			break
		}
	}
	if idx < 0 {
		return Token{}, ObjectIdUndefined, errkind.KindNoFreeIds
	}

	slot := &t.slots[idx]
	slot.nextGen = nextGeneration(slot.nextGen)
	slot.state = StateReserved
	slot.name = name
	slot.creator = creator
	slot.refcount = 0
	id := makeID(t.typ, idx, slot.nextGen)
	slot.id = id
	t.lastAlloc = idx

	return Token{Type: t.typ, Index: idx, Generation: slot.nextGen, Mode: ModeExclusive}, id, nil
}

// Commit transitions a reserved slot to active and stores the backend
// payload produced by the caller's successful create_impl call.
func (t *Table[B]) Commit(tok Token, payload B) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	slot, err := t.lookupExact(tok)
	if err != nil {
		return err
	}
	if slot.state != StateReserved {
		return errkind.KindInvalidId
	}
	slot.backend = payload
	slot.state = StateActive
	return nil
}

// Abort returns a reserved slot to free after a failed create_impl
// call: any back-end error during create causes the reserved slot to
// be returned to free.
func (t *Table[B]) Abort(tok Token) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	slot, err := t.lookupExact(tok)
	if err != nil {
		return err
	}
	if slot.state != StateReserved {
		return errkind.KindInvalidId
	}
	t.resetSlot(slot)
	return nil
}

// AcquireExclusiveForDelete transitions an active slot to deleting and
// blocks until every outstanding shared token on it has been released,
// then returns a Token the caller uses to invoke the backend's
// delete_impl outside of any lock, plus a copy of the current payload.
func (t *Table[B]) AcquireExclusiveForDelete(id ObjectId) (Token, B, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero B
	typ, idx, gen := id.decode()
	if typ != t.typ || idx < 0 || idx >= len(t.slots) {
		return Token{}, zero, errkind.KindInvalidId
	}
	slot := &t.slots[idx]
	if slot.state != StateActive || slot.id != id || gen != slot.nextGen {
		return Token{}, zero, errkind.KindInvalidId
	}

	slot.state = StateDeleting
	for slot.refcount > 0 {
		t.cond.Wait()
	}

	return Token{Type: t.typ, Index: idx, Generation: gen, Mode: ModeExclusive}, slot.backend, nil
}

// FinishDelete completes a delete started by
// AcquireExclusiveForDelete. backendErr is the result of the caller's
// delete_impl call; alreadyGone, when true, frees the slot even though
// backendErr is non-nil, since a back-end reporting "already gone"
// still means the slot should be freed.
func (t *Table[B]) FinishDelete(tok Token, backendErr error, alreadyGone bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	slot, err := t.lookupExact(tok)
	if err != nil {
		return err
	}
	if slot.state != StateDeleting {
		return errkind.KindInvalidId
	}

	if backendErr == nil || alreadyGone {
		t.resetSlot(slot)
		t.cond.Broadcast()
		return backendErr
	}

	// Surface the backend error; the slot stays live.
	slot.state = StateActive
	t.cond.Broadcast()
	return backendErr
}

// AcquireShared verifies id refers to an active slot, bumps its
// refcount, and returns a Token plus a copy of the current payload.
// The table lock is released before the caller does anything further,
// so no backend call ever runs under it.
func (t *Table[B]) AcquireShared(id ObjectId) (Token, B, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero B
	typ, idx, gen := id.decode()
	if typ != t.typ || idx < 0 || idx >= len(t.slots) {
		return Token{}, zero, errkind.KindInvalidId
	}
	slot := &t.slots[idx]
	if slot.state != StateActive || slot.id != id || gen != slot.nextGen {
		return Token{}, zero, errkind.KindInvalidId
	}
	slot.refcount++
	return Token{Type: t.typ, Index: idx, Generation: gen, Mode: ModeShared}, slot.backend, nil
}

// ReleaseShared drops a reference acquired by AcquireShared, and wakes
// a pending deleter if this was the last one.
func (t *Table[B]) ReleaseShared(tok Token) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tok.Index < 0 || tok.Index >= len(t.slots) {
		return
	}
	slot := &t.slots[tok.Index]
	if slot.nextGen != tok.Generation {
		return
	}
	if slot.refcount > 0 {
		slot.refcount--
	}
	if slot.state == StateDeleting && slot.refcount == 0 {
		t.cond.Broadcast()
	}
}

// Update runs fn against the live payload of an active slot, under
// the table lock, for callers that need to mutate a record in place
// rather than read a point-in-time copy (e.g. OS_TaskSetPriority
// recording the new priority). fn must not call back into the table.
func (t *Table[B]) Update(id ObjectId, fn func(*B) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	typ, idx, gen := id.decode()
	if typ != t.typ || idx < 0 || idx >= len(t.slots) {
		return errkind.KindInvalidId
	}
	slot := &t.slots[idx]
	if slot.state != StateActive || slot.id != id || gen != slot.nextGen {
		return errkind.KindInvalidId
	}
	return fn(&slot.backend)
}

// GetIdByName scans active slots for an exact, case-sensitive name
// match.
func (t *Table[B]) GetIdByName(name string) (ObjectId, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if name == "" {
		return ObjectIdUndefined, errkind.KindNameNotFound
	}
	for i := range t.slots {
		if t.slots[i].state == StateActive && t.slots[i].name == name {
			return t.slots[i].id, nil
		}
	}
	return ObjectIdUndefined, errkind.KindNameNotFound
}

// RecordSnapshot is a point-in-time copy of a slot's common header
// plus its B payload, used to answer get_info without holding any
// lock across the caller's use of the result.
type RecordSnapshot[B any] struct {
	ID      ObjectId
	Name    string
	Creator ObjectId
	State   State
	Backend B
}

// Snapshot copies the header and payload of the slot named by id.
// Valid for any non-free state so callers mid-delete still see
// consistent data rather than InvalidId.
func (t *Table[B]) Snapshot(id ObjectId) (RecordSnapshot[B], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	typ, idx, gen := id.decode()
	if typ != t.typ || idx < 0 || idx >= len(t.slots) {
		return RecordSnapshot[B]{}, errkind.KindInvalidId
	}
	slot := &t.slots[idx]
	if slot.state == StateFree || slot.id != id || gen != slot.nextGen {
		return RecordSnapshot[B]{}, errkind.KindInvalidId
	}
	return RecordSnapshot[B]{
		ID:      slot.id,
		Name:    slot.name,
		Creator: slot.creator,
		State:   slot.state,
		Backend: slot.backend,
	}, nil
}

// Len returns the table's configured capacity.
func (t *Table[B]) Len() int {
	return len(t.slots)
}

// Each calls fn for every slot in the given state, under the table
// lock, passing a Snapshot. Used by teardown and by diagnostics; fn
// must not call back into the table.
func (t *Table[B]) Each(state State, fn func(RecordSnapshot[B])) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.slots {
		if t.slots[i].state == state {
			fn(RecordSnapshot[B]{
				ID:      t.slots[i].id,
				Name:    t.slots[i].name,
				Creator: t.slots[i].creator,
				State:   t.slots[i].state,
				Backend: t.slots[i].backend,
			})
		}
	}
}

func (t *Table[B]) lookupExact(tok Token) (*record[B], error) {
	if tok.Type != t.typ || tok.Index < 0 || tok.Index >= len(t.slots) {
		return nil, errkind.KindInvalidId
	}
	slot := &t.slots[tok.Index]
	if slot.nextGen != tok.Generation {
		return nil, errkind.KindInvalidId
	}
	return slot, nil
}

func (t *Table[B]) resetSlot(slot *record[B]) {
	var zero B
	slot.state = StateFree
	slot.id = ObjectIdUndefined
	slot.name = ""
	slot.creator = ObjectIdUndefined
	slot.refcount = 0
	slot.backend = zero
}
