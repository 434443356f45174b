package osal

import (
	"sort"

	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/idmap"
	"github.com/go-osal/osal/internal/symtab"
)

type moduleRecord struct {
	handle backend.ModuleHandle
}

// ModuleLoad loads path as a dynamic module, registering it under
// name. global makes its symbols visible to ModuleSymbolLookupGlobal.
func ModuleLoad(name, path string, global bool) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}
	tok, id, err := s.modules.Reserve(name, idmap.ObjectIdUndefined)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_ModuleLoad", idmap.ObjectIdUndefined, err)
	}
	h, lerr := s.backends.Module.Load(path, global)
	if lerr != nil {
		s.modules.Abort(tok)
		return idmap.ObjectIdUndefined, wrapErr("OS_ModuleLoad", idmap.ObjectIdUndefined, lerr)
	}
	if err := s.modules.Commit(tok, moduleRecord{handle: h}); err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_ModuleLoad", id, err)
	}
	return id, nil
}

// ModuleUnload unloads a module.
func ModuleUnload(id idmap.ObjectId) error {
	s, err := current()
	if err != nil {
		return err
	}
	delTok, rec, err := s.modules.AcquireExclusiveForDelete(id)
	if err != nil {
		return wrapErr("OS_ModuleUnload", id, err)
	}
	backendErr := s.backends.Module.Unload(rec.handle)
	if err := s.modules.FinishDelete(delTok, backendErr, false); err != nil {
		return wrapErr("OS_ModuleUnload", id, err)
	}
	return nil
}

// ModuleSymbolLookup resolves symbol within a specific loaded module.
func ModuleSymbolLookup(id idmap.ObjectId, symbol string) (uintptr, error) {
	s, err := current()
	if err != nil {
		return 0, err
	}
	tok, rec, err := s.modules.AcquireShared(id)
	if err != nil {
		return 0, wrapErr("OS_ModuleSymbolLookup", id, err)
	}
	defer s.modules.ReleaseShared(tok)
	addr, lerr := s.backends.Module.SymbolLookup(rec.handle, symbol)
	if lerr != nil {
		return 0, wrapErr("OS_ModuleSymbolLookup", id, lerr)
	}
	return addr, nil
}

// ModuleSymbolLookupGlobal resolves symbol across every module loaded
// with global visibility.
func ModuleSymbolLookupGlobal(symbol string) (uintptr, error) {
	s, err := current()
	if err != nil {
		return 0, err
	}
	addr, lerr := s.backends.Module.SymbolLookupGlobal(symbol)
	if lerr != nil {
		return 0, wrapErr("OS_ModuleSymbolLookup", idmap.ObjectIdUndefined, lerr)
	}
	return addr, nil
}

// ModuleSymbolTableDump encodes every symbol exported by a loaded
// module into the fixed-record binary layout OS_SymbolTableDump
// writes to a file, for back-ends that support enumerating symbols.
func ModuleSymbolTableDump(id idmap.ObjectId, nameLen int) ([]byte, error) {
	s, err := current()
	if err != nil {
		return nil, err
	}
	enum, ok := s.backends.Module.(backend.ModuleSymbolEnumerator)
	if !ok {
		return nil, newErr("OS_SymbolTableDump", id, KindNotImplemented, "back-end cannot enumerate module symbols")
	}
	tok, rec, aerr := s.modules.AcquireShared(id)
	if aerr != nil {
		return nil, wrapErr("OS_SymbolTableDump", id, aerr)
	}
	defer s.modules.ReleaseShared(tok)

	syms := enum.EnumerateSymbols(rec.handle)
	entries := make([]symtab.Entry, 0, len(syms))
	for name, addr := range syms {
		entries = append(entries, symtab.Entry{Name: name, Value: uint32(addr)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return symtab.Marshal(entries, nameLen), nil
}

// ModuleInfo is the portable subset OS_ModuleInfo reports.
type ModuleInfo struct {
	Id         idmap.ObjectId
	Name       string
	EntryPoint uintptr
	AddrStart  uintptr
	AddrEnd    uintptr
}

// ModuleGetInfo snapshots a loaded module's table entry and its
// backend handle's load-address range.
func ModuleGetInfo(id idmap.ObjectId) (ModuleInfo, error) {
	s, err := current()
	if err != nil {
		return ModuleInfo{}, err
	}
	snap, err := s.modules.Snapshot(id)
	if err != nil {
		return ModuleInfo{}, wrapErr("OS_ModuleInfo", id, err)
	}
	start, end := snap.Backend.handle.AddrRanges()
	return ModuleInfo{
		Id:         snap.ID,
		Name:       snap.Name,
		EntryPoint: snap.Backend.handle.EntryPoint(),
		AddrStart:  start,
		AddrEnd:    end,
	}, nil
}

// ModuleGetIdByName looks up a loaded module's id by its registration
// name.
func ModuleGetIdByName(name string) (idmap.ObjectId, error) {
	s, err := current()
	if err != nil {
		return idmap.ObjectIdUndefined, err
	}
	id, err := s.modules.GetIdByName(name)
	if err != nil {
		return idmap.ObjectIdUndefined, wrapErr("OS_ModuleGetIdByName", idmap.ObjectIdUndefined, err)
	}
	return id, nil
}
