package sim

import (
	"sync"

	"github.com/go-osal/osal/internal/backend"
	"github.com/go-osal/osal/internal/errkind"
)

// ModuleBackend resolves modules from a static registry populated by
// Register, standing in for a platform dynamic loader: the sim
// backend has no object files to dlopen, so a test or demo program
// registers the symbol tables it wants OS_ModuleLoad to find.
type ModuleBackend struct {
	mu      sync.Mutex
	modules map[string]map[string]uintptr
}

func NewModuleBackend() *ModuleBackend {
	return &ModuleBackend{modules: make(map[string]map[string]uintptr)}
}

// Register makes a module available to Load under path, exposing
// symbols for SymbolLookup.
func (b *ModuleBackend) Register(path string, symbols map[string]uintptr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modules[path] = symbols
}

type moduleHandle struct {
	symbols map[string]uintptr
}

func (b *ModuleBackend) Load(path string, global bool) (backend.ModuleHandle, error) {
	b.mu.Lock()
	symbols, ok := b.modules[path]
	b.mu.Unlock()
	if !ok {
		return nil, errkind.KindInvalidPointer
	}
	return &moduleHandle{symbols: symbols}, nil
}

func (b *ModuleBackend) Unload(h backend.ModuleHandle) error {
	return nil
}

func (b *ModuleBackend) SymbolLookup(h backend.ModuleHandle, symbol string) (uintptr, error) {
	mh := h.(*moduleHandle)
	addr, ok := mh.symbols[symbol]
	if !ok {
		return 0, errkind.KindNameNotFound
	}
	return addr, nil
}

func (b *ModuleBackend) SymbolLookupGlobal(symbol string) (uintptr, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, symbols := range b.modules {
		if addr, ok := symbols[symbol]; ok {
			return addr, nil
		}
	}
	return 0, errkind.KindNameNotFound
}

// EnumerateSymbols implements backend.ModuleSymbolEnumerator.
func (b *ModuleBackend) EnumerateSymbols(h backend.ModuleHandle) map[string]uintptr {
	return h.(*moduleHandle).symbols
}

func (h *moduleHandle) EntryPoint() uintptr {
	if addr, ok := h.symbols["_start"]; ok {
		return addr
	}
	return 0
}

func (h *moduleHandle) AddrRanges() (uintptr, uintptr) {
	return 0, 0
}
