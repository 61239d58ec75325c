package wasmhb

import "sync"

// kind tags each handle with the type of value behind it.
type kind uint32

const (
	kindBlob kind = iota + 1
	kindFace
	kindFont
	kindBuffer
)

func (k kind) String() string {
	switch k {
	case kindBlob:
		return "blob"
	case kindFace:
		return "face"
	case kindFont:
		return "font"
	case kindBuffer:
		return "buffer"
	}
	return "unknown"
}

type entry struct {
	value any
	kind  kind
	valid bool
}

// handleTable maps guest-visible handles to host values. Handle 0 is never
// issued; freed handles are reused.
type handleTable struct {
	mu      sync.RWMutex
	entries []entry
	free    []uint32
}

func newHandleTable() *handleTable {
	return &handleTable{
		entries: make([]entry, 0, 64),
		free:    make([]uint32, 0, 16),
	}
}

func (t *handleTable) insert(k kind, v any) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := entry{value: v, kind: k, valid: true}
	if n := len(t.free); n > 0 {
		h := t.free[n-1]
		t.free = t.free[:n-1]
		t.entries[h-1] = e
		return h
	}
	t.entries = append(t.entries, e)
	return uint32(len(t.entries))
}

func (t *handleTable) get(h uint32) (entry, bool) {
	if h == 0 {
		return entry{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(h-1) >= len(t.entries) {
		return entry{}, false
	}
	e := t.entries[h-1]
	return e, e.valid
}

// getTyped returns the value behind h only if it has kind k.
func getTyped[T any](t *handleTable, h uint32, k kind) (T, bool) {
	var zero T
	e, ok := t.get(h)
	if !ok || e.kind != k {
		return zero, false
	}
	v, ok := e.value.(T)
	return v, ok
}

func (t *handleTable) remove(h uint32) bool {
	if h == 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if int(h-1) >= len(t.entries) || !t.entries[h-1].valid {
		return false
	}
	t.entries[h-1] = entry{}
	t.free = append(t.free, h)
	return true
}

func (t *handleTable) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries) - len(t.free)
}
