package walker

import "github.com/h5it-go/h5it/container"

// memo is the save/load identity table spec.md §4.2/§4.3 and §5 describe.
// A single memo instance is owned exclusively by one traversal and is
// discarded at the end of it.
type memo struct {
	// bySave keys by in-memory identity (an interface value's address,
	// obtained via identityKey) and maps to the canonical path the value
	// was first written at.
	bySave map[uintptr]container.Path
	// pinned is spec.md §5's "Identity hazard" side-list: every memoed
	// value is kept alive here for the remainder of the save so its
	// address cannot be reused by a later allocation and produce a false
	// alias. Discarded with the memo at end-of-save.
	pinned []any

	// byLoad keys by the node's canonical path and maps to the already
	// materialized value, realizing aliases and (for reduction nodes)
	// cycles on import.
	byLoad map[string]any
}

func newMemo() *memo {
	return &memo{
		bySave: make(map[uintptr]container.Path),
		byLoad: make(map[string]any),
	}
}

func (m *memo) lookupSave(id uintptr) (container.Path, bool) {
	p, ok := m.bySave[id]
	return p, ok
}

func (m *memo) recordSave(id uintptr, v any, at container.Path) {
	m.bySave[id] = at
	m.pinned = append(m.pinned, v)
}

func (m *memo) lookupLoad(at container.Path) (any, bool) {
	v, ok := m.byLoad[at.String()]
	return v, ok
}

func (m *memo) recordLoad(at container.Path, v any) {
	m.byLoad[at.String()] = v
}
