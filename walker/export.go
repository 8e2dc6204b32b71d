package walker

import (
	"go.uber.org/zap"

	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/registry"
)

const typeAttr = "type"

// Export is the public entry point spec.md §4.6's dump operation drives: it
// writes v under the fixed namespace root and discards the memo (and its
// pinning side-list, spec.md §5's identity hazard) at the end of the save.
func Export(driver container.Driver, table *registry.Table, symbols *registry.SymbolTable, logger *zap.SugaredLogger, v any) error {
	st := NewState(driver, table, symbols, registry.EncodingDefault, logger)
	root := container.Path{container.RootGroup}
	// Every exporter creates its own node (group or dataset); the root is
	// no exception, so it must not be pre-created here too.
	return st.ExportValue(v, root)
}

// ExportValue implements spec.md §4.2's export(v, parent, name, memo)
// algorithm. It is exported on State (not just called internally) because
// it is exactly the method value registry.Context.ExportValue requires —
// every codec/reduce Exporter recurses through this, not through a
// separate top-level function.
func (s *State) ExportValue(v any, at container.Path) error {
	if id, ok := identityKey(v); ok {
		if target, seen := s.memo.lookupSave(id); seen {
			return s.driver.CreateSoftLink(at, target)
		}
		// Recorded before dispatching to the exporter, not after (spec.md
		// §4.2's steps read as memoizing only once the node is fully
		// written). A value being saved already has its real address, so
		// there is no need to wait for anything to finish constructing —
		// recording the path now is exactly what lets a field that refers
		// back to v resolve to a soft link instead of recursing forever,
		// the save-side mirror of §4.3's pre-allocated-shell trick.
		s.memo.recordSave(id, v, at)
	}

	entry, found := s.table.Lookup(v)
	if found {
		if err := entry.Export(s, v, at); err != nil {
			return err
		}
		return s.driver.SetAttr(at, typeAttr, string(entry.Tag))
	}

	tag, err := s.reducer.Export(s, v, at)
	if err != nil {
		return err
	}
	return s.driver.SetAttr(at, typeAttr, string(tag))
}
