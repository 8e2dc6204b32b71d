package walker

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/registry"
)

// Import is the public entry point spec.md §4.6's load operation drives: it
// reads the value graph back from under the fixed namespace root.
func Import(driver container.Driver, table *registry.Table, symbols *registry.SymbolTable, encoding registry.EncodingPolicy, logger *zap.SugaredLogger) (any, error) {
	st := NewState(driver, table, symbols, encoding, logger)
	root := container.Path{container.RootGroup}
	if ok, err := driver.Exists(root); err != nil {
		return nil, err
	} else if !ok {
		return nil, &MissingNamespaceError{}
	}
	return st.ImportValue(root)
}

// ImportValue implements spec.md §4.3's import(parent, name, memo, encoding)
// algorithm, operating on the already-joined child path "at" rather than a
// separate (parent, name) pair — container.Path carries the same
// information and composes more naturally with Go's recursive calls.
func (s *State) ImportValue(at container.Path) (any, error) {
	canonical, err := s.canonicalize(at)
	if err != nil {
		return nil, err
	}

	if v, ok := s.memo.lookupLoad(canonical); ok {
		return v, nil
	}

	raw, ok, err := s.driver.GetAttr(canonical, typeAttr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &MissingTypeAttrError{Path: canonical}
	}
	tagStr, ok := raw.(string)
	if !ok {
		return nil, &MissingTypeAttrError{Path: canonical}
	}
	tag := registry.Tag(tagStr)

	importer, ok := s.table.ImporterFor(tag)
	if !ok {
		if tag == registry.TagReduction {
			importer = s.reducer.Import
		} else {
			return nil, &UnknownTagError{Tag: tag, Path: canonical}
		}
	}

	v, err := importer(s, canonical)
	if err != nil {
		return nil, err
	}
	// The reduction importer may already have memoized a shell at this
	// path (spec.md §4.3's cycle-handling rule); recording it again here
	// with the final value is harmless and covers every other importer,
	// none of which memoize on their own.
	s.memo.recordLoad(canonical, v)
	return v, nil
}

// canonicalize follows a soft link to its target path, or returns "at"
// unchanged if it is not a link — spec.md §4.3 step 1.
func (s *State) canonicalize(at container.Path) (container.Path, error) {
	target, isLink, err := s.driver.ReadLink(at)
	if err != nil {
		return nil, err
	}
	if isLink {
		return target, nil
	}
	return at, nil
}

// MissingNamespaceError reports an absent top-level namespace group —
// spec.md §3's "Deserialization error" list, first bullet.
type MissingNamespaceError struct{}

func (e *MissingNamespaceError) Error() string {
	return "deserialization error — top-level namespace group is absent"
}

// MissingTypeAttrError reports a node with no (or non-string) type
// attribute — spec.md §4.3 step 3.
type MissingTypeAttrError struct {
	Path container.Path
}

func (e *MissingTypeAttrError) Error() string {
	return fmt.Sprintf("unpickling error — missing type attribute at %s", e.Path)
}

// UnknownTagError reports a tag absent from the registry — spec.md §4.1.
type UnknownTagError struct {
	Tag  registry.Tag
	Path container.Path
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unpickling error — unknown type tag %q at %s", e.Tag, e.Path)
}
