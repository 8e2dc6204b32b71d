package codec

import (
	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/internal/hashkey"
	"github.com/h5it-go/h5it/registry"
)

// Set is spec.md's Set kind: an unordered collection of comparable
// elements, each named by a hash-derived child name the same way
// HashedMap's entries are (spec.md §4.2).
type Set map[any]struct{}

// IsSet matches exactly Set.
func IsSet(v any) bool {
	_, ok := v.(Set)
	return ok
}

// ExportSet writes each element directly (not wrapped in a pair, unlike
// HashedMap) under a hash-derived, collision-disambiguated child name.
func ExportSet(ctx registry.Context, v any, at container.Path) error {
	s := v.(Set)
	if err := ctx.Driver().CreateGroup(at); err != nil {
		return err
	}
	used := make(map[string]bool, len(s))
	for elem := range s {
		base := hashkey.Name(elem)
		name := hashkey.Disambiguate(used, base)
		used[name] = true
		if err := ctx.ExportValue(elem, at.Child(name)); err != nil {
			return err
		}
	}
	return nil
}

// ImportSet reads back a set node.
func ImportSet(ctx registry.Context, at container.Path) (any, error) {
	names, err := ctx.Driver().ListChildren(at)
	if err != nil {
		return nil, err
	}
	s := make(Set, len(names))
	for _, name := range names {
		v, err := ctx.ImportValue(at.Child(name))
		if err != nil {
			return nil, err
		}
		s[v] = struct{}{}
	}
	return s, nil
}
