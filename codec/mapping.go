package codec

import (
	"fmt"
	"reflect"

	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/internal/hashkey"
	"github.com/h5it-go/h5it/registry"
)

// HashedMap is spec.md's "Mapping with arbitrary keys" kind: a mapping
// whose children are named by a hash derived from the key, each child
// itself a (key, value) 2-tuple. Keys must be comparable (the same
// constraint Go's own map type imposes).
type HashedMap map[any]any

// IsDictTextKeys matches map[string]any exactly — the variant spec.md's
// data model table reserves for instance state.
func IsDictTextKeys(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// IsDictHashed matches HashedMap exactly.
func IsDictHashed(v any) bool {
	_, ok := v.(HashedMap)
	return ok
}

// ExportDictTextKeys writes the group-of-named-children representation
// spec.md reserves for string-keyed mappings (used directly for plain
// map[string]any values, and reused by the reduction subsystem for
// instance state).
func ExportDictTextKeys(ctx registry.Context, v any, at container.Path) error {
	m := v.(map[string]any)
	if err := ctx.Driver().CreateGroup(at); err != nil {
		return err
	}
	for k, val := range m {
		if err := ctx.ExportValue(val, at.Child(k)); err != nil {
			return err
		}
	}
	return nil
}

// ImportDictTextKeys reads back a textually-keyed mapping node.
func ImportDictTextKeys(ctx registry.Context, at container.Path) (any, error) {
	names, err := ctx.Driver().ListChildren(at)
	if err != nil {
		return nil, err
	}
	m := make(map[string]any, len(names))
	for _, name := range names {
		v, err := ctx.ImportValue(at.Child(name))
		if err != nil {
			return nil, err
		}
		m[name] = v
	}
	return m, nil
}

// ExportDictHashed writes each (key, value) pair as a 2-tuple child named
// by a hash of the key, per spec.md §4.2. Collisions — silently
// overwritten in the source this is adapted from — are resolved by
// appending a disambiguator, per the Open Question spec.md §9 resolves
// explicitly in favor of implementations that detect and disambiguate.
func ExportDictHashed(ctx registry.Context, v any, at container.Path) error {
	m := v.(HashedMap)
	if err := ctx.Driver().CreateGroup(at); err != nil {
		return err
	}
	used := make(map[string]bool, len(m))
	for k, val := range m {
		base := hashkey.Name(k)
		name := hashkey.Disambiguate(used, base)
		used[name] = true
		if err := ctx.ExportValue(Tuple{k, val}, at.Child(name)); err != nil {
			return err
		}
	}
	return nil
}

// ImportDictHashed reads back a hashed mapping: every child must be a
// 2-element sequence (key, value).
func ImportDictHashed(ctx registry.Context, at container.Path) (any, error) {
	names, err := ctx.Driver().ListChildren(at)
	if err != nil {
		return nil, err
	}
	m := make(HashedMap, len(names))
	for _, name := range names {
		v, err := ctx.ImportValue(at.Child(name))
		if err != nil {
			return nil, err
		}
		k, val, err := asPair(v)
		if err != nil {
			return nil, fmt.Errorf("deserialization error — dict entry at %s: %w", at.Child(name), err)
		}
		m[k] = val
	}
	return m, nil
}

func asPair(v any) (key, value any, err error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Len() != 2 {
		return nil, nil, fmt.Errorf("expected a 2-element (key, value) sequence, got %T", v)
	}
	return rv.Index(0).Interface(), rv.Index(1).Interface(), nil
}
