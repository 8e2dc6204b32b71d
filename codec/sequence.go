package codec

import (
	"fmt"
	"strconv"

	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/registry"
)

// Tuple is spec.md's "Fixed sequence" kind. It is represented the same way
// as a list on disk, distinguished only by its tag (spec.md's data model
// table: "as list"), so Go needs a distinct named type where Python relies
// on tuple being its own builtin type.
type Tuple []any

// IsList matches exactly []any — not Tuple, and not any other named slice
// type (those fall through to reduction, per spec.md §4.1).
func IsList(v any) bool {
	_, ok := v.([]any)
	return ok
}

// IsTuple matches exactly Tuple.
func IsTuple(v any) bool {
	_, ok := v.(Tuple)
	return ok
}

// ExportList writes the list representation spec.md §4.2 describes: a
// group whose children are named by zero-padded contiguous indices.
func ExportList(ctx registry.Context, v any, at container.Path) error {
	return exportIndexed(ctx, []any(v.([]any)), at)
}

// ExportTuple is identical to ExportList; only the registered tag differs.
func ExportTuple(ctx registry.Context, v any, at container.Path) error {
	return exportIndexed(ctx, []any(v.(Tuple)), at)
}

func exportIndexed(ctx registry.Context, items []any, at container.Path) error {
	if err := ctx.Driver().CreateGroup(at); err != nil {
		return err
	}
	width := indexWidth(len(items))
	for i, item := range items {
		name := fmt.Sprintf("%0*d", width, i)
		if err := ctx.ExportValue(item, at.Child(name)); err != nil {
			return err
		}
	}
	return nil
}

// indexWidth returns the decimal width of the largest index in a sequence
// of n items ("00".."0(n-1)" per spec.md §4.2/§6), with a floor of 2 to
// match the "00" convention the source always uses for small sequences.
func indexWidth(n int) int {
	if n <= 1 {
		return 2
	}
	w := len(strconv.Itoa(n - 1))
	if w < 2 {
		return 2
	}
	return w
}

// ImportList reads back a list node, requiring the contiguous 0..n-1 index
// set spec.md §3's invariants and §8's "List contiguity" property demand;
// a missing index is a corrupt file.
func ImportList(ctx registry.Context, at container.Path) (any, error) {
	items, err := importIndexed(ctx, at)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ImportTuple is identical to ImportList except for the returned type.
func ImportTuple(ctx registry.Context, at container.Path) (any, error) {
	items, err := importIndexed(ctx, at)
	if err != nil {
		return nil, err
	}
	return Tuple(items), nil
}

func importIndexed(ctx registry.Context, at container.Path) ([]any, error) {
	names, err := ctx.Driver().ListChildren(at)
	if err != nil {
		return nil, err
	}
	n := len(names)
	items := make([]any, n)
	seen := make([]bool, n)
	width := indexWidth(n)
	for _, name := range names {
		idx, err := strconv.Atoi(name)
		if err != nil || idx < 0 || idx >= n {
			return nil, &ContiguityError{Path: at, Name: name}
		}
		v, err := ctx.ImportValue(at.Child(fmt.Sprintf("%0*d", width, idx)))
		if err != nil {
			return nil, err
		}
		items[idx] = v
		seen[idx] = true
	}
	for i, ok := range seen {
		if !ok {
			return nil, &ContiguityError{Path: at, MissingIndex: i}
		}
	}
	return items, nil
}

// ContiguityError reports a list node whose child indices are not exactly
// 0..n-1 — spec.md §3's invariant, tested in §8 by tampering with a list
// group.
type ContiguityError struct {
	Path         container.Path
	Name         string
	MissingIndex int
}

func (e *ContiguityError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("deserialization error — non-index child %q in list at %s", e.Name, e.Path)
	}
	return fmt.Sprintf("deserialization error — list at %s missing index %d", e.Path, e.MissingIndex)
}
