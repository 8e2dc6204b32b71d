// Package codec implements the leaf codecs spec.md §4.5 describes: the
// small, self-contained exporters/importers for strings, bytes, booleans,
// numeric scalars, filesystem paths, absent values, and arrays. Every
// function here matches the registry.Exporter/registry.Importer shape so
// it can be registered directly into a registry.Table.
package codec

import (
	"reflect"

	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/registry"
)

// IsAbsent matches a nil interface, nil pointer, or nil map/slice/chan/func
// value — the Go values that stand in for Python's None.
func IsAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// ExportAbsent writes the empty-group representation spec.md's data model
// table assigns to the Absent kind.
func ExportAbsent(ctx registry.Context, _ any, at container.Path) error {
	return ctx.Driver().CreateGroup(at)
}

// ImportAbsent reads back an Absent node. There is nothing to read; the
// node's mere existence (plus its "type" attribute, checked by the walker)
// is the payload.
func ImportAbsent(_ registry.Context, _ container.Path) (any, error) {
	return nil, nil
}

// IsBool matches exactly bool, not any named bool-derived type — spec.md
// §4.1's exact-kind-match rule.
func IsBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

const boolAttr = "bool_value"

// ExportBool writes the empty-group-plus-attribute representation spec.md's
// data model table assigns to the Boolean kind.
func ExportBool(ctx registry.Context, v any, at container.Path) error {
	if err := ctx.Driver().CreateGroup(at); err != nil {
		return err
	}
	return ctx.Driver().SetAttr(at, boolAttr, v.(bool))
}

// ImportBool reads back a Boolean node.
func ImportBool(ctx registry.Context, at container.Path) (any, error) {
	v, ok, err := ctx.Driver().GetAttr(at, boolAttr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, missingAttr(at, boolAttr)
	}
	b, _ := v.(bool)
	return b, nil
}

// IsNumber matches every Go numeric kind except byte/uint8 (which codec
// treats as a bytes element, never a lone Number node) — ints, uints,
// floats, and complex values.
func IsNumber(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

const numberAttr = "number_value"

// ExportNumber writes the empty-group-plus-attribute representation
// spec.md's data model table assigns to the Number kind. The native Go
// width is not preserved (the container only has int64/float64/complex128
// native scalar slots); int8/16/32 round-trip as int64 and float32 as
// float64, the precision-widening adaptation recorded in DESIGN.md.
func ExportNumber(ctx registry.Context, v any, at container.Path) error {
	if err := ctx.Driver().CreateGroup(at); err != nil {
		return err
	}
	return ctx.Driver().SetAttr(at, numberAttr, normalizeNumber(v))
}

func normalizeNumber(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex()
	default:
		return v
	}
}

// ImportNumber reads back a Number node as int64, float64, or complex128
// depending on which native scalar slot was written.
func ImportNumber(ctx registry.Context, at container.Path) (any, error) {
	v, ok, err := ctx.Driver().GetAttr(at, numberAttr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, missingAttr(at, numberAttr)
	}
	return v, nil
}

func missingAttr(at container.Path, key string) error {
	return &AttrError{Path: at, Key: key}
}

// AttrError reports a node missing a required attribute — always a
// deserialization error (spec.md §7).
type AttrError struct {
	Path container.Path
	Key  string
}

func (e *AttrError) Error() string {
	return "unpickling error — missing attribute " + e.Key + " at " + e.Path.String()
}
