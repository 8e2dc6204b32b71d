package codec

import (
	"golang.org/x/text/encoding/charmap"

	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/registry"
)

// IsText matches exactly string.
func IsText(v any) bool {
	_, ok := v.(string)
	return ok
}

// ExportText writes a variable-length UTF-8 dataset, tag "str".
func ExportText(ctx registry.Context, v any, at container.Path) error {
	s := v.(string)
	return ctx.Driver().WriteDataset(at, container.DTypeUTF8, []int{len(s)}, []byte(s), false)
}

// ImportText reads back a "str" dataset.
func ImportText(ctx registry.Context, at container.Path) (any, error) {
	_, _, data, err := ctx.Driver().ReadDataset(at)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// IsBytes matches exactly the named type Bytes; a plain []byte or any other
// byte-slice type does not match (exact-kind-match rule, spec.md §4.1).
func IsBytes(v any) bool {
	_, ok := v.(Bytes)
	return ok
}

// Bytes is a raw byte string, spec.md's "Byte string" kind. It is a named
// type (rather than a bare []byte) purely so codec.IsBytes and Go's own
// []byte (used for array payloads) never get confused by a type switch.
type Bytes []byte

// ExportBytes writes a raw bytes dataset. New files always use tag
// "bytes" — spec.md §9 explicitly resolves the "bytes vs py2_bytes"
// open question this way.
func ExportBytes(ctx registry.Context, v any, at container.Path) error {
	b := []byte(v.(Bytes))
	return ctx.Driver().WriteDataset(at, container.DTypeUint8, []int{len(b)}, b, false)
}

// ImportBytes reads back a "bytes"-tagged dataset.
func ImportBytes(ctx registry.Context, at container.Path) (any, error) {
	_, _, data, err := ctx.Driver().ReadDataset(at)
	if err != nil {
		return nil, err
	}
	return Bytes(data), nil
}

// ImportLegacyBytes reads back a "py2_bytes"-tagged dataset, applying the
// caller's encoding policy (spec.md §4.5, §6): EncodingBytes returns the
// raw bytes unchanged; EncodingASCII (the default) decodes them via
// golang.org/x/text/encoding/charmap, validated strictly as 7-bit ASCII
// rather than the full Windows-1252 codepage.
func ImportLegacyBytes(ctx registry.Context, at container.Path) (any, error) {
	_, _, data, err := ctx.Driver().ReadDataset(at)
	if err != nil {
		return nil, err
	}
	if ctx.Encoding() == registry.EncodingBytes {
		return Bytes(data), nil
	}
	dec := charmap.Windows1252.NewDecoder()
	for _, b := range data {
		if b >= 0x80 {
			return nil, &LegacyDecodeError{Path: at, Byte: b}
		}
	}
	out, err := dec.String(string(data))
	if err != nil {
		return nil, &LegacyDecodeError{Path: at, Cause: err}
	}
	return out, nil
}

// LegacyDecodeError reports a py2_bytes node that could not be decoded
// under the ASCII encoding policy.
type LegacyDecodeError struct {
	Path  container.Path
	Byte  byte
	Cause error
}

func (e *LegacyDecodeError) Error() string {
	if e.Cause != nil {
		return "unpickling error — legacy decode at " + e.Path.String() + ": " + e.Cause.Error()
	}
	return "unpickling error — non-ASCII byte in legacy text at " + e.Path.String()
}
