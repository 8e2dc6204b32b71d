package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/internal/buf"
	"github.com/h5it-go/h5it/registry"
)

// Array is h5it's stand-in for the "numeric array backend" spec.md §1
// scopes as an external collaborator: a shape, a dtype, and a flat
// row-major byte payload. It is deliberately minimal — see DESIGN.md for
// why no third-party tensor library backs it.
type Array struct {
	Shape []int
	DType container.DType
	Data  []byte
}

// IsArray matches exactly Array.
func IsArray(v any) bool {
	_, ok := v.(Array)
	return ok
}

// ExportArray writes the dataset-with-compression representation spec.md
// §4.2 assigns to multidimensional arrays ("checksum filter and gzip
// compression, chosen for interoperability with other HDF5 readers").
func ExportArray(ctx registry.Context, v any, at container.Path) error {
	a := v.(Array)
	return ctx.Driver().WriteDataset(at, a.DType, a.Shape, a.Data, true)
}

// ImportArray reads back an array node.
func ImportArray(ctx registry.Context, at container.Path) (any, error) {
	dtype, shape, data, err := ctx.Driver().ReadDataset(at)
	if err != nil {
		return nil, err
	}
	return Array{Shape: shape, DType: dtype, Data: data}, nil
}

// NewFloat64Array builds an Array from a flat row-major float64 slice and
// its shape, validating that the element count matches.
func NewFloat64Array(shape []int, data []float64) (Array, error) {
	if err := checkCount(shape, len(data)); err != nil {
		return Array{}, err
	}
	raw := make([]byte, len(data)*8)
	for i, f := range data {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(f))
	}
	return Array{Shape: shape, DType: container.DTypeFloat64, Data: raw}, nil
}

// Float64s decodes an Array written with NewFloat64Array back into a flat
// row-major float64 slice. Element access goes through internal/buf's
// bounds-checked slicing so a truncated or corrupt payload surfaces as an
// error instead of a panic.
func (a Array) Float64s() ([]float64, error) {
	if a.DType != container.DTypeFloat64 {
		return nil, fmt.Errorf("array: dtype is not float64")
	}
	if len(a.Data)%8 != 0 {
		return nil, fmt.Errorf("array: float64 payload length %d is not a multiple of 8", len(a.Data))
	}
	out := make([]float64, len(a.Data)/8)
	for i := range out {
		chunk, ok := buf.Slice(a.Data, i*8, 8)
		if !ok {
			return nil, fmt.Errorf("array: truncated float64 payload at element %d", i)
		}
		out[i] = math.Float64frombits(buf.U64LE(chunk))
	}
	return out, nil
}

func checkCount(shape []int, n int) error {
	want := 1
	for _, d := range shape {
		if d != 0 && want > math.MaxInt/d {
			return fmt.Errorf("array: shape %v overflows int", shape)
		}
		want *= d
	}
	if want != n {
		return fmt.Errorf("array: shape %v wants %d elements, got %d", shape, want, n)
	}
	return nil
}
