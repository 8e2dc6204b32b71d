// Package container defines the thin abstraction over a physical HDF5
// container that the rest of h5it is written against: a tree of named
// nodes where each node is a group (an ordered-by-name mapping to children
// plus string-keyed scalar attributes) or a dataset (a typed array payload
// plus attributes), and where a node may instead be a soft link pointing
// at another node by path.
//
// h5it never touches an HDF5 file directly outside this package; every
// other package talks to a Driver.
package container

import "strings"

// Path is a sequence of path segments naming a node inside a container,
// e.g. []string{"Software", "MyApp"}.
type Path []string

// Child returns a new Path with name appended.
func (p Path) Child(name string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = name
	return out
}

// String renders the path "/"-joined, rooted, for error messages and logs.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	return "/" + strings.Join([]string(p), "/")
}

// DType identifies the native scalar encoding of a dataset or attribute
// payload. It deliberately stays small: h5it only needs enough of a dtype
// system to round-trip the kinds spec.md recognizes, not a general tensor
// type lattice.
type DType int

const (
	DTypeInvalid DType = iota
	DTypeUint8         // byte strings, opaque array payloads
	DTypeInt64
	DTypeFloat64
	DTypeComplex128 // stored as two float64 components, per spec.md §4.2
	DTypeUTF8       // variable-length UTF-8 text
)

// Driver is the physical HDF5 container abstraction spec.md §1 calls an
// external collaborator. h5it's graph walker, codecs, and reduction
// subsystem are written only against this interface; container/hdf5.go
// supplies the one production implementation, backed by gonum.org/v1/hdf5.
type Driver interface {
	// CreateGroup creates an (empty) group at p. The parent must already exist.
	CreateGroup(p Path) error

	// Exists reports whether any node (group, dataset, or link) is present at p.
	Exists(p Path) (bool, error)

	// SetAttr writes a scalar attribute on the node at p. value is one of:
	// bool, int64, float64, complex128, or string.
	SetAttr(p Path, key string, value any) error

	// GetAttr reads a scalar attribute previously written with SetAttr.
	GetAttr(p Path, key string) (value any, ok bool, err error)

	// ListChildren returns the names of p's children in the container's own
	// (unspecified) order. Callers that need a specific order — list
	// indices, in particular — must not rely on this order; see spec.md §4.2
	// "Orderings & tie-breaks".
	ListChildren(p Path) ([]string, error)

	// CreateSoftLink creates a soft link at p pointing at target.
	CreateSoftLink(p Path, target Path) error

	// ReadLink reports whether p is a soft link and, if so, its target.
	ReadLink(p Path) (target Path, isLink bool, err error)

	// WriteDataset writes a typed array payload (and, for scalar leaf
	// codecs, a zero-length one) under p. compress requests gzip
	// compression with a checksum filter, used for multidimensional arrays
	// per spec.md §4.2.
	WriteDataset(p Path, dtype DType, shape []int, data []byte, compress bool) error

	// ReadDataset reads back a payload written with WriteDataset.
	ReadDataset(p Path) (dtype DType, shape []int, data []byte, err error)

	// Close flushes and closes the underlying file.
	Close() error
}

// RootGroup is the name of the root group's single child that holds the
// whole value graph (spec.md §6, "the namespace key").
const RootGroup = "h5it"
