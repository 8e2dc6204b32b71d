// Package testutil holds fixtures shared across this module's test suites.
package testutil

import (
	"fmt"

	"github.com/h5it-go/h5it/container"
)

// memNode is either a group (children != nil), a dataset (data != nil), or
// a soft link (linkTarget != nil).
type memNode struct {
	children   map[string]*memNode
	attrs      map[string]any
	data       []byte
	dtype      container.DType
	shape      []int
	linkTarget container.Path
}

func newMemGroup() *memNode {
	return &memNode{children: make(map[string]*memNode), attrs: make(map[string]any)}
}

// memDriver is a pure in-memory container.Driver. It lets the graph walker,
// codecs, and reduction subsystem be exercised without linking cgo/HDF5; the
// physical hdf5Driver in container/hdf5.go is exercised separately by
// container/hdf5_test.go, which needs libhdf5 and which this fixture does
// not replace.
type memDriver struct {
	root *memNode
}

// NewMemDriver returns a fresh in-memory container.Driver, rooted and ready
// for a single Dump/Load cycle.
func NewMemDriver() container.Driver {
	return &memDriver{root: newMemGroup()}
}

func (d *memDriver) walk(p container.Path) (*memNode, bool) {
	n := d.root
	for _, seg := range p {
		if n.children == nil {
			return nil, false
		}
		child, ok := n.children[seg]
		if !ok {
			return nil, false
		}
		n = child
	}
	return n, true
}

func (d *memDriver) parent(p container.Path) (*memNode, string, error) {
	if len(p) == 0 {
		return nil, "", fmt.Errorf("testutil: path has no parent")
	}
	n, ok := d.walk(p[:len(p)-1])
	if !ok {
		return nil, "", container.ErrNotFound
	}
	return n, p[len(p)-1], nil
}

func (d *memDriver) CreateGroup(p container.Path) error {
	if len(p) == 0 {
		return nil
	}
	parent, last, err := d.parent(p)
	if err != nil {
		return err
	}
	if parent.children == nil {
		return container.ErrNotAGroup
	}
	parent.children[last] = newMemGroup()
	return nil
}

func (d *memDriver) Exists(p container.Path) (bool, error) {
	_, ok := d.walk(p)
	return ok, nil
}

func (d *memDriver) SetAttr(p container.Path, key string, value any) error {
	n, ok := d.walk(p)
	if !ok {
		return container.ErrNotFound
	}
	if n.attrs == nil {
		n.attrs = make(map[string]any)
	}
	n.attrs[key] = value
	return nil
}

func (d *memDriver) GetAttr(p container.Path, key string) (any, bool, error) {
	n, ok := d.walk(p)
	if !ok {
		return nil, false, container.ErrNotFound
	}
	v, ok := n.attrs[key]
	return v, ok, nil
}

func (d *memDriver) ListChildren(p container.Path) ([]string, error) {
	n, ok := d.walk(p)
	if !ok {
		return nil, container.ErrNotFound
	}
	if n.children == nil {
		return nil, container.ErrNotAGroup
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	return names, nil
}

func (d *memDriver) CreateSoftLink(p container.Path, target container.Path) error {
	parent, last, err := d.parent(p)
	if err != nil {
		return err
	}
	parent.children[last] = &memNode{linkTarget: target}
	return nil
}

func (d *memDriver) ReadLink(p container.Path) (container.Path, bool, error) {
	n, ok := d.walk(p)
	if !ok {
		return nil, false, container.ErrNotFound
	}
	if n.linkTarget == nil {
		return nil, false, nil
	}
	return n.linkTarget, true, nil
}

func (d *memDriver) WriteDataset(p container.Path, dtype container.DType, shape []int, data []byte, compress bool) error {
	parent, last, err := d.parent(p)
	if err != nil {
		return err
	}
	parent.children[last] = &memNode{
		attrs: make(map[string]any),
		data:  append([]byte{}, data...),
		dtype: dtype,
		shape: append([]int(nil), shape...),
	}
	return nil
}

func (d *memDriver) ReadDataset(p container.Path) (container.DType, []int, []byte, error) {
	n, ok := d.walk(p)
	if !ok {
		return container.DTypeInvalid, nil, nil, container.ErrNotFound
	}
	if n.data == nil {
		return container.DTypeInvalid, nil, nil, container.ErrNotADataset
	}
	return n.dtype, n.shape, n.data, nil
}

func (d *memDriver) Close() error { return nil }
