package container

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"gonum.org/v1/hdf5"
)

// gzipLevel is the compression level used for array datasets. Chosen for
// interoperability with other HDF5 readers per spec.md §4.2, not raw ratio.
const gzipLevel = gzip.DefaultCompression

// hdf5Driver is the production Driver, backed by gonum.org/v1/hdf5's cgo
// binding to libhdf5. It never keeps open handles around between calls —
// every method re-resolves the path from the file root — which costs a
// little extra traversal but keeps the driver trivially safe to call from
// a single-threaded walker without bookkeeping stale *hdf5.Group handles.
type hdf5Driver struct {
	file *hdf5.File
}

// Create truncates (or creates) the file at path and returns a Driver
// backed by it. Only the file's root group exists afterwards; the RootGroup
// namespace group is not created here.
func Create(path string) (Driver, error) {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, errors.Wrapf(err, "container: create %q", path)
	}
	d := &hdf5Driver{file: f}
	if err := d.CreateGroup(Path{}); err != nil {
		f.Close()
		return nil, err
	}
	return d, nil
}

// Open opens the file at path read-only and returns a Driver over it.
func Open(path string) (Driver, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.Wrapf(err, "container: open %q", path)
	}
	return &hdf5Driver{file: f}, nil
}

func (d *hdf5Driver) openGroup(p Path) (*hdf5.Group, error) {
	if len(p) == 0 {
		return d.file.Group, nil
	}
	g, err := d.file.OpenGroup(p.String()[1:])
	if err != nil {
		return nil, errors.Wrapf(err, "container: open group %s", p)
	}
	return g, nil
}

func (d *hdf5Driver) CreateGroup(p Path) error {
	if len(p) == 0 {
		return nil // root always exists
	}
	parent, err := d.openGroup(p[:len(p)-1])
	if err != nil {
		return err
	}
	defer closeGroup(parent, len(p) > 1)

	g, err := parent.CreateGroup(p[len(p)-1])
	if err != nil {
		return errors.Wrapf(err, "container: create group %s", p)
	}
	defer g.Close()
	return nil
}

func closeGroup(g *hdf5.Group, owned bool) {
	if owned {
		g.Close()
	}
}

func (d *hdf5Driver) Exists(p Path) (bool, error) {
	if len(p) == 0 {
		return true, nil
	}
	parent, err := d.openGroup(p[:len(p)-1])
	if err != nil {
		return false, nil //nolint:nilerr // missing parent means missing child
	}
	defer closeGroup(parent, len(p) > 1)
	return parent.LinkExists(p[len(p)-1])
}

func (d *hdf5Driver) SetAttr(p Path, key string, value any) error {
	g, err := d.openGroup(p)
	if err != nil {
		return err
	}
	defer closeGroup(g, len(p) > 0)

	dtype, dims, raw, err := encodeAttr(value)
	if err != nil {
		return errors.Wrapf(err, "container: encode attr %s/%s", p, key)
	}
	space, err := hdf5.CreateDataspace(hdf5.S_SCALAR, dims, nil)
	if err != nil {
		return errors.Wrap(err, "container: create dataspace")
	}
	defer space.Close()

	attr, err := g.CreateAttribute(key, dtype, space)
	if err != nil {
		return errors.Wrapf(err, "container: create attr %s/%s", p, key)
	}
	defer attr.Close()

	if err := attr.Write(raw, dtype); err != nil {
		return errors.Wrapf(err, "container: write attr %s/%s", p, key)
	}
	return nil
}

func (d *hdf5Driver) GetAttr(p Path, key string) (any, bool, error) {
	g, err := d.openGroup(p)
	if err != nil {
		return nil, false, err
	}
	defer closeGroup(g, len(p) > 0)

	if ok, _ := g.AttributeExists(key); !ok {
		return nil, false, nil
	}
	attr, err := g.OpenAttribute(key)
	if err != nil {
		return nil, false, errors.Wrapf(err, "container: open attr %s/%s", p, key)
	}
	defer attr.Close()

	v, err := decodeAttr(attr)
	if err != nil {
		return nil, false, errors.Wrapf(err, "container: decode attr %s/%s", p, key)
	}
	return v, true, nil
}

func (d *hdf5Driver) ListChildren(p Path) ([]string, error) {
	g, err := d.openGroup(p)
	if err != nil {
		return nil, err
	}
	defer closeGroup(g, len(p) > 0)

	n, err := g.NumObjects()
	if err != nil {
		return nil, errors.Wrapf(err, "container: count children of %s", p)
	}
	names := make([]string, 0, n)
	for i := uint(0); i < n; i++ {
		name, err := g.ObjectNameByIndex(i)
		if err != nil {
			return nil, errors.Wrapf(err, "container: name child %d of %s", i, p)
		}
		names = append(names, name)
	}
	return names, nil
}

func (d *hdf5Driver) CreateSoftLink(p Path, target Path) error {
	parent, err := d.openGroup(p[:len(p)-1])
	if err != nil {
		return err
	}
	defer closeGroup(parent, len(p) > 1)

	if err := parent.LinkSoft(target.String(), p[len(p)-1]); err != nil {
		return errors.Wrapf(err, "container: soft link %s -> %s", p, target)
	}
	return nil
}

func (d *hdf5Driver) ReadLink(p Path) (Path, bool, error) {
	parent, err := d.openGroup(p[:len(p)-1])
	if err != nil {
		return nil, false, err
	}
	defer closeGroup(parent, len(p) > 1)

	name := p[len(p)-1]
	kind, err := parent.LinkInfo(name)
	if err != nil || kind != hdf5.LinkTypeSoft {
		return nil, false, nil //nolint:nilerr // "not a link" is not an error
	}
	target, err := parent.LinkValue(name)
	if err != nil {
		return nil, false, errors.Wrapf(err, "container: resolve link %s", p)
	}
	return splitPath(target), true, nil
}

func (d *hdf5Driver) WriteDataset(p Path, dtype DType, shape []int, data []byte, compress bool) error {
	parent, err := d.openGroup(p[:len(p)-1])
	if err != nil {
		return err
	}
	defer closeGroup(parent, len(p) > 1)

	ht, dims := hdf5TypeFor(dtype, shape)
	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return errors.Wrap(err, "container: create dataspace")
	}
	defer space.Close()

	plist := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	defer plist.Close()
	if compress {
		_ = plist.SetFletcher32()
		_ = plist.SetDeflate(uint(gzipLevel))
		_ = plist.SetChunk(dims)
	}

	ds, err := parent.CreateDatasetWith(p[len(p)-1], ht, space, plist)
	if err != nil {
		return errors.Wrapf(err, "container: create dataset %s", p)
	}
	defer ds.Close()

	if err := ds.Write(data); err != nil {
		return errors.Wrapf(err, "container: write dataset %s", p)
	}

	dtSpace := scalarSpace()
	defer dtSpace.Close()
	dtAttr, err := ds.CreateAttribute("h5it_dtype", hdf5.T_NATIVE_INT, dtSpace)
	if err != nil {
		return errors.Wrapf(err, "container: stamp dtype on %s", p)
	}
	defer dtAttr.Close()
	return dtAttr.Write(int32(dtype))
}

func (d *hdf5Driver) ReadDataset(p Path) (DType, []int, []byte, error) {
	parent, err := d.openGroup(p[:len(p)-1])
	if err != nil {
		return DTypeInvalid, nil, nil, err
	}
	defer closeGroup(parent, len(p) > 1)

	ds, err := parent.OpenDataset(p[len(p)-1])
	if err != nil {
		return DTypeInvalid, nil, nil, errors.Wrapf(err, "container: open dataset %s", p)
	}
	defer ds.Close()

	space := ds.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return DTypeInvalid, nil, nil, errors.Wrapf(err, "container: dims of %s", p)
	}
	shape := make([]int, len(dims))
	for i, v := range dims {
		shape[i] = int(v)
	}

	var dt int32
	attr, err := ds.OpenAttribute("h5it_dtype")
	if err == nil {
		_ = attr.Read(&dt)
		attr.Close()
	}
	dtype := DType(dt)

	data, err := readDatasetBytes(ds, dtype, shape)
	if err != nil {
		return DTypeInvalid, nil, nil, errors.Wrapf(err, "container: read dataset %s", p)
	}
	return dtype, shape, data, nil
}

func (d *hdf5Driver) Close() error {
	return d.file.Close()
}

func splitPath(s string) Path {
	if s == "" || s == "/" {
		return Path{}
	}
	segs := []string{}
	cur := ""
	for _, r := range s {
		if r == '/' {
			if cur != "" {
				segs = append(segs, cur)
				cur = ""
			}
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		segs = append(segs, cur)
	}
	return Path(segs)
}

func scalarSpace() *hdf5.Dataspace {
	s, _ := hdf5.CreateDataspace(hdf5.S_SCALAR, nil, nil)
	return s
}

// encodeAttr maps a Go scalar attribute value to its HDF5 native type and
// raw representation. Complex numbers are written as a two-component
// float64 pair per spec.md §4.2 ("complex as two-component").
func encodeAttr(value any) (*hdf5.Datatype, []uint, any, error) {
	switch v := value.(type) {
	case bool:
		i := int32(0)
		if v {
			i = 1
		}
		return hdf5.T_NATIVE_INT, nil, i, nil
	case int64:
		return hdf5.T_NATIVE_LONG, nil, v, nil
	case float64:
		return hdf5.T_NATIVE_DOUBLE, nil, v, nil
	case complex128:
		pair := [2]float64{real(v), imag(v)}
		return hdf5.T_NATIVE_DOUBLE, []uint{2}, pair, nil
	case string:
		st, err := hdf5.NewDatatype(hdf5.T_GO_STRING)
		if err != nil {
			return nil, nil, nil, err
		}
		return st, nil, v, nil
	default:
		return nil, nil, nil, fmt.Errorf("container: unsupported attribute value %T", value)
	}
}

func decodeAttr(attr *hdf5.Attribute) (any, error) {
	dt, err := attr.GetType()
	if err != nil {
		return nil, err
	}
	defer dt.Close()

	switch {
	case dt.Equal(hdf5.T_NATIVE_INT):
		var i int32
		if err := attr.Read(&i); err != nil {
			return nil, err
		}
		return i != 0, nil
	case dt.Equal(hdf5.T_NATIVE_LONG):
		var i int64
		if err := attr.Read(&i); err != nil {
			return nil, err
		}
		return i, nil
	case dt.Equal(hdf5.T_NATIVE_DOUBLE):
		space, err := attr.GetSpace()
		if err != nil {
			return nil, err
		}
		dims, _, _ := space.SimpleExtentDims()
		space.Close()
		if len(dims) == 1 && dims[0] == 2 {
			var pair [2]float64
			if err := attr.Read(&pair); err != nil {
				return nil, err
			}
			return complex(pair[0], pair[1]), nil
		}
		var f float64
		if err := attr.Read(&f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		var s string
		if err := attr.Read(&s); err != nil {
			return nil, err
		}
		return s, nil
	}
}

func hdf5TypeFor(dtype DType, shape []int) (*hdf5.Datatype, []uint) {
	dims := make([]uint, len(shape))
	for i, v := range shape {
		dims[i] = uint(v)
	}
	switch dtype {
	case DTypeFloat64:
		return hdf5.T_NATIVE_DOUBLE, dims
	case DTypeInt64:
		return hdf5.T_NATIVE_LONG, dims
	case DTypeComplex128:
		// stored as trailing size-2 float64 component dimension
		return hdf5.T_NATIVE_DOUBLE, append(append([]uint{}, dims...), 2)
	case DTypeUTF8:
		t, _ := hdf5.NewDatatype(hdf5.T_GO_STRING)
		return t, dims
	default:
		return hdf5.T_NATIVE_UCHAR, dims
	}
}

func readDatasetBytes(ds *hdf5.Dataset, dtype DType, shape []int) ([]byte, error) {
	count := 1
	for _, d := range shape {
		count *= d
	}
	switch dtype {
	case DTypeFloat64:
		buf := make([]float64, count)
		if err := ds.Read(&buf); err != nil {
			return nil, err
		}
		return float64sToBytes(buf), nil
	case DTypeInt64:
		buf := make([]int64, count)
		if err := ds.Read(&buf); err != nil {
			return nil, err
		}
		return int64sToBytes(buf), nil
	case DTypeComplex128:
		buf := make([]float64, count*2)
		if err := ds.Read(&buf); err != nil {
			return nil, err
		}
		return float64sToBytes(buf), nil
	default:
		buf := make([]byte, count)
		if err := ds.Read(&buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
}

func float64sToBytes(fs []float64) []byte {
	out := make([]byte, len(fs)*8)
	for i, f := range fs {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(f))
	}
	return out
}

func int64sToBytes(is []int64) []byte {
	out := make([]byte, len(is)*8)
	for i, v := range is {
		binary.LittleEndian.PutUint64(out[i*8:], uint64(v))
	}
	return out
}
