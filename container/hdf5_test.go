package container_test

// These tests exercise hdf5Driver, the production Driver backed by
// gonum.org/v1/hdf5's cgo binding to libhdf5. They need the real libhdf5
// shared library present at build/link time; there is no pure-Go fallback
// for this file, unlike internal/testutil's memDriver used by the rest of
// the module's test suites.

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/h5it-go/h5it/container"
)

func tempFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.h5")
}

func TestCreate_RootGroupExists(t *testing.T) {
	path := tempFile(t)
	d, err := container.Create(path)
	require.NoError(t, err)
	defer d.Close()

	ok, err := d.Exists(container.Path{})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCreateGroup_AndExists(t *testing.T) {
	path := tempFile(t)
	d, err := container.Create(path)
	require.NoError(t, err)
	defer d.Close()

	p := container.Path{"h5it", "account"}
	require.NoError(t, d.CreateGroup(container.Path{"h5it"}))
	require.NoError(t, d.CreateGroup(p))

	ok, err := d.Exists(p)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = d.Exists(container.Path{"h5it", "nope"})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAttr_RoundTripsEachSupportedScalarKind(t *testing.T) {
	path := tempFile(t)
	d, err := container.Create(path)
	require.NoError(t, err)
	defer d.Close()

	p := container.Path{"h5it"}
	require.NoError(t, d.CreateGroup(p))
	cases := map[string]any{
		"flag":    true,
		"count":   int64(42),
		"ratio":   3.5,
		"phasor":  complex(1.0, -2.0),
		"type":    "account",
	}
	for key, val := range cases {
		require.NoError(t, d.SetAttr(p, key, val))
	}
	for key, want := range cases {
		got, ok, err := d.GetAttr(p, key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	_, ok, err := d.GetAttr(p, "absent")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDataset_RoundTripsBytesAndFloat64(t *testing.T) {
	path := tempFile(t)
	d, err := container.Create(path)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.CreateGroup(container.Path{"h5it"}))
	strPath := container.Path{"h5it", "name"}
	payload := []byte("hello")
	require.NoError(t, d.WriteDataset(strPath, container.DTypeUint8, []int{len(payload)}, payload, false))

	dtype, shape, data, err := d.ReadDataset(strPath)
	require.NoError(t, err)
	require.Equal(t, container.DTypeUint8, dtype)
	require.Equal(t, []int{len(payload)}, shape)
	require.Equal(t, payload, data)

	arrPath := container.Path{"h5it", "values"}
	raw := make([]byte, 8*3)
	for i := 0; i < 3; i++ {
		raw[i*8] = byte(i + 1)
	}
	require.NoError(t, d.WriteDataset(arrPath, container.DTypeFloat64, []int{3}, raw, true))

	dtype, shape, data, err = d.ReadDataset(arrPath)
	require.NoError(t, err)
	require.Equal(t, container.DTypeFloat64, dtype)
	require.Equal(t, []int{3}, shape)
	require.Equal(t, raw, data)
}

func TestSoftLink_ReadsBackTarget(t *testing.T) {
	path := tempFile(t)
	d, err := container.Create(path)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.CreateGroup(container.Path{"h5it"}))
	require.NoError(t, d.CreateGroup(container.Path{"h5it", "node"}))
	linkPath := container.Path{"h5it", "alias"}
	target := container.Path{"h5it", "node"}
	require.NoError(t, d.CreateSoftLink(linkPath, target))

	got, isLink, err := d.ReadLink(linkPath)
	require.NoError(t, err)
	require.True(t, isLink)
	require.Equal(t, target, got)

	_, isLink, err = d.ReadLink(container.Path{"h5it", "node"})
	require.NoError(t, err)
	require.False(t, isLink)
}

func TestListChildren_ReturnsAllNames(t *testing.T) {
	path := tempFile(t)
	d, err := container.Create(path)
	require.NoError(t, err)
	defer d.Close()

	root := container.Path{"h5it"}
	require.NoError(t, d.CreateGroup(root))
	require.NoError(t, d.CreateGroup(root.Child("00")))
	require.NoError(t, d.CreateGroup(root.Child("01")))
	require.NoError(t, d.CreateGroup(root.Child("02")))

	names, err := d.ListChildren(root)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"00", "01", "02"}, names)
}

func TestOpen_ReadsBackWhatCreateWrote(t *testing.T) {
	path := tempFile(t)
	d, err := container.Create(path)
	require.NoError(t, err)
	require.NoError(t, d.CreateGroup(container.Path{"h5it"}))
	require.NoError(t, d.CreateGroup(container.Path{"h5it", "thing"}))
	require.NoError(t, d.SetAttr(container.Path{"h5it", "thing"}, "type", "str"))
	require.NoError(t, d.Close())

	reopened, err := container.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	tag, ok, err := reopened.GetAttr(container.Path{"h5it", "thing"}, "type")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "str", tag)
}
