package walker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/h5it-go/h5it/codec"
	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/internal/testutil"
	"github.com/h5it-go/h5it/registry"
	"github.com/h5it-go/h5it/walker"
)

func roundTrip(t *testing.T, symbols *registry.SymbolTable, v any) any {
	t.Helper()
	driver := testutil.NewMemDriver()
	table := walker.NewDefaultTable()
	require.NoError(t, walker.Export(driver, table, symbols, nil, v))
	got, err := walker.Import(driver, table, symbols, registry.EncodingASCII, nil)
	require.NoError(t, err)
	return got
}

// ============================================================================
// Scalars, text, bytes
// ============================================================================

func TestRoundTrip_Scalars(t *testing.T) {
	symbols := registry.NewSymbolTable()

	require.Equal(t, true, roundTrip(t, symbols, true))
	require.Equal(t, "hello", roundTrip(t, symbols, "hello"))
	require.Equal(t, int64(42), roundTrip(t, symbols, 42))
	require.Equal(t, 3.5, roundTrip(t, symbols, 3.5))
	require.Nil(t, roundTrip(t, symbols, nil))
}

func TestRoundTrip_Bytes(t *testing.T) {
	symbols := registry.NewSymbolTable()
	got := roundTrip(t, symbols, codec.Bytes("raw\x00bytes"))
	require.Equal(t, codec.Bytes("raw\x00bytes"), got)
}

// ============================================================================
// Sequences and mappings
// ============================================================================

func TestRoundTrip_List(t *testing.T) {
	symbols := registry.NewSymbolTable()
	got := roundTrip(t, symbols, []any{1, "two", 3.0})
	require.Equal(t, []any{int64(1), "two", 3.0}, got)
}

func TestRoundTrip_Tuple(t *testing.T) {
	symbols := registry.NewSymbolTable()
	got := roundTrip(t, symbols, codec.Tuple{1, 2})
	require.Equal(t, codec.Tuple{int64(1), int64(2)}, got)
}

func TestRoundTrip_EmptyList(t *testing.T) {
	symbols := registry.NewSymbolTable()
	got := roundTrip(t, symbols, []any{})
	require.Equal(t, []any{}, got)
}

func TestRoundTrip_DictTextKeys(t *testing.T) {
	symbols := registry.NewSymbolTable()
	got := roundTrip(t, symbols, map[string]any{"a": 1, "b": "two"})
	require.Equal(t, map[string]any{"a": int64(1), "b": "two"}, got)
}

func TestRoundTrip_HashedMap(t *testing.T) {
	symbols := registry.NewSymbolTable()
	got := roundTrip(t, symbols, codec.HashedMap{1: "one", 2: "two"})
	require.Equal(t, codec.HashedMap{int64(1): "one", int64(2): "two"}, got)
}

func TestRoundTrip_Set(t *testing.T) {
	symbols := registry.NewSymbolTable()
	got := roundTrip(t, symbols, codec.Set{"a": {}, "b": {}})
	require.Equal(t, codec.Set{"a": {}, "b": {}}, got)
}

// ============================================================================
// Paths and arrays
// ============================================================================

func TestRoundTrip_PosixPath(t *testing.T) {
	symbols := registry.NewSymbolTable()
	got := roundTrip(t, symbols, codec.PosixPath("/etc/passwd"))
	require.Equal(t, codec.PosixPath("/etc/passwd"), got)
}

func TestRoundTrip_Array(t *testing.T) {
	symbols := registry.NewSymbolTable()
	arr, err := codec.NewFloat64Array([]int{2, 2}, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	got := roundTrip(t, symbols, arr).(codec.Array)
	floats, err := got.Float64s()
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 4}, floats)
	require.Equal(t, []int{2, 2}, got.Shape)
}

// ============================================================================
// Global symbols
// ============================================================================

func sampleHandler() {}

func TestRoundTrip_Global(t *testing.T) {
	symbols := registry.NewSymbolTable()
	symbols.RegisterFunc("testpkg", "sampleHandler", sampleHandler)

	got := roundTrip(t, symbols, registry.Symbol{Module: "testpkg", Name: "sampleHandler"})
	require.Equal(t, registry.Symbol{Module: "testpkg", Name: "sampleHandler"}, got)
}

func TestRoundTrip_BareFunctionReducesToGlobal(t *testing.T) {
	symbols := registry.NewSymbolTable()
	symbols.RegisterFunc("testpkg", "sampleHandler", sampleHandler)

	driver := testutil.NewMemDriver()
	table := walker.NewDefaultTable()
	require.NoError(t, walker.Export(driver, table, symbols, nil, sampleHandler))

	got, err := walker.Import(driver, table, symbols, registry.EncodingASCII, nil)
	require.NoError(t, err)
	require.Equal(t, registry.Symbol{Module: "testpkg", Name: "sampleHandler"}, got)
}

// ============================================================================
// Struct reduction
// ============================================================================

type account struct {
	Owner   string
	Balance int64
}

func TestRoundTrip_StructReduction(t *testing.T) {
	symbols := registry.NewSymbolTable()
	symbols.RegisterType("testpkg", "account", (*account)(nil))

	got := roundTrip(t, symbols, &account{Owner: "ada", Balance: 100})
	a, ok := got.(*account)
	require.True(t, ok)
	require.Equal(t, "ada", a.Owner)
	require.Equal(t, int64(100), a.Balance)
}

// ============================================================================
// Identity: aliasing and cycles
// ============================================================================

type node struct {
	Name string
	Next *node
}

func TestRoundTrip_SharedIdentity(t *testing.T) {
	symbols := registry.NewSymbolTable()
	symbols.RegisterType("testpkg", "node", (*node)(nil))

	shared := &node{Name: "shared"}
	pair := []any{shared, shared}

	got := roundTrip(t, symbols, pair).([]any)
	a := got[0].(*node)
	b := got[1].(*node)
	require.Same(t, a, b, "two references to the same object must resolve to the same reconstructed instance")
}

func TestRoundTrip_Cycle(t *testing.T) {
	symbols := registry.NewSymbolTable()
	symbols.RegisterType("testpkg", "node", (*node)(nil))

	a := &node{Name: "a"}
	a.Next = a // self-cycle

	got := roundTrip(t, symbols, a).(*node)
	require.Equal(t, "a", got.Name)
	require.Same(t, got, got.Next, "a self-referencing field must resolve back to the same reconstructed shell")
}

// ============================================================================
// Error paths
// ============================================================================

func TestImport_ListContiguityTampering(t *testing.T) {
	symbols := registry.NewSymbolTable()
	driver := testutil.NewMemDriver()
	table := walker.NewDefaultTable()
	require.NoError(t, walker.Export(driver, table, symbols, nil, []any{1, 2, 3}))

	// Break contiguity by aliasing a new, out-of-range index "05" to the
	// existing index "01": index 1 still has a node, but "05" is not a
	// valid index for a 3-element list, and "01" having two names at once
	// is not itself a problem the check is looking for.
	require.NoError(t, driver.CreateSoftLink(container.Path{"h5it", "05"}, container.Path{"h5it", "01"}))

	_, err := walker.Import(driver, table, symbols, registry.EncodingASCII, nil)
	require.Error(t, err)
	require.IsType(t, &codec.ContiguityError{}, err)
}

func TestImport_MissingNamespace(t *testing.T) {
	driver := testutil.NewMemDriver()
	table := walker.NewDefaultTable()
	symbols := registry.NewSymbolTable()
	_, err := walker.Import(driver, table, symbols, registry.EncodingASCII, nil)
	require.Error(t, err)
	require.IsType(t, &walker.MissingNamespaceError{}, err)
}

func TestImport_UnknownTag(t *testing.T) {
	driver := testutil.NewMemDriver()
	table := walker.NewDefaultTable()
	symbols := registry.NewSymbolTable()

	require.NoError(t, driver.CreateGroup([]string{"h5it"}))
	require.NoError(t, driver.SetAttr([]string{"h5it"}, "type", "not_a_real_tag"))

	_, err := walker.Import(driver, table, symbols, registry.EncodingASCII, nil)
	require.Error(t, err)
	require.IsType(t, &walker.UnknownTagError{}, err)
}
