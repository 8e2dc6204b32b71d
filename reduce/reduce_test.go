package reduce

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/h5it-go/h5it/registry"
)

// ============================================================================
// Record.Validate
// ============================================================================

func TestRecord_Validate(t *testing.T) {
	cls := &registry.Symbol{Module: "app", Name: "Thing"}
	fn := &registry.Symbol{Module: "app", Name: "make"}

	require.NoError(t, Record{Cls: cls}.Validate())
	require.NoError(t, Record{Func: fn}.Validate())

	require.Error(t, Record{}.Validate(), "neither cls nor func is a protocol violation")
	require.Error(t, Record{Cls: cls, Func: fn}.Validate(), "both cls and func is a protocol violation")
}

// ============================================================================
// Reducer.Reduce precedence
// ============================================================================

type widget struct {
	Label string
	Count int
}

func TestReducer_Reduce_RegisteredKindWinsFirst(t *testing.T) {
	symbols := registry.NewSymbolTable()
	symbols.RegisterType("app", "widget", (*widget)(nil))
	r := New(symbols)

	called := false
	r.RegisterKind(reflect.TypeOf(widget{}), func(v any) (Record, error) {
		called = true
		return Record{Func: &registry.Symbol{Module: "app", Name: "rebuildWidget"}}, nil
	})

	rec, err := r.Reduce(widget{Label: "x", Count: 1})
	require.NoError(t, err)
	require.True(t, called, "a registered per-kind dispatcher must be tried before any other step")
	require.Equal(t, "rebuildWidget", rec.Func.Name)
}

func sampleGlobalFunc() {}

func TestReducer_Reduce_BareFunctionIsPureGlobal(t *testing.T) {
	symbols := registry.NewSymbolTable()
	symbols.RegisterFunc("app", "sampleGlobalFunc", sampleGlobalFunc)
	r := New(symbols)

	rec, err := r.Reduce(sampleGlobalFunc)
	require.NoError(t, err)
	require.True(t, rec.PureGlobal)
	require.Equal(t, "sampleGlobalFunc", rec.Func.Name)
}

type reducibleThing struct{ N int }

func (r reducibleThing) ReduceH5it() (Record, error) {
	return Record{
		Func: &registry.Symbol{Module: "app", Name: "makeReducibleThing"},
		Args: []any{r.N},
	}, nil
}

func TestReducer_Reduce_ReducibleHookTakesPrecedenceOverStructWalk(t *testing.T) {
	symbols := registry.NewSymbolTable()
	r := New(symbols)

	rec, err := r.Reduce(reducibleThing{N: 7})
	require.NoError(t, err)
	require.Equal(t, "makeReducibleThing", rec.Func.Name)
	require.Equal(t, []any{7}, rec.Args)
}

func TestReducer_Reduce_DefaultStructWalk(t *testing.T) {
	symbols := registry.NewSymbolTable()
	symbols.RegisterType("app", "widget", (*widget)(nil))
	r := New(symbols)

	rec, err := r.Reduce(widget{Label: "hello", Count: 3})
	require.NoError(t, err)
	require.Equal(t, "widget", rec.Cls.Name)
	require.True(t, rec.HasState)
	state := rec.State.(map[string]any)
	require.Equal(t, "hello", state["Label"])
	require.Equal(t, 3, state["Count"])
}

type unregistered struct{ X int }

func TestReducer_Reduce_UnregisteredStructIsUnreducible(t *testing.T) {
	symbols := registry.NewSymbolTable()
	r := New(symbols)

	_, err := r.Reduce(unregistered{X: 1})
	require.Error(t, err)
	require.IsType(t, &UnreducibleError{}, err)
}

func TestReducer_Reduce_NonStructNonGlobalIsUnreducible(t *testing.T) {
	symbols := registry.NewSymbolTable()
	r := New(symbols)

	_, err := r.Reduce(42)
	require.Error(t, err)
	require.IsType(t, &UnreducibleError{}, err)
}

type bag struct{ items []any }

func (b bag) ListItemsH5it() ([]any, error) { return b.items, nil }

func TestReducer_Reduce_ListItemsProviderContributesListItems(t *testing.T) {
	symbols := registry.NewSymbolTable()
	symbols.RegisterType("app", "bag", (*bag)(nil))
	r := New(symbols)

	rec, err := r.Reduce(bag{items: []any{1, 2, 3}})
	require.NoError(t, err)
	require.True(t, rec.HasListItems)
	require.Equal(t, []any{1, 2, 3}, rec.ListItems)
}

type table struct{ pairs [][2]any }

func (tb table) DictItemsH5it() ([][2]any, error) { return tb.pairs, nil }

func TestReducer_Reduce_DictItemsProviderContributesDictItems(t *testing.T) {
	symbols := registry.NewSymbolTable()
	symbols.RegisterType("app", "table", (*table)(nil))
	r := New(symbols)

	rec, err := r.Reduce(table{pairs: [][2]any{{"a", 1}, {"b", 2}}})
	require.NoError(t, err)
	require.True(t, rec.HasDictItems)
	require.Equal(t, [][2]any{{"a", 1}, {"b", 2}}, rec.DictItems)
}

type withPrivateField struct {
	Public  string
	private int
}

func TestReducer_Reduce_StructWalkSkipsUnexportedFields(t *testing.T) {
	symbols := registry.NewSymbolTable()
	symbols.RegisterType("app", "withPrivateField", (*withPrivateField)(nil))
	r := New(symbols)

	rec, err := r.Reduce(withPrivateField{Public: "x", private: 9})
	require.NoError(t, err)
	state := rec.State.(map[string]any)
	require.Equal(t, "x", state["Public"])
	_, ok := state["private"]
	require.False(t, ok, "unexported fields must never be captured as state")
}
