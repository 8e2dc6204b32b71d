package registry

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type widget struct{ Name string }

func greetSymbol(name string) string { return "hello " + name }

func TestSymbolTable_RegisterAndResolveType(t *testing.T) {
	tab := NewSymbolTable()
	tab.RegisterType("app", "Widget", (*widget)(nil))

	rt, ok := tab.ResolveType(Symbol{Module: "app", Name: "Widget"})
	require.True(t, ok)
	require.Equal(t, "widget", rt.Name())

	sym, ok := tab.DescribeType(rt)
	require.True(t, ok)
	require.Equal(t, Symbol{Module: "app", Name: "Widget"}, sym)
}

func TestSymbolTable_RegisterAndResolveFunc(t *testing.T) {
	tab := NewSymbolTable()
	tab.RegisterFunc("app", "greet", greetSymbol)

	fn, ok := tab.ResolveFunc(Symbol{Module: "app", Name: "greet"})
	require.True(t, ok)
	out := fn.Call([]reflect.Value{reflect.ValueOf("world")})
	require.Equal(t, "hello world", out[0].String())

	sym, ok := tab.DescribeFunc(fn)
	require.True(t, ok)
	require.Equal(t, Symbol{Module: "app", Name: "greet"}, sym)
}

func TestSymbolTable_UnknownSymbolNotFound(t *testing.T) {
	tab := NewSymbolTable()
	_, ok := tab.ResolveType(Symbol{Module: "x", Name: "y"})
	require.False(t, ok)
}

func TestSymbol_String(t *testing.T) {
	require.Equal(t, "app.Widget", Symbol{Module: "app", Name: "Widget"}.String())
}

func TestRegisterType_RequiresPointer(t *testing.T) {
	require.Panics(t, func() {
		RegisterType("app", "bad", widget{})
	})
}
