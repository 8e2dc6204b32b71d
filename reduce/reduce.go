package reduce

import (
	"reflect"

	"github.com/h5it-go/h5it/registry"
)

// Reducible is the "extended reduction hook" spec.md §4.4 step 3
// describes, collapsed (Go has no old-style/new-style class split, so
// there is only one hook, not a basic/extended pair) into a single
// interface a user type can implement to take full control of its own
// decomposition.
type Reducible interface {
	ReduceH5it() (Record, error)
}

// StateProvider is the "user-defined state setter" spec.md §4.4's
// rebuilding rules prefer over the default dict/slot state handling.
// GetState is consulted on save, SetState on load; a type may implement
// either, both, or neither.
type StateProvider interface {
	GetState() (any, error)
}

// StateSetter is the inverse of StateProvider.
type StateSetter interface {
	SetState(any) error
}

// ListItemsProvider lets a reducible container-like value contribute a
// listitems sequence (spec.md §4.4's "append each in order").
type ListItemsProvider interface {
	ListItemsH5it() ([]any, error)
}

// DictItemsProvider is ListItemsProvider's dict-items counterpart.
type DictItemsProvider interface {
	DictItemsH5it() ([][2]any, error)
}

// Appender is the rebuild-side counterpart of ListItemsProvider.
type Appender interface {
	AppendH5it(v any) error
}

// ItemSetter is the rebuild-side counterpart of DictItemsProvider.
type ItemSetter interface {
	SetItemH5it(key, value any) error
}

// KindReducer is the extensibility point spec.md's Design Notes call for:
// "User extensibility migrates from ad-hoc class lookup into an explicit
// Reducer trait registered against a type identifier."
type KindReducer func(v any) (Record, error)

// Reducer implements spec.md §4.4: the fallback taken whenever the walker
// finds no exact-kind match in the type registry. It holds the per-type
// dispatcher table (precedence step 1) and the symbol table used to
// resolve/describe classes and functions.
type Reducer struct {
	symbols  *registry.SymbolTable
	dispatch map[reflect.Type]KindReducer
}

// New builds a Reducer over the given symbol table.
func New(symbols *registry.SymbolTable) *Reducer {
	return &Reducer{symbols: symbols, dispatch: make(map[reflect.Type]KindReducer)}
}

// RegisterKind installs a per-kind dispatcher, consulted before any of
// Reduce's other precedence steps (spec.md §4.4 step 1).
func (r *Reducer) RegisterKind(t reflect.Type, fn KindReducer) {
	r.dispatch[t] = fn
}

// Reduce obtains a Record from a live value, following spec.md §4.4's
// precedence exactly:
//  1. a registered per-kind dispatcher
//  2. a registered global (type or bare function) encountered directly
//  3. the value's Reducible hook
//  4. the default struct-field walk (the "basic reduction hook")
//  5. failure
func (r *Reducer) Reduce(v any) (Record, error) {
	rv := reflect.ValueOf(v)
	rt := derefType(rv)

	if fn, ok := r.dispatch[rt]; ok {
		return fn(v)
	}

	if sym, ok := r.describeGlobal(rv); ok {
		return Record{Func: &sym, PureGlobal: true}, nil
	}

	if hook, ok := v.(Reducible); ok {
		rec, err := hook.ReduceH5it()
		if err != nil {
			return Record{}, err
		}
		return rec, rec.Validate()
	}

	return r.reduceDefault(v, rv, rt)
}

// describeGlobal implements spec.md §4.4 step 2: a class-like value (a
// reflect.Type registered with RegisterType) or a registered bare function
// encountered directly (not wrapped in registry.Symbol — those are
// classified as the Global kind before reduction is ever reached) is
// captured as a degenerate global reference.
func (r *Reducer) describeGlobal(rv reflect.Value) (registry.Symbol, bool) {
	if rv.Kind() == reflect.Func {
		if sym, ok := r.symbols.DescribeFunc(rv); ok {
			return sym, true
		}
	}
	if t, ok := rv.Interface().(reflect.Type); ok {
		if sym, ok := r.symbols.DescribeType(t); ok {
			return sym, true
		}
	}
	return registry.Symbol{}, false
}

// reduceDefault is the "basic reduction hook" fallback: resolve the
// concrete type as a registered class, take state from StateProvider if
// present or else every exported struct field, and append any
// ListItems/DictItemsProvider contributions.
func (r *Reducer) reduceDefault(v any, rv reflect.Value, rt reflect.Type) (Record, error) {
	if rt == nil || rt.Kind() != reflect.Struct {
		return Record{}, &UnreducibleError{Type: rt}
	}
	sym, ok := r.symbols.DescribeType(rt)
	if !ok {
		return Record{}, &UnreducibleError{Type: rt}
	}

	rec := Record{Cls: &sym}

	state, err := structState(v, rv)
	if err != nil {
		return Record{}, err
	}
	rec.HasState = true
	rec.State = state

	if lp, ok := v.(ListItemsProvider); ok {
		items, err := lp.ListItemsH5it()
		if err != nil {
			return Record{}, err
		}
		rec.HasListItems = true
		rec.ListItems = items
	}
	if dp, ok := v.(DictItemsProvider); ok {
		items, err := dp.DictItemsH5it()
		if err != nil {
			return Record{}, err
		}
		rec.HasDictItems = true
		rec.DictItems = items
	}

	return rec, nil
}

// structState returns the instance's state per spec.md §4.4: the
// StateProvider hook if present, otherwise every exported field keyed by
// name (the Go analogue of installing an instance's __dict__ entries).
func structState(v any, rv reflect.Value) (any, error) {
	if sp, ok := v.(StateProvider); ok {
		return sp.GetState()
	}
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return map[string]any{}, nil
		}
		rv = rv.Elem()
	}
	rt := rv.Type()
	state := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		state[f.Name] = rv.Field(i).Interface()
	}
	return state, nil
}

func derefType(rv reflect.Value) reflect.Type {
	t := rv.Type()
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// UnreducibleError reports a value with no matching hook that is not a
// registered type — spec.md §4.4 step 5 / §7's "cannot reduce".
type UnreducibleError struct {
	Type reflect.Type
}

func (e *UnreducibleError) Error() string {
	if e.Type == nil {
		return "serialization error — cannot reduce value of unknown type"
	}
	return "serialization error — cannot reduce value of type " + e.Type.String()
}
