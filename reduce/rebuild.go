package reduce

import (
	"fmt"
	"reflect"

	"github.com/h5it-go/h5it/codec"
	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/registry"
)

// Import is spec.md §4.3/§4.4's reduction importer: it resolves the
// class/function via the symbol table, allocates an empty shell and
// pre-memoizes it *before* recursing into state (so a field that refers
// back to the enclosing instance resolves to the just-constructed shell —
// spec.md §4.3's cycle-handling rule), then applies state/listitems/dictitems.
func (r *Reducer) Import(ctx registry.Context, at container.Path) (any, error) {
	// A reduction node that is actually a bare global (spec.md §4.3 step
	// "if the tag is reduction, dispatch to the reduction importer" only
	// ever sees this shape when Export wrote PureGlobal through the
	// Global codec directly, so this path is reached only for genuine
	// cls/func reduction nodes).
	if mod, ok, err := ctx.Driver().GetAttr(at, attrClsModule); err != nil {
		return nil, err
	} else if ok {
		name, _, err := ctx.Driver().GetAttr(at, attrClsName)
		if err != nil {
			return nil, err
		}
		return r.importClass(ctx, at, registry.Symbol{Module: mod.(string), Name: name.(string)})
	}

	if mod, ok, err := ctx.Driver().GetAttr(at, attrFuncModule); err != nil {
		return nil, err
	} else if ok {
		name, _, err := ctx.Driver().GetAttr(at, attrFuncName)
		if err != nil {
			return nil, err
		}
		return r.importFunc(ctx, at, registry.Symbol{Module: mod.(string), Name: name.(string)})
	}

	return nil, &ProtocolError{Reason: fmt.Sprintf(
		"reduction node at %s has neither cls nor func constructor attributes", at)}
}

func (r *Reducer) importClass(ctx registry.Context, at container.Path, sym registry.Symbol) (any, error) {
	rt, ok := r.symbols.ResolveType(sym)
	if !ok {
		return nil, fmt.Errorf("unpickling error — unknown class %s: %w", sym, registry.ErrSymbolNotFound)
	}

	shell := reflect.New(rt) // the "allocate_without_init" shell
	ctx.PreMemo(at, shell.Interface())

	if err := r.applyChildren(ctx, at, shell.Interface(), shell); err != nil {
		return nil, err
	}
	return shell.Interface(), nil
}

func (r *Reducer) importFunc(ctx registry.Context, at container.Path, sym registry.Symbol) (any, error) {
	fn, ok := r.symbols.ResolveFunc(sym)
	if !ok {
		return nil, fmt.Errorf("unpickling error — unknown function %s: %w", sym, registry.ErrSymbolNotFound)
	}

	args, err := r.importArgs(ctx, at)
	if err != nil {
		return nil, err
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = reflect.ValueOf(a)
	}
	out := fn.Call(in)
	var result any
	if len(out) > 0 {
		result = out[0].Interface()
	}
	ctx.PreMemo(at, result)
	// The returned object takes state, listitems and dictitems the same way
	// a class shell does; state is installed only if the object supports it
	// (a StateSetter, or a pointer to a struct).
	if err := r.applyChildren(ctx, at, result, reflect.ValueOf(result)); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Reducer) importArgs(ctx registry.Context, at container.Path) ([]any, error) {
	v, err := ctx.ImportValue(at.Child(childArgs))
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case codec.Tuple:
		return []any(t), nil
	case []any:
		return t, nil
	default:
		return nil, nil
	}
}

func childExists(ctx registry.Context, at container.Path, name string) (bool, error) {
	return ctx.Driver().Exists(at.Child(name))
}

func (r *Reducer) applyChildren(ctx registry.Context, at container.Path, obj any, rv reflect.Value) error {
	if ok, err := childExists(ctx, at, childState); err != nil {
		return err
	} else if ok {
		state, err := ctx.ImportValue(at.Child(childState))
		if err != nil {
			return err
		}
		if err := applyState(obj, rv, state); err != nil {
			return err
		}
	}

	if ok, err := childExists(ctx, at, childListItems); err != nil {
		return err
	} else if ok {
		items, err := ctx.ImportValue(at.Child(childListItems))
		if err != nil {
			return err
		}
		if err := applyListItems(obj, items); err != nil {
			return err
		}
	}

	if ok, err := childExists(ctx, at, childDictItems); err != nil {
		return err
	} else if ok {
		items, err := ctx.ImportValue(at.Child(childDictItems))
		if err != nil {
			return err
		}
		if err := applyDictItems(obj, items); err != nil {
			return err
		}
	}
	return nil
}

// applyState implements spec.md §4.4's rebuild precedence: prefer a
// user-defined state setter; otherwise, if state is a 2-tuple (dict
// state, slot state) apply both; otherwise, if state is a mapping, install
// its entries into the instance's exported fields.
func applyState(obj any, rv reflect.Value, state any) error {
	if setter, ok := obj.(StateSetter); ok {
		return setter.SetState(state)
	}

	switch s := state.(type) {
	case codec.Tuple:
		if len(s) == 2 {
			if err := setFields(rv, s[0]); err != nil {
				return err
			}
			return setFields(rv, s[1])
		}
		return setFields(rv, state)
	default:
		return setFields(rv, state)
	}
}

func setFields(rv reflect.Value, state any) error {
	m, ok := state.(map[string]any)
	if !ok {
		if state == nil {
			return nil
		}
		return fmt.Errorf("unpickling error — state is not a textually-keyed mapping: %T", state)
	}
	elem := rv
	for elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("unpickling error — cannot install state into non-struct %s", elem.Kind())
	}
	for k, v := range m {
		f := elem.FieldByName(k)
		if !f.IsValid() || !f.CanSet() {
			continue // unknown/unexported field: class evolution tolerance, per spec.md §1
		}
		setField(f, v)
	}
	return nil
}

func setField(f reflect.Value, v any) {
	if v == nil {
		return
	}
	val := reflect.ValueOf(v)
	if val.Type().AssignableTo(f.Type()) {
		f.Set(val)
		return
	}
	if val.Type().ConvertibleTo(f.Type()) {
		f.Set(val.Convert(f.Type()))
	}
}

func applyListItems(obj any, items any) error {
	app, ok := obj.(Appender)
	seq := asAnySlice(items)
	if len(seq) == 0 {
		return nil
	}
	if !ok {
		return fmt.Errorf("unpickling error — %T does not support listitems", obj)
	}
	for _, item := range seq {
		if err := app.AppendH5it(item); err != nil {
			return err
		}
	}
	return nil
}

func applyDictItems(obj any, items any) error {
	setter, ok := obj.(ItemSetter)
	seq := asAnySlice(items)
	if len(seq) == 0 {
		return nil
	}
	if !ok {
		return fmt.Errorf("unpickling error — %T does not support dictitems", obj)
	}
	for _, pair := range seq {
		k, v, err := asKV(pair)
		if err != nil {
			return err
		}
		if err := setter.SetItemH5it(k, v); err != nil {
			return err
		}
	}
	return nil
}

func asAnySlice(v any) []any {
	switch t := v.(type) {
	case codec.Tuple:
		return []any(t)
	case []any:
		return t
	default:
		return nil
	}
}

func asKV(v any) (key, value any, err error) {
	seq := asAnySlice(v)
	if len(seq) != 2 {
		return nil, nil, fmt.Errorf("unpickling error — dictitems entry is not a 2-tuple: %T", v)
	}
	return seq[0], seq[1], nil
}
