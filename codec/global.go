package codec

import (
	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/registry"
)

// IsGlobal matches exactly registry.Symbol — a first-class reference to a
// registered type or function encountered as an ordinary value (spec.md
// §4.4 step 2/3's "global symbol" degenerate reduction).
func IsGlobal(v any) bool {
	_, ok := v.(registry.Symbol)
	return ok
}

const (
	moduleAttr = "module"
	nameAttr   = "name"
)

// ExportGlobal writes the empty-group-plus-attributes representation
// spec.md's data model table assigns to the Global symbol kind.
func ExportGlobal(ctx registry.Context, v any, at container.Path) error {
	sym := v.(registry.Symbol)
	if err := ctx.Driver().CreateGroup(at); err != nil {
		return err
	}
	if err := ctx.Driver().SetAttr(at, moduleAttr, sym.Module); err != nil {
		return err
	}
	return ctx.Driver().SetAttr(at, nameAttr, sym.Name)
}

// ImportGlobal reads back a global-symbol node.
func ImportGlobal(ctx registry.Context, at container.Path) (any, error) {
	mod, ok, err := ctx.Driver().GetAttr(at, moduleAttr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, missingAttr(at, moduleAttr)
	}
	name, ok, err := ctx.Driver().GetAttr(at, nameAttr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, missingAttr(at, nameAttr)
	}
	return registry.Symbol{Module: mod.(string), Name: name.(string)}, nil
}
