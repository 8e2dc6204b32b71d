package reduce

import (
	"github.com/h5it-go/h5it/codec"
	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/registry"
)

const (
	attrClsModule  = "cls_module"
	attrClsName    = "cls_name"
	attrFuncModule = "func_module"
	attrFuncName   = "func_name"
	attrVersion    = "h5it_version"

	// version is the single monotonic version attribute spec.md §1's
	// Non-goals call for (recorded, never used to drive migration).
	version = int64(1)

	childArgs       = "args"
	childState      = "state"
	childListItems  = "listitems"
	childDictItems  = "dictitems"
)

// Export writes a Record as spec.md §4.4's "Emitting the record" describes:
// a group with the constructor attributes, a child "args" sequence, and
// optional "state"/"listitems"/"dictitems" children. It returns the tag the
// walker should stamp on the node: "reduction" for a genuine cls/func
// record, or "global" for the step-2 degenerate case, which is written in
// the global kind's own format and must be tagged to match so the importer
// dispatches to codec.ImportGlobal rather than reduce.Import.
func (r *Reducer) Export(ctx registry.Context, v any, at container.Path) (registry.Tag, error) {
	rec, err := r.Reduce(v)
	if err != nil {
		return "", err
	}
	if err := rec.Validate(); err != nil {
		return "", err
	}

	if rec.PureGlobal {
		return registry.TagGlobal, codec.ExportGlobal(ctx, *rec.Func, at)
	}

	if err := ctx.Driver().CreateGroup(at); err != nil {
		return "", err
	}
	if err := ctx.Driver().SetAttr(at, attrVersion, version); err != nil {
		return "", err
	}

	if rec.Cls != nil {
		if err := ctx.Driver().SetAttr(at, attrClsModule, rec.Cls.Module); err != nil {
			return "", err
		}
		if err := ctx.Driver().SetAttr(at, attrClsName, rec.Cls.Name); err != nil {
			return "", err
		}
	} else {
		if err := ctx.Driver().SetAttr(at, attrFuncModule, rec.Func.Module); err != nil {
			return "", err
		}
		if err := ctx.Driver().SetAttr(at, attrFuncName, rec.Func.Name); err != nil {
			return "", err
		}
	}

	// args is written as a list, per spec.md §6: "children args (list)".
	if err := ctx.ExportValue([]any(rec.Args), at.Child(childArgs)); err != nil {
		return "", err
	}

	if rec.HasState {
		if err := ctx.ExportValue(rec.State, at.Child(childState)); err != nil {
			return "", err
		}
	}
	if rec.HasListItems {
		if err := ctx.ExportValue([]any(rec.ListItems), at.Child(childListItems)); err != nil {
			return "", err
		}
	}
	if rec.HasDictItems {
		// Always a sequence of 2-tuples, per spec.md §9's resolution of
		// the writer/reader dictitems mismatch in the source.
		pairs := make([]any, len(rec.DictItems))
		for i, kv := range rec.DictItems {
			pairs[i] = codec.Tuple{kv[0], kv[1]}
		}
		if err := ctx.ExportValue(pairs, at.Child(childDictItems)); err != nil {
			return "", err
		}
	}
	return registry.TagReduction, nil
}
