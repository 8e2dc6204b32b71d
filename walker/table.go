// Package walker implements the graph walker spec.md §4.2/§4.3 describes:
// the recursive export/import driver that performs type dispatch, tags
// each node, and maintains the identity memo and soft-link aliases.
package walker

import (
	"github.com/h5it-go/h5it/codec"
	"github.com/h5it-go/h5it/registry"
)

// NewDefaultTable builds the registry.Table h5it dispatches every export
// through: one Entry per leaf kind in spec.md §3's data model table, tried
// in the order listed. Order matters for Absent only: IsAbsent also
// accepts nil slices and maps, so a nil []any, Bytes, map[string]any,
// HashedMap or Set is written as NoneType. Every other Match is an exact
// type assertion and does not overlap with the rest.
func NewDefaultTable() *registry.Table {
	t := registry.NewTable()

	t.Register(registry.Entry{
		Tag: registry.TagNone, Kind: registry.KindAbsent,
		Match: codec.IsAbsent, Export: codec.ExportAbsent, Import: codec.ImportAbsent,
	})
	t.Register(registry.Entry{
		Tag: registry.TagBool, Kind: registry.KindBool,
		Match: codec.IsBool, Export: codec.ExportBool, Import: codec.ImportBool,
	})
	t.Register(registry.Entry{
		Tag: registry.TagNumber, Kind: registry.KindNumber,
		Match: codec.IsNumber, Export: codec.ExportNumber, Import: codec.ImportNumber,
	})
	t.Register(registry.Entry{
		Tag: registry.TagStr, Kind: registry.KindText,
		Match: codec.IsText, Export: codec.ExportText, Import: codec.ImportText,
	})
	t.Register(registry.Entry{
		Tag: registry.TagBytes, Kind: registry.KindBytes,
		Match: codec.IsBytes, Export: codec.ExportBytes, Import: codec.ImportBytes,
	})
	// py2_bytes is import-only: new files always write "bytes", per
	// spec.md §9's resolution of the source's two-tag inconsistency.
	t.RegisterImportOnly(registry.TagPy2Bytes, registry.KindBytes, codec.ImportLegacyBytes)

	t.Register(registry.Entry{
		Tag: registry.TagList, Kind: registry.KindList,
		Match: codec.IsList, Export: codec.ExportList, Import: codec.ImportList,
	})
	t.Register(registry.Entry{
		Tag: registry.TagTuple, Kind: registry.KindTuple,
		Match: codec.IsTuple, Export: codec.ExportTuple, Import: codec.ImportTuple,
	})
	t.Register(registry.Entry{
		Tag: registry.TagDict, Kind: registry.KindDictTextKeys,
		Match: codec.IsDictTextKeys, Export: codec.ExportDictTextKeys, Import: codec.ImportDictTextKeys,
	})
	// HashedMap is Go's analogue of a dict with non-string keys — the
	// source always writes tag "dict" for both and disambiguates on load by
	// inspecting child names. Since Lookup/ImporterFor dispatch by exact Go
	// type and by the tag actually stored on disk (not by inspecting
	// children), h5it keeps it distinguishable with its own private tag
	// instead of replicating that probe.
	t.Register(registry.Entry{
		Tag: tagDictHashed, Kind: registry.KindDictHashed,
		Match: codec.IsDictHashed, Export: codec.ExportDictHashed, Import: codec.ImportDictHashed,
	})
	t.Register(registry.Entry{
		Tag: registry.TagSet, Kind: registry.KindSet,
		Match: codec.IsSet, Export: codec.ExportSet, Import: codec.ImportSet,
	})
	t.Register(registry.Entry{
		Tag: registry.TagArray, Kind: registry.KindArray,
		Match: codec.IsArray, Export: codec.ExportArray, Import: codec.ImportArray,
	})
	t.Register(registry.Entry{
		Tag: registry.TagPathPosix, Kind: registry.KindPathPosix,
		Match: codec.IsPosixPath, Export: codec.ExportPosixPath, Import: codec.ImportPosixPath,
	})
	t.Register(registry.Entry{
		Tag: registry.TagPathWindows, Kind: registry.KindPathWindows,
		Match: codec.IsWindowsPath, Export: codec.ExportWindowsPath, Import: codec.ImportWindowsPath,
	})
	t.Register(registry.Entry{
		Tag: registry.TagGlobal, Kind: registry.KindGlobal,
		Match: codec.IsGlobal, Export: codec.ExportGlobal, Import: codec.ImportGlobal,
	})
	return t
}

// tagDictHashed is the on-disk tag HashedMap writes. spec.md §6 lists both
// dict variants under the single "dict" tag family; h5it keeps them
// distinguishable on disk (so ImporterFor can pick the right importer
// without first inspecting children) by writing distinct tag strings and
// treating both as "dict" at the data-model level described in spec.md §3.
const tagDictHashed registry.Tag = "dict_hashed"
