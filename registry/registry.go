// Package registry holds the statically built, read-only-after-init tables
// the rest of h5it dispatches through: the kind/tag classification used by
// the graph walker (spec.md §4.1), and the module/name symbol table used by
// the reduction subsystem to resolve and describe global symbols
// (spec.md §1's "module/name resolver" external collaborator).
package registry

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/h5it-go/h5it/container"
)

// Kind is the exact runtime kind of a value recognized by the core
// registry. Subtypes of a recognized kind do not match here — spec.md
// §4.1: "Lookup is by exact runtime kind of a value; there is no subtype
// polymorphism at this layer".
type Kind int

const (
	KindUnknown Kind = iota
	KindAbsent
	KindBool
	KindNumber
	KindText
	KindBytes
	KindList
	KindTuple
	KindDictTextKeys
	KindDictHashed
	KindSet
	KindArray
	KindPathPosix
	KindPathWindows
	KindGlobal
)

// Tag is the short ASCII string stored in a node's "type" attribute,
// exactly as spec.md §6 enumerates.
type Tag string

const (
	TagList        Tag = "list"
	TagTuple       Tag = "tuple"
	TagDict        Tag = "dict"
	TagSet         Tag = "set"
	TagArray       Tag = "ndarray"
	TagNone        Tag = "NoneType"
	TagStr         Tag = "str"
	TagBytes       Tag = "bytes"
	TagPy2Bytes    Tag = "py2_bytes" // legacy, import-only; see spec.md §9
	TagBool        Tag = "bool"
	TagGlobal      Tag = "global"
	TagNumber      Tag = "Number"
	TagPathPosix   Tag = "pathlib.PosixPath"
	TagPathWindows Tag = "pathlib.WindowsPath"
	TagReduction   Tag = "reduction"
)

// EncodingPolicy selects how legacy byte-string datasets (tag py2_bytes)
// are decoded on load, per spec.md §4.5/§6.
type EncodingPolicy int

const (
	EncodingDefault EncodingPolicy = iota // legacy tag decoded as ASCII text
	EncodingASCII
	EncodingBytes
)

// ParseEncoding validates a caller-supplied encoding name against the
// allowed set, failing with the exact wording spec.md §6 requires.
func ParseEncoding(name string) (EncodingPolicy, error) {
	switch name {
	case "", "ASCII":
		return EncodingASCII, nil
	case "bytes":
		return EncodingBytes, nil
	default:
		return EncodingDefault, fmt.Errorf("unpickling error — invalid encoding %q", name)
	}
}

// Exporter writes v as a fresh node at "at". Implementations never need to
// handle aliasing or the "type" attribute themselves — Context.ExportValue
// (the walker) does both around the call.
type Exporter func(ctx Context, v any, at container.Path) error

// Importer reads back the node at "at" (whose tag selected it) and returns
// the reconstructed value. Implementations that support cycles (currently
// only the reduction importer) must call ctx.PreMemo before recursing into
// children that might reference the enclosing value.
type Importer func(ctx Context, at container.Path) (any, error)

// Context is what an Exporter/Importer is given to recurse and to reach the
// container. It is implemented by walker.State; defining it here (rather
// than importing the walker package) keeps registry free of a dependency
// cycle — walker depends on registry, not the other way around.
type Context interface {
	Driver() container.Driver
	ExportValue(v any, at container.Path) error
	ImportValue(at container.Path) (any, error)

	// PreMemo records a provisional result for "at" before recursing into
	// its children, enabling the cycle-through-instance-state case spec.md
	// §4.3 describes.
	PreMemo(at container.Path, placeholder any)

	Encoding() EncodingPolicy
	Logger() *zap.SugaredLogger
	Symbols() *SymbolTable
}

// Entry binds one value kind to its tag, exact-match predicate, exporter,
// and importer — the single collapsed table spec.md's Design Notes
// ("Dispatch-table duality") call for, in place of the three separate
// kind→tag / kind→exporter / tag→importer tables the original keeps.
type Entry struct {
	Tag     Tag
	Kind    Kind
	Match   func(v any) bool
	Export  Exporter
	Import  Importer
}

// Table is the statically built, read-only-after-init type registry
// (spec.md §4.1).
type Table struct {
	entries []Entry
	byTag   map[Tag]Entry
}

// NewTable builds an empty table. Use Register to populate it; see
// walker.NewDefaultTable for the table h5it actually dispatches through.
func NewTable() *Table {
	return &Table{byTag: make(map[Tag]Entry)}
}

// Register adds an entry. Entries are tried, on export, in registration
// order; the first whose Match returns true wins. Register panics on a
// duplicate tag — that is a programming error, not a runtime condition.
func (t *Table) Register(e Entry) {
	if _, dup := t.byTag[e.Tag]; dup {
		panic(fmt.Sprintf("registry: duplicate tag %q", e.Tag))
	}
	t.entries = append(t.entries, e)
	t.byTag[e.Tag] = e
}

// RegisterImportOnly adds a tag whose importer is consulted on load but
// which never wins on export (e.g. the legacy py2_bytes tag, which new
// files never write — spec.md §9).
func (t *Table) RegisterImportOnly(tag Tag, kind Kind, imp Importer) {
	if _, dup := t.byTag[tag]; dup {
		panic(fmt.Sprintf("registry: duplicate tag %q", tag))
	}
	t.byTag[tag] = Entry{Tag: tag, Kind: kind, Import: imp}
}

// Lookup returns the first entry whose Match accepts v, in registration order.
func (t *Table) Lookup(v any) (Entry, bool) {
	for _, e := range t.entries {
		if e.Match(v) {
			return e, true
		}
	}
	return Entry{}, false
}

// ImporterFor returns the importer registered for tag.
func (t *Table) ImporterFor(tag Tag) (Importer, bool) {
	e, ok := t.byTag[tag]
	if !ok || e.Import == nil {
		return nil, false
	}
	return e.Import, true
}
