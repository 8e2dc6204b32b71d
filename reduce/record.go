// Package reduce implements the reduction subsystem spec.md §4.4
// describes: the fallback that decomposes a user-defined instance or
// registered global symbol into a portable Record, and the inverse that
// rebuilds the instance. It is the adapted reduce/rebuild handshake
// spec.md §1 calls "the hard engineering" of the core.
package reduce

import (
	"github.com/h5it-go/h5it/registry"
)

// Record is the portable reduction record spec.md §4.4 defines: exactly
// one of a class or function constructor descriptor, a positional
// argument tuple, and optional state/listitems/dictitems.
type Record struct {
	Cls  *registry.Symbol // reconstruct via allocate-without-init + SetState
	Func *registry.Symbol // reconstruct by calling the function with Args

	// PureGlobal marks a record produced by spec.md §4.4 step 2: Func
	// names a bare symbol encountered directly, not a constructor to
	// invoke. Export writes it in the global kind's format, so loading it
	// yields a registry.Symbol; the symbol is never called.
	PureGlobal bool

	Args []any

	HasState bool
	State    any

	HasListItems bool
	ListItems    []any

	// DictItems is always a sequence of 2-tuples (key, value), per spec.md
	// §9's resolution of the "writer sometimes emits dictitems as a bare
	// list" bug: the [2]any element type makes every entry a pair, and
	// Export writes each one as a codec.Tuple of length 2.
	HasDictItems bool
	DictItems    [][2]any
}

// Validate enforces spec.md §3's invariant that a reduction record carries
// exactly one of the constructor pairs.
func (r Record) Validate() error {
	if (r.Cls == nil) == (r.Func == nil) {
		return &ProtocolError{Reason: "reduction record must have exactly one of cls or func"}
	}
	return nil
}

// ProtocolError reports a reduction protocol violation — an unsupported
// extension, an ambiguous constructor pair, or (on load) a reduction node
// missing both constructor attribute pairs (spec.md §7).
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "serialization error — " + e.Reason }
