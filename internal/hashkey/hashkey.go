// Package hashkey derives the deterministic, hash-based child names
// spec.md §4.2 requires for set elements and non-textual mapping entries:
// "the child name is derived from a deterministic hash of the key/element
// rendered as a decimal string". Hash collisions on a single write are a
// fatal serialization error in the source this spec is adapted from;
// spec.md §9 requires implementations to instead append a disambiguator —
// this package is where that decision lives.
package hashkey

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Name renders v deterministically (its dynamic type plus its Go-syntax
// value) and hashes it with xxhash, returning the decimal string spec.md
// calls for.
func Name(v any) string {
	h := xxhash.Sum64String(fmt.Sprintf("%T:%#v", v, v))
	return strconv.FormatUint(h, 10)
}

// Disambiguate returns a name guaranteed not to collide with any name
// already in used. If base is free, it is returned unchanged (the common
// case, and the only case the source's tests ever exercise). On collision,
// a random UUID suffix is appended — chosen over a deterministic counter
// suffix so concurrent-looking writers racing on the same digest (which
// should never legitimately happen within one single-threaded save; see
// spec.md §5) can never produce the same disambiguated name either.
func Disambiguate(used map[string]bool, base string) string {
	if !used[base] {
		return base
	}
	for {
		candidate := base + "-" + uuid.NewString()
		if !used[candidate] {
			return candidate
		}
	}
}
