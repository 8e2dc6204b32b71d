package walker

import "reflect"

// identityKey returns the in-memory address spec.md §4.2/§5 memoizes by,
// or (0, false) for values with no stable address (plain scalars, strings,
// bools) — those can never alias or cycle, so they are simply not memoized.
func identityKey(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	case reflect.Slice:
		if rv.IsNil() || rv.Len() == 0 {
			// a zero-length slice shares Go's canonical empty-slice
			// address across unrelated values; memoizing it would alias
			// unrelated empty collections together.
			return 0, false
		}
		return rv.Pointer(), true
	default:
		return 0, false
	}
}
