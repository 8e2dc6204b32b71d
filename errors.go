package h5it

import (
	"fmt"

	"github.com/pkg/errors"
)

// SerializationError reports a failure while walking a live value graph for
// dump — an unreducible value or a protocol-level reduction feature that
// is not supported (spec.md §7's "Serialization error" list). Hash-name
// collisions on set/hashed-mapping children are not errors: they are
// disambiguated (see internal/hashkey).
type SerializationError struct {
	// Path is the node the failure occurred at, rendered with
	// container.Path.String(); kept as a plain string here so this package
	// does not need to import container just to report errors.
	Path string
	Tag  string
	Err  error
}

func (e *SerializationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("h5it: serialization error at %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("h5it: serialization error: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// DeserializationError reports a failure while materializing a container
// back into a value graph for load — a missing namespace group, a node
// lacking its type attribute, an unregistered tag, a non-contiguous list,
// an incomplete reduction node, or an invalid encoding policy (spec.md §7's
// "Deserialization error" list).
type DeserializationError struct {
	Path string
	Tag  string
	Err  error
}

func (e *DeserializationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("h5it: deserialization error at %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("h5it: deserialization error: %v", e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// wrapSave and wrapLoad adapt an underlying component error (container,
// codec, reduce, or registry) into the taxonomy's two public types,
// attaching a stack trace via github.com/pkg/errors. Errors from below
// this boundary arrive either unwrapped, wrapped with fmt.Errorf("%w", …)
// (codec, reduce), or wrapped with errors.Wrapf (container/hdf5.go).
func wrapSave(err error) error {
	if err == nil {
		return nil
	}
	return &SerializationError{Err: errors.WithStack(err)}
}

func wrapLoad(err error) error {
	if err == nil {
		return nil
	}
	return &DeserializationError{Err: errors.WithStack(err)}
}
