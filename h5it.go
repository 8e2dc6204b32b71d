// Package h5it persists arbitrary in-memory value graphs into HDF5
// containers with full type, identity, and topology fidelity. It is the Go
// port of the dump/load surface the Python h5it library built around
// pickle-style reduction.
//
// # Overview
//
// Dump walks a value graph once, dispatching each node to a type-registry
// exporter or, failing that, to the reduction subsystem, while maintaining
// an identity memo so shared and cyclic substructure round-trips as aliases
// rather than duplicated data. Load performs the inverse walk.
//
// # Usage Example
//
//	err := h5it.Dump(graph, "out.h5")
//	v, err := h5it.Load("out.h5", h5it.WithEncoding("bytes"))
package h5it

import (
	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/registry"
	"github.com/h5it-go/h5it/walker"
)

// Dump opens the container at path for writing (truncating any existing
// file), exports v under the fixed top-level namespace group, and closes
// the container — spec.md §4.6's dump operation.
func Dump(v any, path string, opts ...Option) error {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	driver, err := container.Create(path)
	if err != nil {
		return wrapSave(err)
	}
	defer driver.Close()

	table := cfg.table
	if table == nil {
		table = walker.NewDefaultTable()
	}

	if err := walker.Export(driver, table, cfg.symbols, cfg.logger, v); err != nil {
		return wrapSave(err)
	}
	return nil
}

// Load opens the container at path for reading, imports the top-level
// namespace group, and closes the container — spec.md §4.6's load
// operation. encoding (via WithEncoding) selects the legacy-byte decoding
// policy; an invalid value fails with *unpickling error — invalid encoding*.
func Load(path string, opts ...Option) (any, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	encoding, err := registry.ParseEncoding(cfg.encodingName)
	if err != nil {
		return nil, wrapLoad(err)
	}

	driver, err := container.Open(path)
	if err != nil {
		return nil, wrapLoad(err)
	}
	defer driver.Close()

	table := cfg.table
	if table == nil {
		table = walker.NewDefaultTable()
	}

	v, err := walker.Import(driver, table, cfg.symbols, encoding, cfg.logger)
	if err != nil {
		return nil, wrapLoad(err)
	}
	return v, nil
}
