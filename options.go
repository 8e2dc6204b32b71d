package h5it

import (
	"go.uber.org/zap"

	"github.com/h5it-go/h5it/registry"
)

// config collects the public surface's optional behavior (spec.md §4.6's
// dump/load plus §6's encoding selector). The functional-options pattern
// mirrors how go.uber.org/zap itself is configured (zap.Option), the
// idiom this module's own logging dependency already commits callers to.
type config struct {
	logger       *zap.SugaredLogger
	symbols      *registry.SymbolTable
	table        *registry.Table
	encodingName string
}

func newConfig() *config {
	return &config{symbols: registry.DefaultSymbols()}
}

// Option configures Dump or Load.
type Option func(*config)

// WithLogger installs a logger; the default is zap's no-op logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *config) { c.logger = logger }
}

// WithSymbols installs the module/name resolver used to resolve and
// describe global symbols during reduction (spec.md §1's "module/name
// resolver" external collaborator). The default is the package-global
// table returned by registry.DefaultSymbols.
func WithSymbols(symbols *registry.SymbolTable) Option {
	return func(c *config) { c.symbols = symbols }
}

// WithTable overrides the type registry dispatched through. The default,
// built by walker.NewDefaultTable, is almost always correct; this exists
// for callers who need to add or shadow a kind dispatcher (spec.md §4.1's
// "User extensibility" design note).
func WithTable(table *registry.Table) Option {
	return func(c *config) { c.table = table }
}

// WithEncoding selects the legacy byte-string decoding policy Load applies
// to nodes tagged py2_bytes (spec.md §4.5/§6): "ASCII" (the default) or
// "bytes". Passing anything else makes Load fail with *unpickling error —
// invalid encoding*.
func WithEncoding(name string) Option {
	return func(c *config) { c.encodingName = name }
}
