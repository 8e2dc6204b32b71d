package walker

import (
	"go.uber.org/zap"

	"github.com/h5it-go/h5it/container"
	"github.com/h5it-go/h5it/reduce"
	"github.com/h5it-go/h5it/registry"
)

// State is spec.md §4.2/§4.3's graph walker: the one-traversal-per-call
// object that carries the container driver, the type registry, the
// identity memo, and the reduction fallback, and implements registry.Context
// so every Exporter/Importer can recurse back through it.
type State struct {
	driver   container.Driver
	table    *registry.Table
	reducer  *reduce.Reducer
	symbols  *registry.SymbolTable
	encoding registry.EncodingPolicy
	logger   *zap.SugaredLogger
	memo     *memo
}

// NewState builds a walker ready for exactly one save or load — spec.md §5's
// "a save or load must not be interleaved with another operation".
func NewState(driver container.Driver, table *registry.Table, symbols *registry.SymbolTable, encoding registry.EncodingPolicy, logger *zap.SugaredLogger) *State {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &State{
		driver:   driver,
		table:    table,
		reducer:  reduce.New(symbols),
		symbols:  symbols,
		encoding: encoding,
		logger:   logger,
		memo:     newMemo(),
	}
}

func (s *State) Driver() container.Driver          { return s.driver }
func (s *State) Encoding() registry.EncodingPolicy { return s.encoding }
func (s *State) Logger() *zap.SugaredLogger        { return s.logger }
func (s *State) Symbols() *registry.SymbolTable    { return s.symbols }

// Reducer exposes the reduction fallback so a caller building a custom
// table (see RegisterKind use-sites) can install per-kind dispatchers
// before a save begins.
func (s *State) Reducer() *reduce.Reducer { return s.reducer }

// PreMemo implements registry.Context: it records a provisional load-side
// result before recursing into children, the mechanism spec.md §4.3
// documents for cycle-through-reduction support.
func (s *State) PreMemo(at container.Path, placeholder any) {
	s.memo.recordLoad(at, placeholder)
}
