package compile

import "time"

// Pass is a single visitor stage in a Strategy: a visitor
// with a single entry, Perform(compilation) → CompilerReturnCode. The
// compiler loop runs a Strategy's Passes in order and stops at the first
// one that doesn't return errs.CompileSuccessful.
type Pass interface {
	// Name identifies this Pass in diagnostics and logs, and contributes to
	// its owning Strategy's hashed StrategyID.
	Name() string
	Perform(c *Compilation) ReturnCode
}

// PassProfiler receives each Pass's wall-clock duration as a Strategy runs.
// It is the seam internal/profile's pprof-backed recorder plugs into via
// compiler.WithPassProfiling — ambient observability, not a pipeline
// semantic: a CompileUnit with no PassProfiler attached
// behaves identically, just without the timing records.
type PassProfiler interface {
	RecordPass(strategy StrategyID, name string, d time.Duration)
}
