package compile

import (
	"fmt"
	"sync"
	"time"

	"github.com/mstoodle/jb2go/internal/errs"
	"github.com/mstoodle/jb2go/ir"
)

// ReturnCodeNamer names a ReturnCode for diagnostics.
// *extension.Host implements this directly; CompileUnit only needs the narrow method, not
// the whole Host, to avoid a needless compile→extension coupling beyond
// this one diagnostic.
type ReturnCodeNamer interface {
	ReturnCodeName(code errs.ReturnCode) string
}

// PassFailure is returned by CompileUnit.Compile when a Pass reports a
// non-success ReturnCode: the Compilation's IR is left
// however that Pass left it, and the client is expected to discard it.
type PassFailure struct {
	Pass     string
	Code     errs.ReturnCode
	CodeName string
}

func (e *PassFailure) Error() string {
	return fmt.Sprintf("compile: pass %q failed: %s", e.Pass, e.CodeName)
}

// CompileUnit is the client's handle on one function-shaped compilation
// target: the client constructs a CompileUnit, populates its root Context
// and Scope, then calls Compile. It owns the IR under construction and caches every
// CompiledBody it has produced, keyed by StrategyID.
type CompileUnit struct {
	name       string
	ir         *ir.IR
	strategies *StrategyRegistry
	codeNames  ReturnCodeNamer
	profiler   PassProfiler

	mu             sync.Mutex
	compiledBodies map[StrategyID]*CompiledBody
}

// NewCompileUnit creates a CompileUnit named name, backed by unitIR, whose
// Compile calls resolve StrategyIDs against strategies. codeNames may be
// nil, in which case PassFailure diagnostics fall back to a numeric code.
func NewCompileUnit(name string, unitIR *ir.IR, strategies *StrategyRegistry, codeNames ReturnCodeNamer) *CompileUnit {
	return &CompileUnit{
		name: name, ir: unitIR, strategies: strategies, codeNames: codeNames,
		compiledBodies: map[StrategyID]*CompiledBody{},
	}
}

// Name returns this CompileUnit's client-supplied name.
func (u *CompileUnit) Name() string { return u.name }

// IR returns the IR this CompileUnit's client builds Operations into.
func (u *CompileUnit) IR() *ir.IR { return u.ir }

// SetProfiler installs a PassProfiler every subsequent Compile call
// reports Pass durations to (compiler.WithPassProfiling's wiring point).
func (u *CompileUnit) SetProfiler(p PassProfiler) { u.profiler = p }

// CompiledBodies returns every CompiledBody cached so far, keyed by the
// StrategyID it was compiled with.
func (u *CompileUnit) CompiledBodies() map[StrategyID]*CompiledBody {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make(map[StrategyID]*CompiledBody, len(u.compiledBodies))
	for k, v := range u.compiledBodies {
		out[k] = v
	}
	return out
}

// Compile runs strategy's Passes over u's IR in order. A
// second Compile call with the same StrategyID returns the cached
// CompiledBody without re-running any Pass. logger may be nil.
func (u *CompileUnit) Compile(strategy StrategyID, logger ir.Logger) (*CompiledBody, error) {
	u.mu.Lock()
	if body, ok := u.compiledBodies[strategy]; ok {
		u.mu.Unlock()
		return body, nil
	}
	u.mu.Unlock()

	strat, ok := u.strategies.Lookup(strategy)
	if !ok {
		return nil, fmt.Errorf("compile: unknown StrategyID %s", strategy)
	}

	c := newCompilation(u, strat, logger)
	if logger != nil {
		logger.Line(fmt.Sprintf("[ compile %s strategy %s ]", u.name, strategy))
		logger.Indent()
		defer logger.Outdent()
	}

	for _, p := range strat.passes {
		if logger != nil {
			logger.Line(fmt.Sprintf("[ pass %s ]", p.Name()))
		}
		start := time.Now()
		code := p.Perform(c)
		if u.profiler != nil {
			u.profiler.RecordPass(strategy, p.Name(), time.Since(start))
		}
		if code != errs.CompileSuccessful {
			return nil, &PassFailure{Pass: p.Name(), Code: code, CodeName: u.codeName(code)}
		}
	}

	body := c.CompiledBody()
	if body == nil {
		return nil, fmt.Errorf("compile: strategy %s completed without a Pass producing a CompiledBody", strategy)
	}
	body.strategyID = strategy

	u.mu.Lock()
	u.compiledBodies[strategy] = body
	u.mu.Unlock()
	return body, nil
}

func (u *CompileUnit) codeName(code errs.ReturnCode) string {
	if u.codeNames != nil {
		return u.codeNames.ReturnCodeName(code)
	}
	return fmt.Sprintf("<return code %d>", code)
}
