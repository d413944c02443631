// Package compiler assembles the pieces otherwise kept separate —
// extension.Host, the IR's shared ActionRegistry/CheckerRegistry,
// compile.StrategyRegistry, and an optional internal/profile.Recorder —
// into the single root object a client actually constructs: client code
// obtains a Compiler, loads extensions, then constructs a CompileUnit.
// Grounded on the teacher's own root-object style: a gc.Config-like
// struct built once via functional options, then handed out to every
// later-created unit of work.
package compiler

import (
	"io"

	"github.com/mstoodle/jb2go/compile"
	"github.com/mstoodle/jb2go/extension"
	"github.com/mstoodle/jb2go/internal/diag"
	"github.com/mstoodle/jb2go/internal/profile"
	"github.com/mstoodle/jb2go/ir"
)

// Compiler is the root object a client constructs once per independent
// compilation universe. ExtensibleKind registration is process-global,
// so extension loading must be serialized with respect to other
// extension loading and compilation on the same Compiler. Every
// CompileUnit it creates shares this Compiler's
// extension.Host (and therefore its ActionRegistry/CheckerRegistry/
// CompilerReturnCode namespace) and compile.StrategyRegistry.
type Compiler struct {
	name       string
	host       *extension.Host
	strategies *compile.StrategyRegistry
	diag       *diag.Logger
	wordBits   int64

	defaultStrategy compile.StrategyID
	haveDefault     bool

	profileWriter io.Writer
	profiler      *profile.Recorder
}

// Option configures a Compiler at construction time.
type Option func(*Compiler)

// WithLogger installs a diag.Logger writing to w in place of the default
// (os.Stderr-backed) one, for a Compiler's ambient load-time/pipeline-
// failure diagnostics — not the IR's own structured text log, which is
// per-Compile-call via textlog.Logger.
func WithLogger(w io.Writer) Option {
	return func(c *Compiler) { c.diag = diag.New(w, c.name) }
}

// WithWordBits sets the host machine word width in bits every CompileUnit's
// IR is built with (default 64).
func WithWordBits(bits int64) Option {
	return func(c *Compiler) { c.wordBits = bits }
}

// WithStrategy pre-registers passes as this Compiler's default Strategy, so
// CompileUnit.Compile callers that don't care which Strategy they run can
// ask the Compiler for DefaultStrategy().
func WithStrategy(passes ...compile.Pass) Option {
	return func(c *Compiler) {
		c.defaultStrategy = c.strategies.Register(passes...)
		c.haveDefault = true
	}
}

// WithPassProfiling wires an internal/profile.Recorder into this Compiler:
// every CompileUnit it later creates has its Pass durations reported to
// the Recorder, which is flushed to w when the caller later calls
// WritePassProfile. Profiling is ambient observability, not a pipeline
// semantic: a Strategy runs identically whether or not it's enabled.
func WithPassProfiling(w io.Writer) Option {
	return func(c *Compiler) {
		c.profileWriter = w
		c.profiler = profile.NewRecorder()
	}
}

// New creates a Compiler named name (used in diagnostics and as the
// extension.Host's identity), applying opts in order.
func New(name string, opts ...Option) *Compiler {
	c := &Compiler{
		name:       name,
		host:       extension.NewHost(name),
		strategies: compile.NewStrategyRegistry(),
		wordBits:   64,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.diag == nil {
		c.diag = diag.New(nil, name)
	}
	return c
}

// Name returns this Compiler's identity.
func (c *Compiler) Name() string { return c.name }

// LoadExtension loads ext into this Compiler's extension.Host: every
// Extension registers Types/ActionIDs/CompilerReturnCodes against, and
// every CompileUnit's IR shares, this one Host.
func (c *Compiler) LoadExtension(loc ir.Location, ext extension.Extension) error {
	if err := c.host.Load(loc, ext); err != nil {
		c.diag.Printf("failed to load extension %q: %v", ext.Name(), err)
		return err
	}
	return nil
}

// RegisterStrategy assigns (or returns the existing) StrategyID for passes,
// in the given order.
func (c *Compiler) RegisterStrategy(passes ...compile.Pass) compile.StrategyID {
	return c.strategies.Register(passes...)
}

// DefaultStrategy returns the Strategy registered via WithStrategy, if any.
func (c *Compiler) DefaultStrategy() (compile.StrategyID, bool) {
	return c.defaultStrategy, c.haveDefault
}

// ReturnCodeName names a CompilerReturnCode for diagnostics, delegating to
// this Compiler's extension.Host.
func (c *Compiler) ReturnCodeName(code compile.ReturnCode) string {
	return c.host.ReturnCodeName(code)
}

// RegisterReturnCode assigns a new CompilerReturnCode under name; intended
// for use from within an Extension's Init via the Host it's handed, but
// exposed here too for core-only CompilerReturnCodes a client registers
// directly.
func (c *Compiler) RegisterReturnCode(name string) compile.ReturnCode {
	return c.host.RegisterReturnCode(name)
}

// NewCompileUnit creates a new CompileUnit named name, backed by a fresh IR
// sharing this Compiler's ActionRegistry/CheckerRegistry and
// StrategyRegistry. If profiling was enabled via
// WithPassProfiling, the returned CompileUnit reports every Pass's
// duration to this Compiler's shared Recorder.
func (c *Compiler) NewCompileUnit(name string) *compile.CompileUnit {
	unitIR := ir.New(name, c.host.Actions(), c.host.Checkers(), c.wordBits)
	u := compile.NewCompileUnit(name, unitIR, c.strategies, c.host)
	if c.profiler != nil {
		u.SetProfiler(c.profiler)
	}
	return u
}

// WritePassProfile flushes the pprof profile accumulated across every
// CompileUnit this Compiler created, if WithPassProfiling was supplied. It
// returns an error if profiling was never enabled.
func (c *Compiler) WritePassProfile() error {
	if c.profiler == nil {
		return errProfilingNotEnabled
	}
	return c.profiler.Write(c.profileWriter)
}
