package compile

import (
	"testing"
	"time"

	"github.com/mstoodle/jb2go/internal/errs"
	"github.com/mstoodle/jb2go/ir"
)

type namedPass struct {
	name string
	run  func(c *Compilation) ReturnCode
}

func (p *namedPass) Name() string                    { return p.name }
func (p *namedPass) Perform(c *Compilation) ReturnCode { return p.run(c) }

func newTestIR() *ir.IR {
	return ir.New("test", ir.NewActionRegistry(), ir.NewCheckerRegistry(), 64)
}

func TestStrategyRegistrationIsDeterministicByPassNames(t *testing.T) {
	reg := NewStrategyRegistry()
	pass := &namedPass{name: "codegen", run: func(c *Compilation) ReturnCode { return CompileSuccessful }}

	id1 := reg.Register(pass)
	id2 := reg.Register(&namedPass{name: "codegen", run: pass.run}) // distinct Pass value, same name

	if id1 != id2 {
		t.Fatalf("two Strategies with the same ordered pass names must share a StrategyID: %s != %s", id1, id2)
	}

	other := reg.Register(&namedPass{name: "canonicalize", run: pass.run}, pass)
	if other == id1 {
		t.Fatal("a different pass sequence must get a different StrategyID")
	}
}

func TestCompileRunsPassesInOrderAndCachesResult(t *testing.T) {
	reg := NewStrategyRegistry()
	var order []string

	first := &namedPass{name: "first", run: func(c *Compilation) ReturnCode {
		order = append(order, "first")
		return CompileSuccessful
	}}
	codegen := &namedPass{name: "codegen", run: func(c *Compilation) ReturnCode {
		order = append(order, "codegen")
		body := NewCompiledBody(CompileSuccessful)
		body.AddEntry(0, func() int { return 42 })
		c.SetCompiledBody(body)
		return CompileSuccessful
	}}
	id := reg.Register(first, codegen)

	unit := NewCompileUnit("f", newTestIR(), reg, nil)
	body, err := unit.Compile(id, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "codegen" {
		t.Fatalf("passes did not run in registration order: %v", order)
	}
	if body.StrategyID() != id {
		t.Fatalf("CompiledBody.StrategyID mismatch: got %s want %s", body.StrategyID(), id)
	}

	fn, ok := body.Entry(0)
	if !ok {
		t.Fatal("expected entry 0 to be registered")
	}
	if got := fn.(func() int)(); got != 42 {
		t.Fatalf("expected entry 0 to return 42, got %d", got)
	}
	if _, ok := body.NativeEntry(0); !ok {
		t.Fatal("expected NativeEntry to resolve a func-valued entry")
	}

	order = nil
	second, err := unit.Compile(id, nil)
	if err != nil {
		t.Fatalf("second Compile: %v", err)
	}
	if second != body {
		t.Fatal("a second Compile with the same StrategyID must return the cached CompiledBody")
	}
	if len(order) != 0 {
		t.Fatal("a cached Compile must not re-run any Pass")
	}
}

func TestCompileFailureStopsLaterPasses(t *testing.T) {
	reg := NewStrategyRegistry()
	var ranSecond bool

	bad := errs.ReturnCode(999)
	failing := &namedPass{name: "failing", run: func(c *Compilation) ReturnCode { return bad }}
	never := &namedPass{name: "never", run: func(c *Compilation) ReturnCode {
		ranSecond = true
		return CompileSuccessful
	}}
	id := reg.Register(failing, never)

	unit := NewCompileUnit("f", newTestIR(), reg, nil)
	_, err := unit.Compile(id, nil)
	if err == nil {
		t.Fatal("expected an error from a failing Pass")
	}
	pf, ok := err.(*PassFailure)
	if !ok {
		t.Fatalf("expected *PassFailure, got %T", err)
	}
	if pf.Pass != "failing" || pf.Code != bad {
		t.Fatalf("unexpected PassFailure: %+v", pf)
	}
	if ranSecond {
		t.Fatal("a Pass after a failing one must not run")
	}
}

func TestCompileUnknownStrategyIDErrors(t *testing.T) {
	unit := NewCompileUnit("f", newTestIR(), NewStrategyRegistry(), nil)
	var unregistered StrategyID
	if _, err := unit.Compile(unregistered, nil); err == nil {
		t.Fatal("expected an error compiling against an unregistered StrategyID")
	}
}

func TestCompileWithoutCompiledBodyErrors(t *testing.T) {
	reg := NewStrategyRegistry()
	noop := &namedPass{name: "noop", run: func(c *Compilation) ReturnCode { return CompileSuccessful }}
	id := reg.Register(noop)

	unit := NewCompileUnit("f", newTestIR(), reg, nil)
	if _, err := unit.Compile(id, nil); err == nil {
		t.Fatal("expected an error when no Pass ever calls SetCompiledBody")
	}
}

type recordingProfiler struct {
	calls []string
}

func (p *recordingProfiler) RecordPass(_ StrategyID, name string, _ time.Duration) {
	p.calls = append(p.calls, name)
}

func TestCompileReportsPassDurationsToProfiler(t *testing.T) {
	reg := NewStrategyRegistry()
	codegen := &namedPass{name: "codegen", run: func(c *Compilation) ReturnCode {
		c.SetCompiledBody(NewCompiledBody(CompileSuccessful))
		return CompileSuccessful
	}}
	id := reg.Register(codegen)

	unit := NewCompileUnit("f", newTestIR(), reg, nil)
	prof := &recordingProfiler{}
	unit.SetProfiler(prof)

	if _, err := unit.Compile(id, nil); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(prof.calls) != 1 || prof.calls[0] != "codegen" {
		t.Fatalf("expected profiler to observe the codegen pass, got %v", prof.calls)
	}
}
