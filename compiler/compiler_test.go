package compiler

import (
	"bytes"
	"testing"

	"github.com/mstoodle/jb2go/compile"
	"github.com/mstoodle/jb2go/extension"
	"github.com/mstoodle/jb2go/ir"
	"github.com/mstoodle/jb2go/kind"
)

// noopExt is a minimal extension.Extension: it registers one
// CompilerReturnCode and nothing else, enough to exercise LoadExtension
// and ReturnCodeName without needing a real domain extension.
type noopExt struct {
	extension.NopNotifier
	name string
	code compile.ReturnCode
}

var kindNoopExt = kind.Register("compiler_test.noopExt", extension.KindExtension)

func (e *noopExt) Kind() kind.ID   { return kindNoopExt }
func (e *noopExt) Name() string    { return e.name }
func (e *noopExt) Version() string { return "v1.0.0" }
func (e *noopExt) Init(h *extension.Host) error {
	e.code = h.RegisterReturnCode(e.name + ".Failed")
	return nil
}

// codegenPass is a compile.Pass that immediately produces a CompiledBody,
// enough to drive CompileUnit.Compile to completion without a real
// extension's lowering/codegen machinery.
type codegenPass struct{ fn func() int }

func (codegenPass) Name() string { return "codegen" }
func (p codegenPass) Perform(c *compile.Compilation) compile.ReturnCode {
	body := compile.NewCompiledBody(compile.CompileSuccessful)
	body.AddEntry(0, p.fn)
	c.SetCompiledBody(body)
	return compile.CompileSuccessful
}

func TestLoadExtensionRegistersReturnCodeAndNamesIt(t *testing.T) {
	c := New("test")
	ext := &noopExt{name: "sample"}
	if err := c.LoadExtension(ir.NoLocation, ext); err != nil {
		t.Fatalf("LoadExtension: %v", err)
	}
	if got, want := c.ReturnCodeName(ext.code), "sample.Failed"; got != want {
		t.Fatalf("ReturnCodeName(%v) = %q, want %q", ext.code, got, want)
	}
}

func TestLoadExtensionRejectsVersionRegression(t *testing.T) {
	c := New("test")
	first := &noopExt{name: "sample"}
	if err := c.LoadExtension(ir.NoLocation, first); err != nil {
		t.Fatalf("first LoadExtension: %v", err)
	}
	second := &sameNameOlderExt{name: "sample"}
	if err := c.LoadExtension(ir.NoLocation, second); err == nil {
		t.Fatal("expected an error reloading an older version of an already-loaded extension")
	}
}

type sameNameOlderExt struct {
	extension.NopNotifier
	name string
}

func (e *sameNameOlderExt) Kind() kind.ID                { return kindNoopExt }
func (e *sameNameOlderExt) Name() string                 { return e.name }
func (e *sameNameOlderExt) Version() string              { return "v0.9.0" }
func (e *sameNameOlderExt) Init(h *extension.Host) error { return nil }

func TestCompileUnitsShareExtensionNamespace(t *testing.T) {
	c := New("test")
	if err := c.LoadExtension(ir.NoLocation, &noopExt{name: "sample"}); err != nil {
		t.Fatalf("LoadExtension: %v", err)
	}

	u1 := c.NewCompileUnit("fn1")
	u2 := c.NewCompileUnit("fn2")
	if u1.IR().Actions() != u2.IR().Actions() {
		t.Fatal("expected every CompileUnit from one Compiler to share the same ActionRegistry")
	}
}

func TestRegisterStrategyAndCompile(t *testing.T) {
	c := New("test")
	id := c.RegisterStrategy(codegenPass{fn: func() int { return 7 }})

	u := c.NewCompileUnit("fn")
	body, err := u.Compile(id, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	fn, ok := body.Entry(0)
	if !ok {
		t.Fatal("expected entry 0 to be present")
	}
	if got := fn.(func() int)(); got != 7 {
		t.Fatalf("entry 0 returned %d, want 7", got)
	}
}

func TestWithStrategySetsDefault(t *testing.T) {
	pass := codegenPass{fn: func() int { return 1 }}
	c := New("test", WithStrategy(pass))

	id, ok := c.DefaultStrategy()
	if !ok {
		t.Fatal("expected a default Strategy to be registered")
	}
	u := c.NewCompileUnit("fn")
	if _, err := u.Compile(id, nil); err != nil {
		t.Fatalf("Compile: %v", err)
	}
}

func TestWithPassProfilingRecordsDurationsAcrossCompileUnits(t *testing.T) {
	var profileBuf bytes.Buffer
	c := New("test", WithPassProfiling(&profileBuf))
	id := c.RegisterStrategy(codegenPass{fn: func() int { return 1 }})

	u1 := c.NewCompileUnit("fn1")
	if _, err := u1.Compile(id, nil); err != nil {
		t.Fatalf("Compile fn1: %v", err)
	}
	u2 := c.NewCompileUnit("fn2")
	if _, err := u2.Compile(id, nil); err != nil {
		t.Fatalf("Compile fn2: %v", err)
	}

	if err := c.WritePassProfile(); err != nil {
		t.Fatalf("WritePassProfile: %v", err)
	}
	if profileBuf.Len() == 0 {
		t.Fatal("expected a non-empty pprof profile after two Compiles")
	}
}

func TestWritePassProfileErrorsWithoutProfilingEnabled(t *testing.T) {
	c := New("test")
	if err := c.WritePassProfile(); err == nil {
		t.Fatal("expected an error writing a pass profile that was never enabled")
	}
}
