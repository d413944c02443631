// Package sample is a minimal reference Extension exercised end to end:
// typed Add/Sub with their checker rules, Const, Load/Store of plain
// Symbol-backed locals and parameters, and a foreign-function Call —
// plus Interpreter, a compile.Pass that "generates code" by directly
// executing the IR rather than emitting machine code, since this repo
// has no target-specific code generator.
package sample

import (
	"github.com/mstoodle/jb2go/extension"
	"github.com/mstoodle/jb2go/internal/errs"
	"github.com/mstoodle/jb2go/ir"
	"github.com/mstoodle/jb2go/kind"
)

// Extension is the sample domain extension: it registers the ActionIDs
// and checker chains for Add/Sub plus Const/Load/Store/Call, the small
// vocabulary needed to build and run a program end to end.
type Extension struct {
	extension.NopNotifier

	host *extension.Host

	addAction   ir.ActionID
	subAction   ir.ActionID
	constAction ir.ActionID
	callAction  ir.ActionID
	loadAction  ir.ActionID
	storeAction ir.ActionID

	badAddCode errs.ReturnCode
	badSubCode errs.ReturnCode
}

// New returns an unloaded sample Extension; call (*compiler.Compiler).LoadExtension
// to install it.
func New() *Extension { return &Extension{} }

func (e *Extension) Kind() kind.ID   { return KindExtension }
func (e *Extension) Name() string    { return "sample" }
func (e *Extension) Version() string { return "v1.0.0" }

// Init registers this Extension's ActionIDs, CompilerReturnCodes, and
// checker chains with h.
func (e *Extension) Init(h *extension.Host) error {
	e.host = h
	e.addAction = h.Actions().Register("sample.Add")
	e.subAction = h.Actions().Register("sample.Sub")
	e.constAction = h.Actions().Register("sample.Const")
	e.callAction = h.Actions().Register("sample.Call")
	e.loadAction = h.Actions().Register("sample.Load")
	e.storeAction = h.Actions().Register("sample.Store")

	e.badAddCode = h.RegisterReturnCode("CompileFail_BadInputTypes_Add")
	e.badSubCode = h.RegisterReturnCode("CompileFail_BadInputTypes_Sub")

	h.Checkers().Push(e.addAction, e.addChecker())
	h.Checkers().Push(e.subAction, e.subChecker())
	return nil
}
