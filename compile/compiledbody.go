package compile

import (
	"reflect"

	"github.com/mstoodle/jb2go/internal/errs"
	"github.com/mstoodle/jb2go/kind"
)

// EntryID names one callable entry point within a CompiledBody — a
// function may publish more than one entry point.
type EntryID int

// nativeEntry pairs an EntryID with the callable a code-generator produced
// for it. Fn is `any` rather than a fixed func signature because jb2go's
// only code generator (the sample extension's interpreter) produces Go
// closures of varying arity, not one uniform machine-code calling
// convention — a real native-code-emitting extension would instead store a
// func value obtained via a build tag or cgo bridge, but the contract here
// (an invocable Go value plus its address) is the same either way.
type nativeEntry struct {
	id   EntryID
	fn   any
	code []byte // raw machine code, if a native-code-emitting generator supplied it
}

// CompiledBody is produced by a successful Compilation: the
// StrategyID used, zero or more NativeEntry records, and the final
// ReturnCode. A CompileUnit indexes its CompiledBodies by StrategyID; a
// second Compile call with the same Strategy returns the cached instance.
type CompiledBody struct {
	strategyID StrategyID
	returnCode errs.ReturnCode
	entries    map[EntryID]nativeEntry
}

// NewCompiledBody starts an empty CompiledBody with the given final
// ReturnCode; a code-generation Pass calls AddEntry for each function it
// emits before returning.
func NewCompiledBody(code errs.ReturnCode) *CompiledBody {
	return &CompiledBody{returnCode: code, entries: map[EntryID]nativeEntry{}}
}

func (b *CompiledBody) Kind() kind.ID { return KindCompiledBody }

// StrategyID returns the Strategy this body was compiled with.
func (b *CompiledBody) StrategyID() StrategyID { return b.strategyID }

// ReturnCode returns the CompilerReturnCode the compilation finished with.
func (b *CompiledBody) ReturnCode() errs.ReturnCode { return b.returnCode }

// AddEntry registers fn (a Go func value) as id's callable.
func (b *CompiledBody) AddEntry(id EntryID, fn any) {
	b.entries[id] = nativeEntry{id: id, fn: fn}
}

// AddNativeCode attaches raw machine code bytes alongside (or instead of)
// id's callable, for a future native-code-emitting generator; the sample
// extension's interpreter never calls this. textlog's debug dump decodes
// it with x86asm when present.
func (b *CompiledBody) AddNativeCode(id EntryID, code []byte) {
	e := b.entries[id]
	e.id = id
	e.code = code
	b.entries[id] = e
}

// NativeCode returns id's raw machine code bytes, if any generator
// supplied them.
func (b *CompiledBody) NativeCode(id EntryID) ([]byte, bool) {
	e, ok := b.entries[id]
	if !ok || e.code == nil {
		return nil, false
	}
	return e.code, true
}

// NativeEntry returns id's entry point address, obtained via reflect
// since this repo never emits raw machine code of its own: the
// returned uintptr is good for identity comparison and for textlog's debug
// disassembly path, but is not itself safely callable — use Entry to get
// back an invocable value.
func (b *CompiledBody) NativeEntry(id EntryID) (uintptr, bool) {
	e, ok := b.entries[id]
	if !ok {
		return 0, false
	}
	v := reflect.ValueOf(e.fn)
	if v.Kind() != reflect.Func {
		return 0, false
	}
	return v.Pointer(), true
}

// Entry returns id's callable value directly, for callers (tests,
// cmd/jbdemo) that need to invoke a closure-backed CompiledBody rather
// than merely inspect its address.
func (b *CompiledBody) Entry(id EntryID) (any, bool) {
	e, ok := b.entries[id]
	return e.fn, ok
}

// EntryIDs returns every registered EntryID, in unspecified order.
func (b *CompiledBody) EntryIDs() []EntryID {
	ids := make([]EntryID, 0, len(b.entries))
	for id := range b.entries {
		ids = append(ids, id)
	}
	return ids
}
