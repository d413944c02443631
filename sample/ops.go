package sample

import (
	"fmt"

	"github.com/mstoodle/jb2go/ir"
)

// callExtra carries the foreign Go function a Call Operation invokes.
// Since this repo's only code generator is Interpreter (no real machine
// code is ever emitted), the callee is simply a Go value rather than a
// resolved native address.
type callExtra struct {
	Fn any
}

// Add appends a checked Add Operation to b. Operands are canonicalized
// address-first, so Add(w, a) and
// Add(a, w) produce operand orderings identical to each other when one
// side is an Address.
func (e *Extension) Add(loc ir.Location, b *ir.Builder, left, right *ir.Value) (*ir.Value, error) {
	if isAddress(right.Type()) && !isAddress(left.Type()) {
		left, right = right, left
	}
	result := ir.NewValue(b.IR().Arena(), "", addResultType(left, right))
	op := ir.NewOp(b.IR().Arena(), ir.OpSpec{
		Action: e.addAction, Name: "Add", Owner: "sample", Parent: b, Location: loc,
		Operands: []*ir.Value{left, right}, Results: []*ir.Value{result},
	})
	if err := b.IR().Checkers().Validate(op); err != nil {
		return nil, err
	}
	b.Append(op)
	return result, nil
}

func addResultType(left, right *ir.Value) ir.Type {
	if isAddress(left.Type()) {
		return left.Type()
	}
	if isAddress(right.Type()) {
		return right.Type()
	}
	return left.Type()
}

// Sub appends a checked Sub Operation to b: address minus
// address yields a word-sized difference; address minus a word yields an
// address.
func (e *Extension) Sub(loc ir.Location, b *ir.Builder, address, x *ir.Value) (*ir.Value, error) {
	result := ir.NewValue(b.IR().Arena(), "", subResultType(b, address, x))
	op := ir.NewOp(b.IR().Arena(), ir.OpSpec{
		Action: e.subAction, Name: "Sub", Owner: "sample", Parent: b, Location: loc,
		Operands: []*ir.Value{address, x}, Results: []*ir.Value{result},
	})
	if err := b.IR().Checkers().Validate(op); err != nil {
		return nil, err
	}
	b.Append(op)
	return result, nil
}

func subResultType(b *ir.Builder, address, x *ir.Value) ir.Type {
	if isAddress(x.Type()) {
		return b.IR().Types().Word()
	}
	return address.Type()
}

// Const appends a Const Operation producing a Value holding lit's
// payload. lit is interned against b's IR first, so two Consts built
// from separately-constructed but equal Literals share one canonical
// instance. Const has no operands to validate, so it never goes through
// a Checker.
func (e *Extension) Const(loc ir.Location, b *ir.Builder, lit *ir.Literal) *ir.Value {
	lit = b.IR().Literals().Intern(lit)
	result := ir.NewValue(b.IR().Arena(), "", lit.Type())
	op := ir.NewOp(b.IR().Arena(), ir.OpSpec{
		Action: e.constAction, Name: "Const", Owner: "sample", Parent: b, Location: loc,
		Results: []*ir.Value{result}, Literals: []*ir.Literal{lit},
	})
	b.Append(op)
	return result
}

// Load appends a Load Operation reading sym's current simulated value
// into a fresh Value (the plain-local counterpart of vm.Register.Load,
// for front-ends that don't need the VM operand-stack abstraction).
func (e *Extension) Load(loc ir.Location, b *ir.Builder, sym ir.Symbol) *ir.Value {
	result := ir.NewValue(b.IR().Arena(), sym.Name(), sym.Type())
	op := ir.NewOp(b.IR().Arena(), ir.OpSpec{
		Action: e.loadAction, Name: "Load", Owner: "sample", Parent: b, Location: loc,
		Results: []*ir.Value{result}, Symbols: []ir.Symbol{sym},
	})
	b.Append(op)
	return result
}

// Store appends a Store Operation writing v into sym.
func (e *Extension) Store(loc ir.Location, b *ir.Builder, sym ir.Symbol, v *ir.Value) error {
	if !sym.Type().Equal(v.Type()) {
		return fmt.Errorf("sample: Store: value type %s does not match symbol %q's type %s", v.Type().Name(), sym.Name(), sym.Type().Name())
	}
	op := ir.NewOp(b.IR().Arena(), ir.OpSpec{
		Action: e.storeAction, Name: "Store", Owner: "sample", Parent: b, Location: loc,
		Operands: []*ir.Value{v}, Symbols: []ir.Symbol{sym},
	})
	b.Append(op)
	return nil
}

// Call appends a Call Operation invoking fn (a plain Go function value)
// with args as its operands. resultType may be nil for a void call.
func (e *Extension) Call(loc ir.Location, b *ir.Builder, fn any, resultType ir.Type, args ...*ir.Value) *ir.Value {
	var results []*ir.Value
	if resultType != nil {
		results = []*ir.Value{ir.NewValue(b.IR().Arena(), "", resultType)}
	}
	op := ir.NewOp(b.IR().Arena(), ir.OpSpec{
		Action: e.callAction, Name: "Call", Owner: "sample", Parent: b, Location: loc,
		Operands: args, Results: results, Extra: callExtra{Fn: fn},
	})
	b.Append(op)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}
