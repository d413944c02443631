package sample

import (
	"strings"
	"testing"

	"github.com/mstoodle/jb2go/ir"
)

// TestAddRejectsMismatchedIntTypes: Add(Int32, Int64) must fail
// construction with a diagnostic naming both operands.
func TestAddRejectsMismatchedIntTypes(t *testing.T) {
	r, ext, b := newTestExtension(t)
	left := ir.NewValue(r.Arena(), "left", r.Types().Int32())
	right := ir.NewValue(r.Arena(), "right", r.Types().Int64())

	_, err := ext.Add(ir.NoLocation, b, left, right)
	if err == nil {
		t.Fatal("Add(Int32, Int64) must be rejected")
	}
	msg := err.Error()
	if !strings.Contains(msg, "left") || !strings.Contains(msg, "right") {
		t.Fatalf("diagnostic must name both operands, got %q", msg)
	}
	if len(b.Operations()) != 0 {
		t.Fatal("a rejected Add must not be appended to its Builder")
	}
}

// TestAddAcceptsMatchingIntTypes is the positive counterpart: same-typed
// operands build cleanly and the Operation is appended exactly once.
func TestAddAcceptsMatchingIntTypes(t *testing.T) {
	r, ext, b := newTestExtension(t)
	i32 := r.Types().Int32()
	left := ir.NewValue(r.Arena(), "left", i32)
	right := ir.NewValue(r.Arena(), "right", i32)

	result, err := ext.Add(ir.NoLocation, b, left, right)
	if err != nil {
		t.Fatalf("Add(Int32, Int32): %v", err)
	}
	if !result.Type().Equal(i32) {
		t.Fatalf("result type = %s, want Int32", result.Type().Name())
	}
	if len(b.Operations()) != 1 {
		t.Fatalf("expected 1 Operation, got %d", len(b.Operations()))
	}
}

// TestAddCanonicalizesAddressFirst: Add(w, a)
// and Add(a, w) must produce operand orderings identical to each other.
func TestAddCanonicalizesAddressFirst(t *testing.T) {
	r, ext, b := newTestExtension(t)
	word := r.Types().Word()
	addr := r.Types().Address()
	w := ir.NewValue(r.Arena(), "w", word)
	a := ir.NewValue(r.Arena(), "a", addr)

	_, err := ext.Add(ir.NoLocation, b, w, a)
	if err != nil {
		t.Fatalf("Add(word, address): %v", err)
	}
	op1 := b.Operations()[len(b.Operations())-1]

	_, err = ext.Add(ir.NoLocation, b, a, w)
	if err != nil {
		t.Fatalf("Add(address, word): %v", err)
	}
	op2 := b.Operations()[len(b.Operations())-1]

	if op1.Operands()[0].Type() != op2.Operands()[0].Type() {
		t.Fatal("Add(w, a) and Add(a, w) must canonicalize to the same operand ordering")
	}
	if !isAddress(op1.Operands()[0].Type()) || !isAddress(op2.Operands()[0].Type()) {
		t.Fatal("the address operand must be canonicalized first")
	}
}

// TestAddRejectsWrongSizedWordWithAddress: an address's other operand must
// be word-sized, not merely integer.
func TestAddRejectsWrongSizedWordWithAddress(t *testing.T) {
	r, ext, b := newTestExtension(t)
	addr := ir.NewValue(r.Arena(), "a", r.Types().Address())
	small := ir.NewValue(r.Arena(), "x", r.Types().Int32())

	if _, err := ext.Add(ir.NoLocation, b, addr, small); err == nil {
		t.Fatal("Add(address, Int32) must be rejected when Int32 is narrower than word size")
	}
}

// TestSubAddressMinusAddressYieldsWord covers the Sub(address, address)
// rule.
func TestSubAddressMinusAddressYieldsWord(t *testing.T) {
	r, ext, b := newTestExtension(t)
	addr := r.Types().Address()
	a1 := ir.NewValue(r.Arena(), "a1", addr)
	a2 := ir.NewValue(r.Arena(), "a2", addr)

	result, err := ext.Sub(ir.NoLocation, b, a1, a2)
	if err != nil {
		t.Fatalf("Sub(address, address): %v", err)
	}
	if !result.Type().Equal(r.Types().Word()) {
		t.Fatalf("Sub(address, address) result type = %s, want word", result.Type().Name())
	}
}

// TestSubAddressMinusWordYieldsAddress covers Sub(address, word).
func TestSubAddressMinusWordYieldsAddress(t *testing.T) {
	r, ext, b := newTestExtension(t)
	addr := ir.NewValue(r.Arena(), "a", r.Types().Address())
	w := ir.NewValue(r.Arena(), "w", r.Types().Word())

	result, err := ext.Sub(ir.NoLocation, b, addr, w)
	if err != nil {
		t.Fatalf("Sub(address, word): %v", err)
	}
	if !isAddress(result.Type()) {
		t.Fatalf("Sub(address, word) result type = %s, want address", result.Type().Name())
	}
}

// TestSubRejectsNonAddressFirstOperand: Sub's first operand must be an
// address.
func TestSubRejectsNonAddressFirstOperand(t *testing.T) {
	r, ext, b := newTestExtension(t)
	x := ir.NewValue(r.Arena(), "x", r.Types().Word())
	y := ir.NewValue(r.Arena(), "y", r.Types().Word())

	if _, err := ext.Sub(ir.NoLocation, b, x, y); err == nil {
		t.Fatal("Sub(word, word) must be rejected: the first operand must be an address")
	}
}

// TestLoadStoreRoundTrip exercises Load/Store against a plain local.
func TestLoadStoreRoundTrip(t *testing.T) {
	r, ext, b := newTestExtension(t)
	i64 := r.Types().Int64()
	sym := r.RootContext().DefineLocal("counter", i64)
	lit := ir.NewIntLiteral(i64, 42)

	v := ext.Const(ir.NoLocation, b, lit)
	if err := ext.Store(ir.NoLocation, b, sym, v); err != nil {
		t.Fatalf("Store: %v", err)
	}
	loaded := ext.Load(ir.NoLocation, b, sym)
	if !loaded.Type().Equal(i64) {
		t.Fatalf("Load result type = %s, want Int64", loaded.Type().Name())
	}
	if len(b.Operations()) != 3 {
		t.Fatalf("expected 3 Operations (Const, Store, Load), got %d", len(b.Operations()))
	}
}

// TestStoreRejectsTypeMismatch: storing a value of the wrong type into a
// Symbol must fail.
func TestStoreRejectsTypeMismatch(t *testing.T) {
	r, ext, b := newTestExtension(t)
	sym := r.RootContext().DefineLocal("counter", r.Types().Int64())
	v := ir.NewValue(r.Arena(), "", r.Types().Int32())

	if err := ext.Store(ir.NoLocation, b, sym, v); err == nil {
		t.Fatal("Store must reject a value whose type does not match the Symbol's")
	}
}
