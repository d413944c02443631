package ir

import "testing"

func newTestIR(t *testing.T) *IR {
	t.Helper()
	r := New(t.Name(), NewActionRegistry(), NewCheckerRegistry(), 64)
	t.Cleanup(r.Release)
	return r
}

func TestScalarTypesAreCanonical(t *testing.T) {
	r := newTestIR(t)
	if r.Types().Int32() != r.Types().Int32() {
		t.Fatal("Int32() must return the same instance on repeated calls")
	}
	if r.Types().Int32().Equal(r.Types().Int64()) {
		t.Fatal("Int32 must not equal Int64")
	}
	if !r.Types().Int32().Equal(r.Types().Int32()) {
		t.Fatal("Int32 must equal itself")
	}
}

func TestPointerToRequiresRegisteredBase(t *testing.T) {
	r := newTestIR(t)
	unregistered := newIntType(r.arena, 17) // never registered in this dictionary
	if _, err := r.Types().PointerTo(unregistered); err == nil {
		t.Fatal("PointerTo should reject a base Type absent from the dictionary")
	}
	ptr, err := r.Types().PointerTo(r.Types().Int32())
	if err != nil {
		t.Fatalf("PointerTo(Int32): %v", err)
	}
	ptr2, err := r.Types().PointerTo(r.Types().Int32())
	if err != nil {
		t.Fatalf("PointerTo(Int32) second call: %v", err)
	}
	if ptr != ptr2 {
		t.Fatal("PointerTo must dedupe by base type name")
	}
}

func TestStructFieldOffsetsPack(t *testing.T) {
	r := newTestIR(t)
	st := r.Types().NewStruct("Point")
	fx := st.AddField(r.arena, "x", r.Types().Int32())
	fy := st.AddField(r.arena, "y", r.Types().Int32())
	if fx.Offset != 0 {
		t.Fatalf("x offset = %d, want 0", fx.Offset)
	}
	if fy.Offset != 4 {
		t.Fatalf("y offset = %d, want 4", fy.Offset)
	}
	if st.SizeInBits() != 64 {
		t.Fatalf("struct size = %d bits, want 64", st.SizeInBits())
	}
	if _, ok := st.FieldNamed("z"); ok {
		t.Fatal("FieldNamed(\"z\") should miss on an undefined field")
	}
}

func TestFunctionTypeOfDedupesBySignature(t *testing.T) {
	r := newTestIR(t)
	i32 := r.Types().Int32()
	ft1 := r.Types().FunctionTypeOf(i32, i32, i32)
	ft2 := r.Types().FunctionTypeOf(i32, i32, i32)
	if ft1 != ft2 {
		t.Fatal("FunctionTypeOf must dedupe by (return, params) signature")
	}
	ft3 := r.Types().FunctionTypeOf(i32, i32)
	if ft1 == ft3 {
		t.Fatal("different arity must produce different FunctionTypes")
	}
}

func TestZeroAndIdentityLiterals(t *testing.T) {
	r := newTestIR(t)
	i32 := r.Types().Int32()
	if zero := i32.Zero(); zero.IntValue() != 0 {
		t.Fatalf("Int32 zero = %d, want 0", zero.IntValue())
	}
	if one := i32.Identity(); one.IntValue() != 1 {
		t.Fatalf("Int32 identity = %d, want 1", one.IntValue())
	}
}
