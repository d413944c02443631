package vm

import (
	"testing"

	"github.com/mstoodle/jb2go/ir"
)

// fakeMemoryOps is a minimal MemoryOps that treats every "address" as a
// direct alias of the value stored there, via an in-memory map keyed by
// the address Value's identity — enough to drive Register/OperandStack
// through a realistic sequence of Load/Store/Add/ConstInt calls without
// needing a real extension's code generator.
type fakeMemoryOps struct {
	r       *ir.IR
	actions struct {
		load, store, add, constInt ir.ActionID
	}
	cell map[*ir.Value]*ir.Value // simulated backing memory, keyed by address identity
}

func newFakeMemoryOps(r *ir.IR) *fakeMemoryOps {
	f := &fakeMemoryOps{r: r, cell: map[*ir.Value]*ir.Value{}}
	f.actions.load = r.Actions().Register("fake.Load")
	f.actions.store = r.Actions().Register("fake.Store")
	f.actions.add = r.Actions().Register("fake.Add")
	f.actions.constInt = r.Actions().Register("fake.ConstInt")
	return f
}

func (f *fakeMemoryOps) op(b *ir.Builder, action ir.ActionID, name string, operands []*ir.Value, result *ir.Value) {
	spec := ir.OpSpec{Action: action, Name: name, Owner: "vmtest", Parent: b, Operands: operands}
	if result != nil {
		spec.Results = []*ir.Value{result}
	}
	b.Append(ir.NewOp(f.r.Arena(), spec))
}

func (f *fakeMemoryOps) Load(b *ir.Builder, loc ir.Location, address *ir.Value, elementType ir.Type) (*ir.Value, error) {
	result := ir.NewValue(f.r.Arena(), "", elementType)
	f.op(b, f.actions.load, "Load", []*ir.Value{address}, result)
	return result, nil
}

func (f *fakeMemoryOps) Store(b *ir.Builder, loc ir.Location, address, value *ir.Value) error {
	f.op(b, f.actions.store, "Store", []*ir.Value{address, value}, nil)
	f.cell[address] = value
	return nil
}

func (f *fakeMemoryOps) Add(b *ir.Builder, loc ir.Location, left, right *ir.Value) (*ir.Value, error) {
	result := ir.NewValue(f.r.Arena(), "", left.Type())
	f.op(b, f.actions.add, "Add", []*ir.Value{left, right}, result)
	return result, nil
}

func (f *fakeMemoryOps) ConstInt(b *ir.Builder, loc ir.Location, t ir.Type, value int64) (*ir.Value, error) {
	result := ir.NewValue(f.r.Arena(), "", t)
	f.op(b, f.actions.constInt, "ConstInt", nil, result)
	return result, nil
}

func setup(t *testing.T) (*ir.IR, *ir.Builder, *fakeMemoryOps, ir.Type, ir.Type) {
	t.Helper()
	r := ir.New(t.Name(), ir.NewActionRegistry(), ir.NewCheckerRegistry(), 64)
	t.Cleanup(r.Release)
	b := r.RootScope().NewEntryBuilder()
	return r, b, newFakeMemoryOps(r), r.Types().Address(), r.Types().Int32()
}

func TestRegisterAdjustCommitReload(t *testing.T) {
	r, b, ops, addrT, _ := setup(t)
	backing := ir.NewValue(r.Arena(), "backingCell", addrT)
	initial := ir.NewValue(r.Arena(), "initialTop", addrT)
	reg := NewRegister("top", backing, addrT, initial, ops)

	if err := reg.Adjust(b, ir.NoLocation, 8); err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if reg.Value() == initial {
		t.Fatal("Adjust must replace the register's simulated value")
	}
	if err := reg.Commit(b, ir.NoLocation); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if ops.cell[backing] != reg.Value() {
		t.Fatal("Commit must write the register's current value to its backing cell")
	}

	reg.value = initial // pretend something external changed it
	if err := reg.Reload(b, ir.NoLocation); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if reg.Value() == initial {
		t.Fatal("Reload must rematerialize the register's value from the backing cell")
	}
}

func TestOperandStackPushPopDupDrop(t *testing.T) {
	r, b, ops, addrT, i32 := setup(t)
	base := ir.NewValue(r.Arena(), "base", addrT)
	topBacking := ir.NewValue(r.Arena(), "topCell", addrT)
	topInitial := ir.NewValue(r.Arena(), "topInitial", addrT)
	top := NewRegister("top", topBacking, addrT, topInitial, ops)
	stack := NewOperandStack(b, 8, base, top, i32, 4, ops)

	v1 := ir.NewValue(r.Arena(), "v1", i32)
	v2 := ir.NewValue(r.Arena(), "v2", i32)
	v3 := ir.NewValue(r.Arena(), "v3", i32)
	for _, v := range []*ir.Value{v1, v2, v3} {
		if err := stack.Push(v); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if stack.Depth() != 3 {
		t.Fatalf("Depth = %d, want 3", stack.Depth())
	}
	if err := stack.Dup(); err != nil {
		t.Fatalf("Dup: %v", err)
	}
	if stack.Depth() != 4 {
		t.Fatal("Dup must push a copy of Top")
	}
	got, err := stack.Pop()
	if err != nil || got != v3 {
		t.Fatal("Pop after Dup must return the duplicated top value")
	}
	if err := stack.Drop(stack.Depth()); err != nil {
		t.Fatalf("Drop(depth): %v", err)
	}
	if stack.Depth() != 0 {
		t.Fatal("Drop(depth) must empty the stack")
	}
	if err := stack.Drop(1); err == nil {
		t.Fatal("Drop(depth+1) on an empty stack must be a construction error")
	}
}

func TestOperandStackPushRejectsWrongElementType(t *testing.T) {
	r, b, ops, addrT, i32 := setup(t)
	base := ir.NewValue(r.Arena(), "base", addrT)
	top := NewRegister("top", ir.NewValue(r.Arena(), "topCell", addrT), addrT, ir.NewValue(r.Arena(), "topInit", addrT), ops)
	stack := NewOperandStack(b, 4, base, top, i32, 4, ops)
	wrong := ir.NewValue(r.Arena(), "wrong", r.Types().Int64())
	if err := stack.Push(wrong); err == nil {
		t.Fatal("Push must reject a Value whose Type differs from the stack's elementType")
	}
}

// TestOperandStackCommitCallReload: push three values, commit (one Store
// per slot plus the top register), then reload and check that the depth
// is unchanged and every simulated slot now holds a fresh Load result
// rather than its stale pre-Commit value. The fake MemoryOps models no
// foreign mutation, so the reloaded values themselves are not checked.
func TestOperandStackCommitCallReload(t *testing.T) {
	r, b, ops, addrT, i32 := setup(t)
	base := ir.NewValue(r.Arena(), "base", addrT)
	topBacking := ir.NewValue(r.Arena(), "topCell", addrT)
	top := NewRegister("top", topBacking, addrT, base, ops)
	stack := NewOperandStack(b, 8, base, top, i32, 4, ops)

	one := ir.NewValue(r.Arena(), "one", i32)
	two := ir.NewValue(r.Arena(), "two", i32)
	three := ir.NewValue(r.Arena(), "three", i32)
	for _, v := range []*ir.Value{one, two, three} {
		if err := stack.Push(v); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	preReload := append([]*ir.Value(nil), stack.simulated...)
	opsBefore := len(b.Operations())
	if err := stack.Commit(b, ir.NoLocation); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	// Every committed slot plus the top-register update must have emitted
	// a Store: Commit writes every currently-simulated stack element back
	// through the real top-register.
	if got := len(b.Operations()) - opsBefore; got < len(preReload)+1 {
		t.Fatalf("Commit emitted %d Operations, want at least %d (one Store per slot plus the top register)", got, len(preReload)+1)
	}

	// A foreign call the builder cannot see into is modeled as: nothing
	// changes about the simulated stack's addresses, but the real backing
	// store's content is no longer what the pre-Commit values were.
	// Reload must refresh every simulated slot via a fresh Load rather
	// than trusting the stale values it already held.
	if err := stack.Reload(b, ir.NoLocation); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if stack.Depth() != 3 {
		t.Fatalf("Reload must not change depth, got %d", stack.Depth())
	}
	for i, v := range stack.simulated {
		if v == preReload[i] {
			t.Fatalf("slot %d: Reload must replace the simulated value with a fresh Load result, not keep the stale one", i)
		}
	}
}

func TestOperandStackMergeIntoRejectsDepthMismatch(t *testing.T) {
	r, b, ops, addrT, i32 := setup(t)
	base := ir.NewValue(r.Arena(), "base", addrT)
	top1 := NewRegister("top", ir.NewValue(r.Arena(), "topCell", addrT), addrT, base, ops)
	s1 := NewOperandStack(b, 4, base, top1, i32, 4, ops)
	s1.simulated = append(s1.simulated, ir.NewValue(r.Arena(), "v", i32))

	b2 := r.RootScope().NewFreeBuilder()
	top2 := NewRegister("top", ir.NewValue(r.Arena(), "topCell2", addrT), addrT, base, ops)
	s2 := NewOperandStack(b2, 4, base, top2, i32, 4, ops)

	join := r.RootScope().NewFreeBuilder()
	if _, err := s1.MergeInto(s2, join, ir.NoLocation); err == nil {
		t.Fatal("MergeInto must reject mismatched stack depths")
	}
}

func TestOperandStackMergeIntoProducesMatchingDepth(t *testing.T) {
	r, b, ops, addrT, i32 := setup(t)
	base := ir.NewValue(r.Arena(), "base", addrT)
	top1 := NewRegister("top", ir.NewValue(r.Arena(), "topCell", addrT), addrT, base, ops)
	s1 := NewOperandStack(b, 4, base, top1, i32, 4, ops)
	v1 := ir.NewValue(r.Arena(), "v1", i32)
	if err := s1.Push(v1); err != nil {
		t.Fatalf("push: %v", err)
	}

	b2 := r.RootScope().NewFreeBuilder()
	top2 := NewRegister("top", ir.NewValue(r.Arena(), "topCell2", addrT), addrT, base, ops)
	s2 := NewOperandStack(b2, 4, base, top2, i32, 4, ops)
	v2 := ir.NewValue(r.Arena(), "v2", i32)
	if err := s2.Push(v2); err != nil {
		t.Fatalf("push: %v", err)
	}

	join := r.RootScope().NewFreeBuilder()
	merged, err := s1.MergeInto(s2, join, ir.NoLocation)
	if err != nil {
		t.Fatalf("MergeInto: %v", err)
	}
	if merged.Depth() != 1 {
		t.Fatalf("merged depth = %d, want 1", merged.Depth())
	}
}
