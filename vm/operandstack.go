package vm

import "github.com/mstoodle/jb2go/ir"

// OperandStack simulates a typed VirtualMachineOperandStack: a stack of
// elementType-typed Values whose real backing store is
// a contiguous array starting at base, with its top tracked by a
// Register. Push/Pop/Top/Pick/Dup/Drop only touch the in-memory
// simulated slice; Commit/Reload/UpdateStack/MergeInto/MakeCopy are the
// operations that synchronize the simulation against the real backing
// store or install it on another Builder.
type OperandStack struct {
	elementType ir.Type
	elementSize int64
	ops         MemoryOps
	base        *ir.Value // address of slot 0 in the backing array
	top         *Register // holds base + depth*elementSize: the next free slot
	simulated   []*ir.Value
	builder     *ir.Builder // the Builder this state's simulated values were last produced in
}

// NewOperandStack creates an OperandStack of the given elementType,
// backed starting at base, whose top-of-stack pointer is tracked by top.
// initialSize only pre-sizes the simulated slice's capacity; the stack
// starts empty.
func NewOperandStack(b *ir.Builder, initialSize int, base *ir.Value, top *Register, elementType ir.Type, elementSize int64, ops MemoryOps) *OperandStack {
	return &OperandStack{
		elementType: elementType,
		elementSize: elementSize,
		ops:         ops,
		base:        base,
		top:         top,
		simulated:   make([]*ir.Value, 0, initialSize),
		builder:     b,
	}
}

// Depth returns the number of simulated elements currently on the stack.
func (s *OperandStack) Depth() int { return len(s.simulated) }

// Push appends v to the simulated stack. v's Type must equal elementType.
func (s *OperandStack) Push(v *ir.Value) error {
	if !v.Type().Equal(s.elementType) {
		return typeError("Push", s.elementType, v.Type())
	}
	s.simulated = append(s.simulated, v)
	return nil
}

// Pop removes and returns the simulated top element.
func (s *OperandStack) Pop() (*ir.Value, error) {
	if len(s.simulated) == 0 {
		return nil, emptyError("Pop")
	}
	v := s.simulated[len(s.simulated)-1]
	s.simulated = s.simulated[:len(s.simulated)-1]
	return v, nil
}

// Top returns the simulated top element without removing it.
func (s *OperandStack) Top() (*ir.Value, error) {
	if len(s.simulated) == 0 {
		return nil, emptyError("Top")
	}
	return s.simulated[len(s.simulated)-1], nil
}

// Pick returns the element depth slots below the top (Pick(0) == Top()).
func (s *OperandStack) Pick(depth int) (*ir.Value, error) {
	idx := len(s.simulated) - 1 - depth
	if idx < 0 {
		return nil, emptyError("Pick")
	}
	return s.simulated[idx], nil
}

// Dup pushes a copy of the current top element.
func (s *OperandStack) Dup() error {
	v, err := s.Top()
	if err != nil {
		return err
	}
	return s.Push(v)
}

// Drop removes the top count elements. Drop(depth) empties the stack;
// Drop(n) for n > depth is a construction error.
func (s *OperandStack) Drop(count int) error {
	if count < 0 || count > len(s.simulated) {
		return emptyError("Drop")
	}
	s.simulated = s.simulated[:len(s.simulated)-count]
	return nil
}

func (s *OperandStack) slotAddress(b *ir.Builder, loc ir.Location, index int) (*ir.Value, error) {
	offset, err := s.ops.ConstInt(b, loc, s.top.addrType, int64(index)*s.elementSize)
	if err != nil {
		return nil, err
	}
	return s.ops.Add(b, loc, s.base, offset)
}

// Commit writes every currently-simulated element back through the real
// backing store and advances the real top pointer to match the
// simulated depth. The simulated stack itself is unchanged.
func (s *OperandStack) Commit(b *ir.Builder, loc ir.Location) error {
	for i, v := range s.simulated {
		addr, err := s.slotAddress(b, loc, i)
		if err != nil {
			return err
		}
		if err := s.ops.Store(b, loc, addr, v); err != nil {
			return err
		}
	}
	topAddr, err := s.slotAddress(b, loc, len(s.simulated))
	if err != nil {
		return err
	}
	s.top.value = topAddr
	s.builder = b
	return s.top.Commit(b, loc)
}

// Reload discards the simulated values and rereads each slot up to the
// current depth from the backing store — used after a
// call that may have mutated the real stack in place. Depth itself is
// not rediscovered; Reload trusts the simulated depth and refreshes only
// the values.
func (s *OperandStack) Reload(b *ir.Builder, loc ir.Location) error {
	if err := s.top.Reload(b, loc); err != nil {
		return err
	}
	for i := range s.simulated {
		addr, err := s.slotAddress(b, loc, i)
		if err != nil {
			return err
		}
		v, err := s.ops.Load(b, loc, addr, s.elementType)
		if err != nil {
			return err
		}
		s.simulated[i] = v
	}
	s.builder = b
	return nil
}

// UpdateStack repoints the backing array's base address at newBase, for
// use when the front end has reallocated (grown) the real backing store
// mid-construction. It does not itself emit any Operation; the next
// Commit or Reload will read/write through newBase.
func (s *OperandStack) UpdateStack(newBase *ir.Value) {
	s.base = newBase
}

// MakeCopy clones the OperandStack's simulated state (not the backing
// store) for use starting a divergent control-flow path. The Values in
// the clone alias the original's; pushing/popping the clone does not
// affect the original.
func (s *OperandStack) MakeCopy() *OperandStack {
	cp := &OperandStack{
		elementType: s.elementType,
		elementSize: s.elementSize,
		ops:         s.ops,
		base:        s.base,
		top:         s.top.Clone(),
		simulated:   append([]*ir.Value(nil), s.simulated...),
		builder:     s.builder,
	}
	return cp
}

// MergeInto merges s (as produced at the end of its predecessor Builder)
// with other (as produced at the end of other's predecessor Builder) at
// a control-flow join, producing the OperandStack installed on target.
// Depths and per-slot element types must match exactly, or MergeInto
// fails; it does not widen to a common supertype.
//
// The merge stores each predecessor's slot value back to the same
// backing slot on its own incoming Builder (so both predecessors commit
// to one shared location), then reloads the merged values fresh on
// target — giving target a simulated stack structurally equal to either
// predecessor's.
func (s *OperandStack) MergeInto(other *OperandStack, target *ir.Builder, loc ir.Location) (*OperandStack, error) {
	if s.Depth() != other.Depth() {
		return nil, emptyError("MergeInto: mismatched stack depths")
	}
	for i := range s.simulated {
		if !s.simulated[i].Type().Equal(other.simulated[i].Type()) {
			return nil, typeError("MergeInto", s.simulated[i].Type(), other.simulated[i].Type())
		}
	}
	for i := range s.simulated {
		addr, err := s.slotAddress(s.builder, loc, i)
		if err != nil {
			return nil, err
		}
		if err := s.ops.Store(s.builder, loc, addr, s.simulated[i]); err != nil {
			return nil, err
		}
		otherAddr, err := other.slotAddress(other.builder, loc, i)
		if err != nil {
			return nil, err
		}
		if err := other.ops.Store(other.builder, loc, otherAddr, other.simulated[i]); err != nil {
			return nil, err
		}
	}

	merged := &OperandStack{
		elementType: s.elementType,
		elementSize: s.elementSize,
		ops:         s.ops,
		base:        s.base,
		top:         s.top.Clone(),
		simulated:   make([]*ir.Value, len(s.simulated)),
		builder:     target,
	}
	for i := range merged.simulated {
		addr, err := merged.slotAddress(target, loc, i)
		if err != nil {
			return nil, err
		}
		v, err := merged.ops.Load(target, loc, addr, merged.elementType)
		if err != nil {
			return nil, err
		}
		merged.simulated[i] = v
	}
	return merged, nil
}
