// Package vm implements a stack-machine VM-state abstraction: a
// VirtualMachineRegister simulating one machine
// register backed by a memory cell, and a VirtualMachineOperandStack
// built on top of it. Both are construction-time helpers: their methods
// append Operations (via a caller-supplied MemoryOps) to whichever
// Builder the front end is currently populating, and update an in-memory
// simulated model the front end consults instead of re-reading memory on
// every access.
package vm

import "github.com/mstoodle/jb2go/ir"

// MemoryOps supplies the Load/Store/address-arithmetic building blocks
// Register and OperandStack need to synthesize Operations. A concrete
// extension implements this against its own load/store/add/constant
// Operation constructors; the vm package stays extension-agnostic, with
// no hard-wired leaf types of its own. No package in this module
// implements it outside vm's own tests.
type MemoryOps interface {
	Load(b *ir.Builder, loc ir.Location, address *ir.Value, elementType ir.Type) (*ir.Value, error)
	Store(b *ir.Builder, loc ir.Location, address, value *ir.Value) error
	Add(b *ir.Builder, loc ir.Location, left, right *ir.Value) (*ir.Value, error)
	ConstInt(b *ir.Builder, loc ir.Location, t ir.Type, value int64) (*ir.Value, error)
}

// Register simulates one VirtualMachineRegister: a named,
// pointer-valued register. Its current value is tracked purely in Go
// state (Value); Commit/Reload are the only operations that touch real
// memory, synchronizing Value against the memory cell at backing.
type Register struct {
	name     string
	ops      MemoryOps
	backing  *ir.Value // address of the memory cell backing this register across Commit/Reload
	addrType ir.Type   // the Type of the register's own value (an Address or Pointer type)
	value    *ir.Value // current simulated value
}

// NewRegister creates a Register named name, whose value is backed at
// address backing and initially holds initial (typically the stack's
// starting top-of-stack address).
func NewRegister(name string, backing *ir.Value, addrType ir.Type, initial *ir.Value, ops MemoryOps) *Register {
	return &Register{name: name, ops: ops, backing: backing, addrType: addrType, value: initial}
}

// Name returns the register's name.
func (r *Register) Name() string { return r.name }

// Value returns the register's current simulated value.
func (r *Register) Value() *ir.Value { return r.value }

// Load dereferences the register's current value as an address, reading
// a value of elementType.
func (r *Register) Load(b *ir.Builder, loc ir.Location, elementType ir.Type) (*ir.Value, error) {
	return r.ops.Load(b, loc, r.value, elementType)
}

// Store dereferences the register's current value as an address,
// writing v there.
func (r *Register) Store(b *ir.Builder, loc ir.Location, v *ir.Value) error {
	return r.ops.Store(b, loc, r.value, v)
}

// Adjust adds delta (in units of the register's own addrType) to the
// register's simulated value, without touching memory — the pointer-
// arithmetic primitive an OperandStack uses to advance its top register.
func (r *Register) Adjust(b *ir.Builder, loc ir.Location, delta int64) error {
	d, err := r.ops.ConstInt(b, loc, r.addrType, delta)
	if err != nil {
		return err
	}
	nv, err := r.ops.Add(b, loc, r.value, d)
	if err != nil {
		return err
	}
	r.value = nv
	return nil
}

// Commit writes the register's current simulated value out to its
// backing memory cell.
func (r *Register) Commit(b *ir.Builder, loc ir.Location) error {
	return r.ops.Store(b, loc, r.backing, r.value)
}

// Reload discards the simulated value and rereads it from the backing
// memory cell.
func (r *Register) Reload(b *ir.Builder, loc ir.Location) error {
	v, err := r.ops.Load(b, loc, r.backing, r.addrType)
	if err != nil {
		return err
	}
	r.value = v
	return nil
}

// Clone returns an independent copy of r, for use on a divergent
// control-flow path.
func (r *Register) Clone() *Register {
	cp := *r
	return &cp
}
