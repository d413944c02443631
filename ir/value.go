package ir

import (
	"github.com/mstoodle/jb2go/internal/arena"
	"github.com/mstoodle/jb2go/kind"
)

// Value is a typed, single-assignment producer: every Value
// has exactly one defining Operation and a type fixed at creation.
type Value struct {
	id   arena.ID
	name string
	typ  Type
	def  Operation
}

// NewValue allocates a new Value of typ, not yet attached to a defining
// Operation. Operation constructors call this and then record themselves
// as the Value's definer via SetDef.
func NewValue(a *arena.Arena, name string, typ Type) *Value {
	v := arena.Alloc[Value](a)
	v.id = a.NextID()
	v.name = name
	v.typ = typ
	return v
}

// ID returns the Value's arena identity.
func (v *Value) ID() arena.ID { return v.id }

// Name returns the Value's (possibly empty) debug name.
func (v *Value) Name() string { return v.name }

// Type returns the Value's fixed type.
func (v *Value) Type() Type { return v.typ }

// Def returns the Operation that defines this Value.
func (v *Value) Def() Operation { return v.def }

// SetDef records op as the Value's unique defining Operation. It is called
// exactly once, by the Operation constructor that produces this Value as a
// result.
func (v *Value) SetDef(op Operation) { v.def = op }

// Kind satisfies kind.Kinded so Values participate in the ExtensibleKind
// tree like every other IR base.
func (v *Value) Kind() kind.ID { return KindValue }
