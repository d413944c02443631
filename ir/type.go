package ir

import (
	"fmt"

	"github.com/mstoodle/jb2go/internal/arena"
	"github.com/mstoodle/jb2go/kind"
)

// Type is the core IR Type contract: immutable, with an id, a
// size in bits, a name, an owning Extension, and a kind. Types form a DAG
// by reference only.
type Type interface {
	kind.Kinded
	ID() arena.ID
	Name() string
	SizeInBits() int64
	Owner() string
	// IsInteger reports whether this Type is one of the core's built-in
	// integer kinds; several operations (ForLoopUp's loop variable, the
	// checker examples in sample) restrict themselves to Int8/16/32/64.
	IsInteger() bool
	// Equal reports structural identity: two Types are the same Type
	// within one IR iff they have the same structural name.
	Equal(other Type) bool
	// Zero and Identity give every Type an additive-zero and a
	// multiplicative-identity Literal.
	Zero() *Literal
	Identity() *Literal
}

type typeBase struct {
	id    arena.ID
	name  string
	bits  int64
	owner string
	k     kind.ID
}

func (t *typeBase) ID() arena.ID        { return t.id }
func (t *typeBase) Name() string        { return t.name }
func (t *typeBase) SizeInBits() int64   { return t.bits }
func (t *typeBase) Owner() string       { return t.owner }
func (t *typeBase) Kind() kind.ID       { return t.k }
func (t *typeBase) IsInteger() bool     { return false }

// IntType is a fixed-width two's-complement integer type (Int8/16/32/64 in
// the core's vocabulary).
type IntType struct {
	typeBase
}

func newIntType(a *arena.Arena, bits int64) *IntType {
	t := arena.Alloc[IntType](a)
	t.typeBase = typeBase{id: a.NextID(), name: fmt.Sprintf("Int%d", bits), bits: bits, owner: "core", k: KindIntType}
	return t
}

func (t *IntType) IsInteger() bool { return true }
func (t *IntType) Equal(other Type) bool { return other != nil && other.Name() == t.name }

func (t *IntType) Zero() *Literal {
	return &Literal{typ: t, bytes: make([]byte, t.bits/8)}
}

func (t *IntType) Identity() *Literal {
	b := make([]byte, t.bits/8)
	b[0] = 1
	return &Literal{typ: t, bytes: b}
}

// FloatType is an IEEE-754 binary floating point type (Float32/64).
type FloatType struct {
	typeBase
}

func newFloatType(a *arena.Arena, bits int64) *FloatType {
	t := arena.Alloc[FloatType](a)
	t.typeBase = typeBase{id: a.NextID(), name: fmt.Sprintf("Float%d", bits), bits: bits, owner: "core", k: KindFloatType}
	return t
}

func (t *FloatType) Equal(other Type) bool { return other != nil && other.Name() == t.name }
func (t *FloatType) Zero() *Literal         { return &Literal{typ: t, bytes: make([]byte, t.bits/8)} }
func (t *FloatType) Identity() *Literal {
	b := make([]byte, t.bits/8)
	if t.bits == 32 {
		b[3] = 0x3f
		b[2] = 0x80
	} else {
		b[7] = 0x3f
		b[6] = 0xf0
	}
	return &Literal{typ: t, bytes: b}
}

// AddressType is the core's untyped machine-word pointer type.
type AddressType struct {
	typeBase
}

func newAddressType(a *arena.Arena, wordBits int64) *AddressType {
	t := arena.Alloc[AddressType](a)
	t.typeBase = typeBase{id: a.NextID(), name: "Address", bits: wordBits, owner: "core", k: KindAddress}
	return t
}

func (t *AddressType) Equal(other Type) bool { return other != nil && other.Name() == t.name }
func (t *AddressType) Zero() *Literal         { return &Literal{typ: t, bytes: make([]byte, t.bits/8)} }
func (t *AddressType) Identity() *Literal {
	b := make([]byte, t.bits/8)
	b[0] = 1
	return &Literal{typ: t, bytes: b}
}

// PointerType is a typed pointer to baseType. baseType must already exist
// in the IR before the PointerType is created.
type PointerType struct {
	typeBase
	Base Type
}

func newPointerType(a *arena.Arena, base Type, wordBits int64) *PointerType {
	t := arena.Alloc[PointerType](a)
	t.typeBase = typeBase{id: a.NextID(), name: "PointerTo(" + base.Name() + ")", bits: wordBits, owner: "core", k: KindPointer}
	t.Base = base
	return t
}

func (t *PointerType) Equal(other Type) bool { return other != nil && other.Name() == t.name }
func (t *PointerType) Zero() *Literal         { return &Literal{typ: t, bytes: make([]byte, t.bits/8)} }
func (t *PointerType) Identity() *Literal     { return t.Zero() }

// FieldType describes one field of a StructType: its owning struct, its
// value type, and its byte offset.
type FieldType struct {
	typeBase
	Owner_ *StructType
	Field  Type
	Offset int64
}

func newFieldType(a *arena.Arena, owner *StructType, name string, fieldType Type, offset int64) *FieldType {
	t := arena.Alloc[FieldType](a)
	t.typeBase = typeBase{id: a.NextID(), name: name, bits: fieldType.SizeInBits(), owner: "core", k: KindField}
	t.Owner_ = owner
	t.Field = fieldType
	t.Offset = offset
	return t
}

func (t *FieldType) Equal(other Type) bool { return other != nil && other.Name() == t.name }
func (t *FieldType) Zero() *Literal         { return t.Field.Zero() }
func (t *FieldType) Identity() *Literal     { return t.Field.Identity() }

// StructType is an ordered collection of named FieldTypes.
type StructType struct {
	typeBase
	Fields []*FieldType
}

func newStructType(a *arena.Arena, name string) *StructType {
	t := arena.Alloc[StructType](a)
	t.typeBase = typeBase{id: a.NextID(), name: name, bits: 0, owner: "core", k: KindStruct}
	return t
}

// AddField appends a new FieldType to the struct at the next packed
// offset: fields are laid out back to back at their own size, with no
// padding (the core does not model target-specific alignment).
func (t *StructType) AddField(a *arena.Arena, name string, fieldType Type) *FieldType {
	offset := t.bits / 8
	f := newFieldType(a, t, name, fieldType, offset)
	t.Fields = append(t.Fields, f)
	t.bits += fieldType.SizeInBits()
	return f
}

// FieldNamed returns the FieldType with the given name, if any.
func (t *StructType) FieldNamed(name string) (*FieldType, bool) {
	for _, f := range t.Fields {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

func (t *StructType) Equal(other Type) bool { return other != nil && other.Name() == t.name }
func (t *StructType) Zero() *Literal {
	return &Literal{typ: t, bytes: make([]byte, t.bits/8)}
}
func (t *StructType) Identity() *Literal { return t.Zero() }

// FunctionType is a callable signature: a return Type plus ordered
// parameter Types.
type FunctionType struct {
	typeBase
	Return Type
	Params []Type
}

func newFunctionType(a *arena.Arena, wordBits int64, ret Type, params []Type) *FunctionType {
	sig := signatureName(ret, params)
	t := arena.Alloc[FunctionType](a)
	t.typeBase = typeBase{id: a.NextID(), name: sig, bits: wordBits, owner: "core", k: KindFunction}
	t.Return = ret
	t.Params = append([]Type(nil), params...)
	return t
}

func signatureName(ret Type, params []Type) string {
	s := "Func("
	for i, p := range params {
		if i > 0 {
			s += ","
		}
		s += p.Name()
	}
	s += ")->" + ret.Name()
	return s
}

func (t *FunctionType) Equal(other Type) bool { return other != nil && other.Name() == t.name }
func (t *FunctionType) Zero() *Literal         { return &Literal{typ: t, bytes: make([]byte, t.bits/8)} }
func (t *FunctionType) Identity() *Literal     { return t.Zero() }
