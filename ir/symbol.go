package ir

import (
	"github.com/mstoodle/jb2go/internal/arena"
	"github.com/mstoodle/jb2go/kind"
)

// Symbol is a named, typed reference into some storage class:
// a local variable, a parameter, a struct field, or a function entry
// point.
type Symbol interface {
	kind.Kinded
	ID() arena.ID
	Name() string
	Type() Type
}

type symbolBase struct {
	id   arena.ID
	name string
	typ  Type
	k    kind.ID
}

func (s *symbolBase) ID() arena.ID  { return s.id }
func (s *symbolBase) Name() string  { return s.name }
func (s *symbolBase) Type() Type    { return s.typ }
func (s *symbolBase) Kind() kind.ID { return s.k }

// LocalSymbol is a local variable.
type LocalSymbol struct{ symbolBase }

// NewLocalSymbol creates a new LocalSymbol. Callers normally go through
// Context.DefineLocal instead of calling this directly.
func NewLocalSymbol(a *arena.Arena, name string, typ Type) *LocalSymbol {
	s := arena.Alloc[LocalSymbol](a)
	s.symbolBase = symbolBase{id: a.NextID(), name: name, typ: typ, k: KindLocal}
	return s
}

// ParameterSymbol is a function parameter, identified by its ordinal
// Index.
type ParameterSymbol struct {
	symbolBase
	Index int
}

// NewParameterSymbol creates a new ParameterSymbol at position index.
func NewParameterSymbol(a *arena.Arena, name string, typ Type, index int) *ParameterSymbol {
	s := arena.Alloc[ParameterSymbol](a)
	s.symbolBase = symbolBase{id: a.NextID(), name: name, typ: typ, k: KindParameter}
	s.Index = index
	return s
}

// FunctionSymbol names a compiled or external function entry point.
type FunctionSymbol struct {
	symbolBase
	EntryPoint uintptr
}

// NewFunctionSymbol creates a FunctionSymbol for a function of the given
// FunctionType. entryPoint is 0 until the function is resolved (e.g. by a
// later Compilation populating a CompiledBody).
func NewFunctionSymbol(a *arena.Arena, name string, fnType *FunctionType, entryPoint uintptr) *FunctionSymbol {
	s := arena.Alloc[FunctionSymbol](a)
	s.symbolBase = symbolBase{id: a.NextID(), name: name, typ: fnType, k: KindFuncSym}
	s.EntryPoint = entryPoint
	return s
}

// FieldSymbol names one field of a struct type, carrying the struct type
// and byte offset alongside the field's own type.
type FieldSymbol struct {
	symbolBase
	Struct *StructType
	Field  *FieldType
}

// NewFieldSymbol creates a FieldSymbol over field of structType.
func NewFieldSymbol(a *arena.Arena, structType *StructType, field *FieldType) *FieldSymbol {
	s := arena.Alloc[FieldSymbol](a)
	s.symbolBase = symbolBase{id: a.NextID(), name: field.Name(), typ: field.Field, k: KindFieldSym}
	s.Struct = structType
	s.Field = field
	return s
}
