package ir

import (
	"sync"

	"github.com/mstoodle/jb2go/internal/arena"
	"github.com/mstoodle/jb2go/kind"
)

// ActionID is a dense integer naming a specific Operation shape registered
// by an Extension. ActionIDs are scoped to one
// Compiler via an ActionRegistry, not process-global like kind.ID.
type ActionID int

// ActionRegistry assigns dense ActionIDs and remembers their display names,
// for one Compiler's lifetime.
type ActionRegistry struct {
	mu    sync.Mutex
	next  ActionID
	names map[ActionID]string
}

// NewActionRegistry returns an empty ActionRegistry. ActionID 0 is reserved
// as "no action" so real actions start at 1.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{next: 1, names: map[ActionID]string{0: "<no action>"}}
}

// Register assigns a new ActionID for name.
func (r *ActionRegistry) Register(name string) ActionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.names[id] = name
	return id
}

// Name returns the display name for id.
func (r *ActionRegistry) Name(id ActionID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.names[id]; ok {
		return n
	}
	return "<unknown action>"
}

// Operation is the fundamental IR node. Shape names like
// "OperationR1V2" or "OperationB1R0V2" are a naming convenience for
// extensions, not distinct Go types: every concrete Operation is
// represented by *Op, populated by NewOp from an OpSpec whose filled-in
// slices give the operation its shape, while the runtime representation
// — and the clone/log/iterate contract — is uniform.
type Operation interface {
	kind.Kinded
	ID() arena.ID
	ActionID() ActionID
	Name() string
	Owner() string
	Parent() *Builder
	Location() Location

	Operands() []*Value
	Results() []*Value
	TypeOperands() []Type
	LiteralOperands() []*Literal
	SymbolOperands() []Symbol
	ChildBuilders() []*Builder
	// Extra returns shape-specific structured data that doesn't fit the
	// uniform operand/result arrays (e.g. a transfer op's unstructured
	// target Builder, which — unlike a structured construct's owned child
	// Builders — must not be bound).
	Extra() any

	// Clone produces a duplicate of this Operation in dest, using cloner's
	// per-kind mapping tables.
	Clone(dest *Builder, cloner *Cloner) Operation
	// Log emits this Operation's one-line textual form.
	Log(w Logger)
}

// Op is the uniform concrete representation backing every Operation shape.
type Op struct {
	id       arena.ID
	action   ActionID
	name     string // e.g. "Add", "ForLoopUp" — used for logging
	owner    string
	parent   *Builder
	loc      Location
	operands []*Value
	results  []*Value
	types    []Type
	literals []*Literal
	symbols  []Symbol
	builders []*Builder

	// extra carries shape-specific structured data (e.g. Switch's case
	// list) that doesn't fit the uniform slices. An optional logger/cloner
	// override supplied by the constructing Extension is held in
	// logFn/cloneFn.
	extra any

	logFn   func(op *Op, w Logger)
	cloneFn func(op *Op, dest *Builder, cloner *Cloner) Operation
}

// OpSpec is the set of arity-typed inputs an extension supplies when
// constructing a new Operation via NewOp. Every field may be left nil/empty
// for shapes that don't use it; that's what makes Operation "shape
// classes" a naming convention rather than a type hierarchy.
type OpSpec struct {
	Action   ActionID
	Name     string
	Owner    string
	Parent   *Builder
	Location Location
	Operands []*Value
	Results  []*Value
	Types    []Type
	Literals []*Literal
	Symbols  []Symbol
	Builders []*Builder
	Extra    any
	LogFn    func(op *Op, w Logger)
	CloneFn  func(op *Op, dest *Builder, cloner *Cloner) Operation
}

// NewOp allocates and fully populates an Operation from spec and records
// each Result's defining Operation. It does not append the Operation to
// spec.Parent (the caller does that with Builder.Append) and does not run
// any checker chain — both are the constructing Extension's
// responsibility.
func NewOp(a *arena.Arena, spec OpSpec) *Op {
	op := arena.Alloc[Op](a)
	op.id = a.NextID()
	op.action = spec.Action
	op.name = spec.Name
	op.owner = spec.Owner
	op.parent = spec.Parent
	op.loc = spec.Location
	op.operands = spec.Operands
	op.results = spec.Results
	op.types = spec.Types
	op.literals = spec.Literals
	op.symbols = spec.Symbols
	op.builders = spec.Builders
	op.extra = spec.Extra
	op.logFn = spec.LogFn
	op.cloneFn = spec.CloneFn
	for _, r := range op.results {
		r.SetDef(op)
	}
	return op
}

func (op *Op) ID() arena.ID          { return op.id }
func (op *Op) ActionID() ActionID    { return op.action }
func (op *Op) Owner() string         { return op.owner }
func (op *Op) Parent() *Builder      { return op.parent }
func (op *Op) Location() Location    { return op.loc }
func (op *Op) Operands() []*Value    { return op.operands }
func (op *Op) Results() []*Value     { return op.results }
func (op *Op) TypeOperands() []Type  { return op.types }
func (op *Op) LiteralOperands() []*Literal { return op.literals }
func (op *Op) SymbolOperands() []Symbol    { return op.symbols }
func (op *Op) ChildBuilders() []*Builder   { return op.builders }
func (op *Op) Kind() kind.ID          { return KindOperation }
func (op *Op) Name() string           { return op.name }
func (op *Op) Extra() any             { return op.extra }

func (op *Op) Clone(dest *Builder, cloner *Cloner) Operation {
	if op.cloneFn != nil {
		return op.cloneFn(op, dest, cloner)
	}
	return defaultClone(op, dest, cloner)
}

func (op *Op) Log(w Logger) {
	if op.logFn != nil {
		op.logFn(op, w)
		return
	}
	defaultLog(op, w)
}

func defaultLog(op *Op, w Logger) {
	line := op.name
	for _, operand := range op.operands {
		line += " " + operand.Name()
	}
	for _, res := range op.results {
		line += " -> " + res.Name()
	}
	w.Line(line)
}

func defaultClone(op *Op, dest *Builder, cloner *Cloner) Operation {
	newResults := make([]*Value, len(op.results))
	for i, r := range op.results {
		newResults[i] = NewValue(dest.ir.arena, r.Name(), cloner.MapType(r.Type()))
	}
	newOperands := make([]*Value, len(op.operands))
	for i, operand := range op.operands {
		newOperands[i] = cloner.MapValue(operand)
	}
	newBuilders := make([]*Builder, len(op.builders))
	for i, b := range op.builders {
		newBuilders[i] = cloner.MapBuilder(b)
	}
	newSpec := OpSpec{
		Action: op.action, Name: op.name, Owner: op.owner, Parent: dest, Location: op.loc,
		Operands: newOperands, Results: newResults,
		Types:    mapTypes(cloner, op.types),
		Literals: mapLiterals(cloner, op.literals),
		Symbols:  mapSymbols(cloner, op.symbols),
		Builders: newBuilders,
		Extra:    op.extra, LogFn: op.logFn, CloneFn: op.cloneFn,
	}
	newOp := NewOp(dest.ir.arena, newSpec)
	for i, r := range op.results {
		cloner.recordValue(r, newResults[i])
	}
	for _, nb := range newBuilders {
		if err := nb.bindTo(newOp); err != nil {
			panic(err)
		}
	}
	dest.Append(newOp)
	return newOp
}

func mapTypes(c *Cloner, ts []Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = c.MapType(t)
	}
	return out
}

func mapLiterals(c *Cloner, ls []*Literal) []*Literal {
	out := make([]*Literal, len(ls))
	for i, l := range ls {
		out[i] = c.MapLiteral(l)
	}
	return out
}

func mapSymbols(c *Cloner, ss []Symbol) []Symbol {
	out := make([]Symbol, len(ss))
	for i, s := range ss {
		out[i] = c.MapSymbol(s)
	}
	return out
}
