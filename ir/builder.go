package ir

import (
	"fmt"

	"github.com/mstoodle/jb2go/internal/arena"
	"github.com/mstoodle/jb2go/kind"
)

// Boundness tracks whether a Builder may still be bound as a child region
// of some Operation. It only moves forward:
// Cant -> May -> Must.
type Boundness int

const (
	// Cant means the Builder can never be bound (e.g. it is a root entry
	// Builder named directly by a Scope).
	Cant Boundness = iota
	// May means the Builder is free-standing and eligible to be bound or
	// to be used as an unstructured transfer target.
	May
	// Must means the Builder is bound as the child region of exactly one
	// Operation; it executes inline wherever that Operation sits.
	Must
)

// Builder is an ordered, owned sequence of Operations.
type Builder struct {
	id     arena.ID
	ir     *IR
	parent *Builder

	ops []Operation

	boundTo   Operation
	boundness Boundness
	isTarget  bool

	controlReachesEnd bool
}

func newBuilder(ir *IR, parent *Builder, boundness Boundness) *Builder {
	b := arena.Alloc[Builder](ir.arena)
	b.id = ir.arena.NextID()
	b.ir = ir
	b.parent = parent
	b.boundness = boundness
	b.controlReachesEnd = true
	ir.builders = append(ir.builders, b)
	return b
}

// ID returns the Builder's arena identity.
func (b *Builder) ID() arena.ID { return b.id }

// Kind satisfies kind.Kinded.
func (b *Builder) Kind() kind.ID { return KindBuilder }

// IR returns the IR this Builder belongs to.
func (b *Builder) IR() *IR { return b.ir }

// Parent returns the lexically enclosing Builder, or nil for a Builder
// owned directly by a Scope.
func (b *Builder) Parent() *Builder { return b.parent }

// Boundness reports the Builder's current Cant/May/Must state.
func (b *Builder) Boundness() Boundness { return b.boundness }

// BoundTo returns the Operation this Builder is bound as a child region
// of, or nil if it is not (yet) bound.
func (b *Builder) BoundTo() Operation { return b.boundTo }

// IsTarget reports whether some Operation elsewhere may transfer control to
// this Builder.
func (b *Builder) IsTarget() bool { return b.isTarget }

// ControlReachesEnd reports whether falling off the end of this Builder's
// operation list reaches the point after it, i.e. the last Operation is
// not a terminating control-flow op.
func (b *Builder) ControlReachesEnd() bool { return b.controlReachesEnd }

// Operations returns the Builder's Operations in append order.
func (b *Builder) Operations() []Operation { return b.ops }

// markTarget flags this Builder as reachable via an unstructured transfer
// (Goto/IfCmp*). Called by the core control-flow constructors in
// control.go.
func (b *Builder) markTarget() { b.isTarget = true }

// bindTo marks this Builder Must-bound to owner. In a language with
// destructors this would run when a guard value owning the child Builder
// is dropped; Go has none, so core operation constructors call bindTo
// explicitly, exactly once, at the point they take ownership of a child
// Builder (ForLoopUp's body/break/continue, IfThenElse's then/else,
// Switch's cases, AppendBuilder).
func (b *Builder) bindTo(owner Operation) error {
	if b.boundness == Must {
		return builderAlreadyBoundError(b)
	}
	if b.boundness == Cant {
		return fmt.Errorf("ir: builder %d is a Scope entry Builder and cannot be bound", b.id)
	}
	b.boundness = Must
	b.boundTo = owner
	return nil
}

// terminator is implemented by Operations whose Append sets
// controlReachesEnd false (in the core, Goto).
type terminator interface {
	Terminates() bool
}

// Append adds op to the end of this Builder's operation list, updating
// controlReachesEnd if op is a terminating control-flow operation.
func (b *Builder) Append(op Operation) {
	b.ops = append(b.ops, op)
	if t, ok := op.(terminator); ok && t.Terminates() {
		b.controlReachesEnd = false
	}
}

// AppendBuilder splices the free-standing Builder free into b at the
// current point: free becomes a Must-bound child of the
// returned Operation, control transfers into it, and — provided free's
// ControlReachesEnd is true — resumes after it, so b.ControlReachesEnd
// becomes free.ControlReachesEnd after the splice.
func (b *Builder) AppendBuilder(loc Location, free *Builder) (Operation, error) {
	if free.boundness == Must {
		return nil, builderAlreadyBoundError(free)
	}
	op := NewOp(b.ir.arena, OpSpec{
		Action: b.ir.coreActions.appendBuilder, Name: "AppendBuilder",
		Owner: "core", Parent: b, Location: loc, Builders: []*Builder{free},
	})
	if err := free.bindTo(op); err != nil {
		return nil, err
	}
	b.Append(op)
	if !free.controlReachesEnd {
		b.controlReachesEnd = false
	}
	return op, nil
}
