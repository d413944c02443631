package ir

import "fmt"

// This file implements the structured and unstructured control-flow
// constructs the core provides directly, rather than through the
// extension/checker mechanism: Goto, the six IfCmp* comparisons,
// ForLoopUp, IfThenElse, and Switch. Each enforces its own fixed
// invariants inline; none goes through a CheckerRegistry chain.

// transferExtra carries the unstructured-transfer target of a Goto or
// IfCmp* operation. It is held in Extra rather than the Builders array
// because a transfer target is referenced, not owned: the same Builder
// can be the target of many Gotos, which would conflict with the
// exactly-one-owner rule defaultClone's Builders handling enforces via
// bindTo.
type transferExtra struct {
	Target *Builder
}

// switchExtra records whether a Switch operation's last child Builder is
// a default case, and each non-default case's fall-through flag: a case
// with FallsThrough true proceeds into the next case's Body after its own
// Body runs, rather than past the Switch. Parallel by index to the
// Literal operands.
// It holds no object references so defaultClone's verbatim Extra copy is
// safe.
type switchExtra struct {
	HasDefault   bool
	FallsThrough []bool
}

func controlMismatch(op string, want, got Type) error { return typeMismatchError(op, want, got) }

// Goto unconditionally transfers control from b to target.
// target need not yet exist as a reachable Builder; Goto marks it as one.
func Goto(b *Builder, loc Location, target *Builder) (Operation, error) {
	if target == nil {
		return nil, fmt.Errorf("ir: Goto: target must not be nil")
	}
	target.markTarget()
	op := NewOp(b.ir.arena, OpSpec{
		Action: b.ir.coreActions.goto_, Name: "Goto", Owner: "core", Parent: b, Location: loc,
		Extra:   transferExtra{Target: target},
		CloneFn: cloneTransfer(true),
	})
	wrapped := Operation(&gotoOp{op})
	b.Append(wrapped)
	return wrapped, nil
}

// gotoOp wraps *Op purely to advertise Terminates() == true, so
// Builder.Append marks the host Builder's controlReachesEnd false: after
// an unconditional Goto, falling off the end of its Builder does not
// reach the point after it.
type gotoOp struct{ *Op }

func (g *gotoOp) Terminates() bool { return true }

func (g *gotoOp) Clone(dest *Builder, cloner *Cloner) Operation {
	return cloneTransfer(true)(g.Op, dest, cloner)
}

// cmpKind names one of the six core comparisons IfCmp* supports.
type cmpKind int

const (
	CmpEqual cmpKind = iota
	CmpNotEqual
	CmpGreaterThan
	CmpGreaterOrEqual
	CmpLessThan
	CmpLessOrEqual
)

func (k cmpKind) name() string {
	switch k {
	case CmpEqual:
		return "IfCmpEqual"
	case CmpNotEqual:
		return "IfCmpNotEqual"
	case CmpGreaterThan:
		return "IfCmpGreaterThan"
	case CmpGreaterOrEqual:
		return "IfCmpGreaterOrEqual"
	case CmpLessThan:
		return "IfCmpLessThan"
	default:
		return "IfCmpLessOrEqual"
	}
}

func (k cmpKind) action(ir *IR) ActionID {
	switch k {
	case CmpEqual:
		return ir.coreActions.ifCmpEqual
	case CmpNotEqual:
		return ir.coreActions.ifCmpNotEqual
	case CmpGreaterThan:
		return ir.coreActions.ifCmpGreaterThan
	case CmpGreaterOrEqual:
		return ir.coreActions.ifCmpGreaterOrEqual
	case CmpLessThan:
		return ir.coreActions.ifCmpLessThan
	default:
		return ir.coreActions.ifCmpLessOrEqual
	}
}

// IfCmp constructs a conditional unstructured transfer: control falls
// through to the next Operation in b unless left `kind`
// right holds, in which case it transfers to target. left and right must
// have the same Type.
func IfCmp(b *Builder, loc Location, kind cmpKind, left, right *Value, target *Builder) (Operation, error) {
	if target == nil {
		return nil, fmt.Errorf("ir: %s: target must not be nil", kind.name())
	}
	if !left.Type().Equal(right.Type()) {
		return nil, controlMismatch(kind.name(), left.Type(), right.Type())
	}
	target.markTarget()
	op := NewOp(b.ir.arena, OpSpec{
		Action: kind.action(b.ir), Name: kind.name(), Owner: "core", Parent: b, Location: loc,
		Operands: []*Value{left, right},
		Extra:    transferExtra{Target: target},
		CloneFn:  cloneTransfer(false),
	})
	b.Append(op)
	return op, nil
}

// cloneTransfer returns a CloneFn for a transfer operation whose target
// lives in Extra rather than the Builders array (so it must be remapped
// explicitly, never bound). terminates selects whether the clone is
// re-wrapped as a gotoOp.
func cloneTransfer(terminates bool) func(op *Op, dest *Builder, cloner *Cloner) Operation {
	return func(op *Op, dest *Builder, cloner *Cloner) Operation {
		newResults := make([]*Value, len(op.results))
		for i, r := range op.results {
			newResults[i] = NewValue(dest.ir.arena, r.Name(), cloner.MapType(r.Type()))
		}
		newOperands := make([]*Value, len(op.operands))
		for i, operand := range op.operands {
			newOperands[i] = cloner.MapValue(operand)
		}
		te := op.extra.(transferExtra)
		newSpec := OpSpec{
			Action: op.action, Name: op.name, Owner: op.owner, Parent: dest, Location: op.loc,
			Operands: newOperands, Results: newResults,
			Types: mapTypes(cloner, op.types), Literals: mapLiterals(cloner, op.literals), Symbols: mapSymbols(cloner, op.symbols),
			Extra: transferExtra{Target: cloner.MapBuilder(te.Target)}, LogFn: op.logFn, CloneFn: op.cloneFn,
		}
		newOp := NewOp(dest.ir.arena, newSpec)
		for i, r := range op.results {
			cloner.recordValue(r, newResults[i])
		}
		var result Operation = newOp
		if terminates {
			result = &gotoOp{newOp}
		}
		dest.Append(result)
		return result
	}
}

// ForLoopUp constructs a canonical counted loop: loopVar
// runs from initial up to, but not including, final, stepping by increment, executing
// body each iteration; continueB is the implicit target of a "continue"
// (the loop's step-and-test), breakB the implicit target of a "break"
// (the point after the loop). loopVar's Type, and initial/final/increment,
// must all be the same integer Type.
func ForLoopUp(b *Builder, loc Location, loopVar Symbol, initial, final, increment *Value) (op Operation, body, breakB, continueB *Builder, err error) {
	if !loopVar.Type().IsInteger() {
		return nil, nil, nil, nil, fmt.Errorf("ir: ForLoopUp: loop variable %q must have an integer type", loopVar.Name())
	}
	for _, v := range []*Value{initial, final, increment} {
		if !v.Type().Equal(loopVar.Type()) {
			return nil, nil, nil, nil, controlMismatch("ForLoopUp", loopVar.Type(), v.Type())
		}
	}
	body = newBuilder(b.ir, nil, May)
	breakB = newBuilder(b.ir, nil, May)
	continueB = newBuilder(b.ir, nil, May)

	newOp := NewOp(b.ir.arena, OpSpec{
		Action: b.ir.coreActions.forLoopUp, Name: "ForLoopUp", Owner: "core", Parent: b, Location: loc,
		Operands: []*Value{initial, final, increment},
		Symbols:  []Symbol{loopVar},
		Builders: []*Builder{body, breakB, continueB},
	})
	if err := body.bindTo(newOp); err != nil {
		return nil, nil, nil, nil, err
	}
	if err := breakB.bindTo(newOp); err != nil {
		return nil, nil, nil, nil, err
	}
	if err := continueB.bindTo(newOp); err != nil {
		return nil, nil, nil, nil, err
	}
	b.Append(newOp)
	return newOp, body, breakB, continueB, nil
}

// ForLoopUpInfo decomposes a ForLoopUp Operation back into its parts.
func ForLoopUpInfo(op Operation) (loopVar Symbol, initial, final, increment *Value, body, breakB, continueB *Builder, ok bool) {
	operands := op.Operands()
	syms := op.SymbolOperands()
	builders := op.ChildBuilders()
	if len(operands) != 3 || len(syms) != 1 || len(builders) != 3 {
		return nil, nil, nil, nil, nil, nil, nil, false
	}
	return syms[0], operands[0], operands[1], operands[2], builders[0], builders[1], builders[2], true
}

// IfThenElse constructs a structured two-way branch. The else region
// is optional: with hasElse=false only a then-region is created and the
// returned elseB is nil.
func IfThenElse(b *Builder, loc Location, cond *Value, hasElse bool) (op Operation, thenB, elseB *Builder, err error) {
	if !cond.Type().IsInteger() {
		return nil, nil, nil, fmt.Errorf("ir: IfThenElse: condition must have an integer (boolean) type, got %s", cond.Type().Name())
	}
	thenB = newBuilder(b.ir, nil, May)
	builders := []*Builder{thenB}
	if hasElse {
		elseB = newBuilder(b.ir, nil, May)
		builders = append(builders, elseB)
	}
	newOp := NewOp(b.ir.arena, OpSpec{
		Action: b.ir.coreActions.ifThenElse, Name: "IfThenElse", Owner: "core", Parent: b, Location: loc,
		Operands: []*Value{cond},
		Builders: builders,
	})
	if err := thenB.bindTo(newOp); err != nil {
		return nil, nil, nil, err
	}
	if hasElse {
		if err := elseB.bindTo(newOp); err != nil {
			return nil, nil, nil, err
		}
	}
	b.Append(newOp)
	return newOp, thenB, elseB, nil
}

// IfThenElseBuilders decomposes an IfThenElse Operation. elseB is nil if
// the Operation has no else-region.
func IfThenElseBuilders(op Operation) (thenB, elseB *Builder, ok bool) {
	builders := op.ChildBuilders()
	switch len(builders) {
	case 1:
		return builders[0], nil, true
	case 2:
		return builders[0], builders[1], true
	default:
		return nil, nil, false
	}
}

// SwitchCase is one labeled arm of a Switch, paired positionally with
// Switch's Literal operands and child Builders. FallsThrough marks that,
// after Body runs, control proceeds into the next case's Body rather than
// past the Switch.
type SwitchCase struct {
	Value        *Literal
	Body         *Builder
	FallsThrough bool
}

// Switch constructs a structured multi-way branch: control
// transfers to the Body of the case whose Value equals selector, or to the
// default region if hasDefault and no case matches. Every case Value must
// share selector's Type.
func Switch(b *Builder, loc Location, selector *Value, cases []SwitchCase, hasDefault bool) (op Operation, resultCases []SwitchCase, resultDefault *Builder, err error) {
	if !selector.Type().IsInteger() {
		return nil, nil, nil, fmt.Errorf("ir: Switch: selector must have an integer type, got %s", selector.Type().Name())
	}
	if len(cases) == 0 && !hasDefault {
		return nil, nil, nil, fmt.Errorf("ir: Switch: zero cases requires a default Builder")
	}
	literals := make([]*Literal, len(cases))
	fallsThrough := make([]bool, len(cases))
	builders := make([]*Builder, 0, len(cases)+1)
	seen := make(map[literalKey]bool, len(cases))
	for i, c := range cases {
		if !c.Value.Type().Equal(selector.Type()) {
			return nil, nil, nil, controlMismatch("Switch case", selector.Type(), c.Value.Type())
		}
		key := keyOf(c.Value)
		if seen[key] {
			return nil, nil, nil, duplicateCaseLiteralError(c.Value)
		}
		seen[key] = true
		cb := newBuilder(b.ir, nil, May)
		literals[i] = c.Value
		fallsThrough[i] = c.FallsThrough
		builders = append(builders, cb)
		cases[i].Body = cb
	}
	var defaultB *Builder
	if hasDefault {
		defaultB = newBuilder(b.ir, nil, May)
		builders = append(builders, defaultB)
	}
	newOp := NewOp(b.ir.arena, OpSpec{
		Action: b.ir.coreActions.switch_, Name: "Switch", Owner: "core", Parent: b, Location: loc,
		Operands: []*Value{selector},
		Literals: literals,
		Builders: builders,
		Extra:    switchExtra{HasDefault: hasDefault, FallsThrough: fallsThrough},
	})
	for _, cb := range builders {
		if err := cb.bindTo(newOp); err != nil {
			return nil, nil, nil, err
		}
	}
	b.Append(newOp)
	return newOp, cases, defaultB, nil
}

// SwitchInfo decomposes a Switch Operation back into its selector, ordered
// cases, and optional default Builder.
func SwitchInfo(op Operation) (selector *Value, cases []SwitchCase, defaultB *Builder, ok bool) {
	operands := op.Operands()
	if len(operands) != 1 {
		return nil, nil, nil, false
	}
	meta, metaOK := op.Extra().(switchExtra)
	if !metaOK {
		return nil, nil, nil, false
	}
	literals := op.LiteralOperands()
	builders := op.ChildBuilders()
	nCases := len(literals)
	if meta.HasDefault {
		if len(builders) != nCases+1 {
			return nil, nil, nil, false
		}
		defaultB = builders[nCases]
	} else if len(builders) != nCases {
		return nil, nil, nil, false
	}
	cases = make([]SwitchCase, nCases)
	for i := 0; i < nCases; i++ {
		var falls bool
		if i < len(meta.FallsThrough) {
			falls = meta.FallsThrough[i]
		}
		cases[i] = SwitchCase{Value: literals[i], Body: builders[i], FallsThrough: falls}
	}
	return operands[0], cases, defaultB, true
}

// GotoTarget returns a Goto Operation's transfer target.
func GotoTarget(op Operation) (*Builder, bool) {
	te, ok := op.Extra().(transferExtra)
	if !ok {
		return nil, false
	}
	return te.Target, true
}

// IfCmpTarget returns an IfCmp* Operation's transfer target.
func IfCmpTarget(op Operation) (*Builder, bool) {
	te, ok := op.Extra().(transferExtra)
	if !ok {
		return nil, false
	}
	return te.Target, true
}
