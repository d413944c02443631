// Package typereplace implements a type-driven IR rewrite: a
// client-supplied mapping from source Types to one-or-
// more target Types (a Type may "explode" into several, typically a
// struct's scalar fields) drives a single-pass rewrite of every Value,
// Symbol, parameter, and Operation in an IR.
package typereplace

import (
	"fmt"
	"sort"

	"github.com/mstoodle/jb2go/ir"
)

// Field is one destination slot a source Type maps to.
type Field struct {
	// Suffix names this field when the mapping explodes (len(Fields) >
	// 1): the rewritten name is "<original>.<Suffix>". Suffix is ignored
	// for a non-exploding (scalar) one-Field Mapping.
	Suffix string
	Type   ir.Type
}

// Mapping describes how one source Type rewrites. Its Fields' Types must
// already exist in the source IR being rewritten (Replace rebuilds every
// other, unmapped Type structurally in the destination IR, but a mapped
// Type's replacement is taken as given).
type Mapping struct {
	Fields []Field
}

// Exploded reports whether m rewrites its source Type into more than one
// destination field.
func (m Mapping) Exploded() bool { return len(m.Fields) > 1 }

// Scalar builds a non-exploding Mapping: the source Type is simply
// replaced by to.
func Scalar(to ir.Type) Mapping { return Mapping{Fields: []Field{{Type: to}}} }

// Explode builds a Mapping that rewrites its source Type into the given
// named fields, e.g. for a struct replaced by its scalar members.
func Explode(fields ...Field) Mapping { return Mapping{Fields: fields} }

// Expander is implemented by Operations that must rebuild themselves
// (rather than being cloned with remapped operands) when one of their
// typed operands, results, or symbols maps to an exploded Mapping.
// Operations that never touch a struct-shaped Type do not need to
// implement it; Replace clones them with remapped operands/results.
type Expander interface {
	Expand(r *Replacer, dest *ir.Builder) error
}

// Replacer carries out one single-pass TypeReplacer rewrite. It is
// not reusable across rewrites with a different mapping;
// construct a fresh one per Replace call.
type Replacer struct {
	dest    *ir.IR
	mapping map[ir.Type]Mapping

	types    map[ir.Type]ir.Type
	literals map[*ir.Literal]*ir.Literal
	symbols  map[ir.Symbol]ir.Symbol
	// values maps a source Value to its rewritten replacement(s): one
	// entry for a scalar (non-exploding) rewrite, several for an
	// exploded one.
	values map[*ir.Value][]*ir.Value
	// params maps an original ParameterSymbol to the parameter(s) it
	// rewrites into, in order, with indices already renumbered against
	// every other parameter's explosion.
	params   map[*ir.ParameterSymbol][]*ir.ParameterSymbol
	builders map[*ir.Builder]*ir.Builder
}

func newReplacer(mapping map[ir.Type]Mapping) *Replacer {
	return &Replacer{
		mapping:  mapping,
		types:    map[ir.Type]ir.Type{},
		literals: map[*ir.Literal]*ir.Literal{},
		symbols:  map[ir.Symbol]ir.Symbol{},
		values:   map[*ir.Value][]*ir.Value{},
		params:   map[*ir.ParameterSymbol][]*ir.ParameterSymbol{},
		builders: map[*ir.Builder]*ir.Builder{},
	}
}

// Dest returns the IR under construction.
func (r *Replacer) Dest() *ir.IR { return r.dest }

// MappingFor reports the Mapping registered for t, if any.
func (r *Replacer) MappingFor(t ir.Type) (Mapping, bool) {
	m, ok := r.mapping[t]
	return m, ok
}

func (r *Replacer) isExploded(t ir.Type) bool {
	m, ok := r.mapping[t]
	return ok && m.Exploded()
}

// MapScalarType rewrites t per its Mapping, or structurally rebuilds it
// in the destination IR's own TypeDictionary if t has no Mapping. It
// panics if t's Mapping explodes (callers that might see an exploded
// Type must check MappingFor first and branch to the tuple path).
func (r *Replacer) MapScalarType(t ir.Type) ir.Type {
	if nt, ok := r.types[t]; ok {
		return nt
	}
	if m, ok := r.mapping[t]; ok {
		if m.Exploded() {
			panic(fmt.Sprintf("typereplace: %s has an exploded Mapping; use MappingFor and explode explicitly", t.Name()))
		}
		nt := r.MapScalarType(m.Fields[0].Type)
		r.types[t] = nt
		return nt
	}
	return r.rebuildType(t)
}

// rebuildType reconstructs an unmapped source Type structurally against
// the destination IR's TypeDictionary, the same way ir.Cloner.MapType
// does for a straight clone — a Type absent from the client's mapping
// passes through unchanged in shape, just reallocated in dest.
func (r *Replacer) rebuildType(t ir.Type) ir.Type {
	switch v := t.(type) {
	case *ir.IntType:
		var nt ir.Type
		switch v.SizeInBits() {
		case 8:
			nt = r.dest.Types().Int8()
		case 16:
			nt = r.dest.Types().Int16()
		case 32:
			nt = r.dest.Types().Int32()
		default:
			nt = r.dest.Types().Int64()
		}
		r.types[t] = nt
		return nt
	case *ir.FloatType:
		nt := ir.Type(r.dest.Types().Float64())
		if v.SizeInBits() == 32 {
			nt = r.dest.Types().Float32()
		}
		r.types[t] = nt
		return nt
	case *ir.AddressType:
		nt := r.dest.Types().Address()
		r.types[t] = nt
		return nt
	case *ir.PointerType:
		base := r.MapScalarType(v.Base)
		nt, err := r.dest.Types().PointerTo(base)
		if err != nil {
			panic(err)
		}
		r.types[t] = nt
		return nt
	case *ir.StructType:
		nt := r.dest.Types().NewStruct(v.Name())
		r.types[t] = nt // record before recursing: breaks the Struct<->Field cycle
		for _, f := range v.Fields {
			ft := r.MapScalarType(f.Field)
			nf := nt.AddField(r.dest.Arena(), f.Name(), ft)
			r.types[f] = nf
		}
		return nt
	case *ir.FieldType:
		newStruct := r.MapScalarType(v.Owner_).(*ir.StructType)
		if nf, ok := r.types[t]; ok {
			return nf
		}
		if nf, ok := newStruct.FieldNamed(v.Name()); ok {
			r.types[t] = nf
			return nf
		}
		ft := r.MapScalarType(v.Field)
		nf := newStruct.AddField(r.dest.Arena(), v.Name(), ft)
		r.types[t] = nf
		return nf
	case *ir.FunctionType:
		ret := r.MapScalarType(v.Return)
		params := make([]ir.Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = r.MapScalarType(p)
		}
		nt := r.dest.Types().FunctionTypeOf(ret, params...)
		r.types[t] = nt
		return nt
	default:
		panic("typereplace: Replacer.MapScalarType: unrecognized Type implementation")
	}
}

// MapValue returns v's single rewritten replacement. It panics if v's
// Type explodes (use MapValueTuple) or if v was never recorded (mirrors
// ir.Cloner.MapValue's domination-order invariant).
func (r *Replacer) MapValue(v *ir.Value) *ir.Value {
	vs, ok := r.values[v]
	if !ok {
		panic("typereplace: Replacer.MapValue: value referenced before its definer was rewritten")
	}
	if len(vs) != 1 {
		panic(fmt.Sprintf("typereplace: Replacer.MapValue: %q is exploded into %d values; use MapValueTuple", v.Name(), len(vs)))
	}
	return vs[0]
}

// MapValueTuple returns every rewritten replacement for v, in field
// order: one element for a scalar rewrite, one per exploded field
// otherwise.
func (r *Replacer) MapValueTuple(v *ir.Value) []*ir.Value {
	vs, ok := r.values[v]
	if !ok {
		panic("typereplace: Replacer.MapValueTuple: value referenced before its definer was rewritten")
	}
	return vs
}

// RecordValue registers v's rewritten replacement(s). Expander
// implementations call this for every Result of the Operation they
// rebuild, the same way Replace does for a non-exploding Operation's
// Results.
func (r *Replacer) RecordValue(old *ir.Value, new ...*ir.Value) { r.values[old] = new }

// MapBuilder returns b's rewritten counterpart, creating a free
// placeholder on first reference. A structured construct's owned child
// Builder (ForLoopUp's body, IfThenElse's then/else, a Switch case, ...)
// is instead registered explicitly by Replace when it rebuilds that
// construct, before the placeholder path can ever run for it — a Goto
// cannot target such a Builder without first holding a handle returned
// by the very call that creates it.
func (r *Replacer) MapBuilder(b *ir.Builder) *ir.Builder {
	if nb, ok := r.builders[b]; ok {
		return nb
	}
	nb := r.dest.RootScope().NewFreeBuilder()
	r.builders[b] = nb
	return nb
}

// MapLiteral rewrites l's Type (if mapped) and reinterns the (unchanged)
// bytes under the new Type.
func (r *Replacer) MapLiteral(l *ir.Literal) *ir.Literal {
	if nl, ok := r.literals[l]; ok {
		return nl
	}
	nt := r.MapScalarType(l.Type())
	nl := r.dest.Literals().Intern(ir.NewLiteralBytes(nt, l.Bytes()))
	r.literals[l] = nl
	return nl
}

// MapSymbol rewrites a non-exploding Symbol by rewriting its Type and
// reusing its Name. An exploding ParameterSymbol is rejected: an
// Operation that references one must consult MapParameterTuple (and, if
// it sees more than one entry, implement Expander) instead of going
// through MapSymbol.
func (r *Replacer) MapSymbol(s ir.Symbol) ir.Symbol {
	if ns, ok := r.symbols[s]; ok {
		return ns
	}
	var ns ir.Symbol
	switch v := s.(type) {
	case *ir.LocalSymbol:
		ns = r.dest.RootContext().DefineLocal(v.Name(), r.MapScalarType(v.Type()))
	case *ir.ParameterSymbol:
		tuple, ok := r.params[v]
		if !ok {
			panic("typereplace: Replacer.MapSymbol: ParameterSymbol was not registered by Replace (internal error)")
		}
		if len(tuple) != 1 {
			panic(fmt.Sprintf("typereplace: Replacer.MapSymbol: parameter %q is exploded into %d parameters; use MapParameterTuple", v.Name(), len(tuple)))
		}
		ns = tuple[0]
	case *ir.FunctionSymbol:
		fnType := r.MapScalarType(v.Type()).(*ir.FunctionType)
		nf := ir.NewFunctionSymbol(r.dest.Arena(), v.Name(), fnType, v.EntryPoint)
		r.dest.RootContext().Symbols().Define(nf)
		ns = nf
	case *ir.FieldSymbol:
		newStruct := r.MapScalarType(v.Struct).(*ir.StructType)
		nf, ok := newStruct.FieldNamed(v.Field.Name())
		if !ok {
			panic(fmt.Sprintf("typereplace: Replacer.MapSymbol: field %q not found on rewritten struct %q", v.Field.Name(), newStruct.Name()))
		}
		ns = ir.NewFieldSymbol(r.dest.Arena(), newStruct, nf)
	default:
		panic(fmt.Sprintf("typereplace: Replacer.MapSymbol: unsupported Symbol %T", s))
	}
	r.symbols[s] = ns
	return ns
}

// MapParameterTuple returns the parameter(s) p was rewritten into, in
// field order, and whether p was a parameter Replace knew about.
func (r *Replacer) MapParameterTuple(p *ir.ParameterSymbol) ([]*ir.ParameterSymbol, bool) {
	tuple, ok := r.params[p]
	return tuple, ok
}

// Replace runs one TypeReplacer pass over source:
// parameters are rewritten first (possibly exploding, and renumbering
// every subsequent parameter's Index), then every Builder's Operations
// are rewritten in source's creation order, which — since a Builder is
// only ever created after everything it can reference already exists —
// is already a valid dependency order for Values, mirroring ir.Clone.
func Replace(source *ir.IR, mapping map[ir.Type]Mapping) (*ir.IR, error) {
	r := newReplacer(mapping)
	r.dest = ir.New(source.Arena().Name()+".typereplace", source.Actions(), source.Checkers(), source.Types().WordBits())

	if err := r.rewriteParameters(source); err != nil {
		return nil, err
	}

	for _, eb := range source.RootScope().EntryBuilders() {
		r.builders[eb] = r.dest.RootScope().NewEntryBuilder()
	}

	for _, b := range source.Builders() {
		destB, ok := r.builders[b]
		if !ok {
			// Not yet referenced by anything rewritten so far (e.g. an
			// entry Builder with no predecessor, or a free Builder no
			// Goto/AppendBuilder has targeted yet): give it a home now.
			destB = r.MapBuilder(b)
		}
		for _, op := range b.Operations() {
			if err := r.rewriteOperation(op, destB); err != nil {
				return nil, fmt.Errorf("typereplace: %s: %w", op.Name(), err)
			}
		}
	}

	for _, xb := range source.RootScope().ExitBuilders() {
		r.dest.RootScope().AddExitBuilder(r.MapBuilder(xb))
	}

	return r.dest, nil
}

// rewriteParameters explodes/renumbers every ParameterSymbol defined
// directly in source's root Context, in ascending Index order, and
// records each original's image(s) in r.params.
func (r *Replacer) rewriteParameters(source *ir.IR) error {
	var params []*ir.ParameterSymbol
	for _, s := range source.RootContext().Symbols().LocalSymbols() {
		if p, ok := s.(*ir.ParameterSymbol); ok {
			params = append(params, p)
		}
	}
	sort.Slice(params, func(i, j int) bool { return params[i].Index < params[j].Index })

	next := 0
	for _, p := range params {
		m, ok := r.mapping[p.Type()]
		if !ok {
			np := r.dest.RootContext().DefineParameter(p.Name(), r.MapScalarType(p.Type()), next)
			r.params[p] = []*ir.ParameterSymbol{np}
			next++
			continue
		}
		tuple := make([]*ir.ParameterSymbol, len(m.Fields))
		for i, f := range m.Fields {
			name := p.Name()
			if m.Exploded() {
				name = p.Name() + "." + f.Suffix
			}
			tuple[i] = r.dest.RootContext().DefineParameter(name, r.MapScalarType(f.Type), next)
			next++
		}
		r.params[p] = tuple
	}
	return nil
}

// rewriteOperation rewrites one source Operation into destB: core
// control-flow constructs are rebuilt via their public constructors (the
// only way an out-of-package caller can correctly rebind their owned
// child Builders), an Expander-implementing Operation rebuilds itself,
// and everything else is cloned with remapped operands/results/symbols.
func (r *Replacer) rewriteOperation(op ir.Operation, destB *ir.Builder) error {
	if op.Owner() == "core" {
		if err, handled := r.rewriteCore(op, destB); handled {
			return err
		}
	}
	if exp, ok := op.(Expander); ok {
		return exp.Expand(r, destB)
	}
	return r.rewriteDefault(op, destB)
}

func (r *Replacer) rewriteCore(op ir.Operation, destB *ir.Builder) (error, bool) {
	loc := op.Location()
	switch op.Name() {
	case "Goto":
		target, ok := ir.GotoTarget(op)
		if !ok {
			return fmt.Errorf("Goto: missing target"), true
		}
		_, err := ir.Goto(destB, loc, r.MapBuilder(target))
		return err, true

	case "IfCmpEqual", "IfCmpNotEqual", "IfCmpGreaterThan", "IfCmpGreaterOrEqual", "IfCmpLessThan", "IfCmpLessOrEqual":
		target, ok := ir.IfCmpTarget(op)
		if !ok {
			return fmt.Errorf("%s: missing target", op.Name()), true
		}
		operands := op.Operands()
		if len(operands) != 2 {
			return fmt.Errorf("%s: expected 2 operands, got %d", op.Name(), len(operands)), true
		}
		left, right := r.MapValue(operands[0]), r.MapValue(operands[1])
		newTarget := r.MapBuilder(target)
		var err error
		switch op.Name() {
		case "IfCmpEqual":
			_, err = ir.IfCmp(destB, loc, ir.CmpEqual, left, right, newTarget)
		case "IfCmpNotEqual":
			_, err = ir.IfCmp(destB, loc, ir.CmpNotEqual, left, right, newTarget)
		case "IfCmpGreaterThan":
			_, err = ir.IfCmp(destB, loc, ir.CmpGreaterThan, left, right, newTarget)
		case "IfCmpGreaterOrEqual":
			_, err = ir.IfCmp(destB, loc, ir.CmpGreaterOrEqual, left, right, newTarget)
		case "IfCmpLessThan":
			_, err = ir.IfCmp(destB, loc, ir.CmpLessThan, left, right, newTarget)
		default:
			_, err = ir.IfCmp(destB, loc, ir.CmpLessOrEqual, left, right, newTarget)
		}
		return err, true

	case "ForLoopUp":
		loopVar, initial, final, increment, body, breakB, continueB, ok := ir.ForLoopUpInfo(op)
		if !ok {
			return fmt.Errorf("ForLoopUp: malformed Operation"), true
		}
		newLoopVar := r.MapSymbol(loopVar)
		_, newBody, newBreakB, newContinueB, err := ir.ForLoopUp(destB, loc, newLoopVar,
			r.MapValue(initial), r.MapValue(final), r.MapValue(increment))
		if err != nil {
			return err, true
		}
		r.builders[body] = newBody
		r.builders[breakB] = newBreakB
		r.builders[continueB] = newContinueB
		return nil, true

	case "IfThenElse":
		thenB, elseB, ok := ir.IfThenElseBuilders(op)
		if !ok {
			return fmt.Errorf("IfThenElse: malformed Operation"), true
		}
		operands := op.Operands()
		if len(operands) != 1 {
			return fmt.Errorf("IfThenElse: expected 1 operand, got %d", len(operands)), true
		}
		_, newThenB, newElseB, err := ir.IfThenElse(destB, loc, r.MapValue(operands[0]), elseB != nil)
		if err != nil {
			return err, true
		}
		r.builders[thenB] = newThenB
		if elseB != nil {
			r.builders[elseB] = newElseB
		}
		return nil, true

	case "Switch":
		selector, cases, defaultB, ok := ir.SwitchInfo(op)
		if !ok {
			return fmt.Errorf("Switch: malformed Operation"), true
		}
		newCases := make([]ir.SwitchCase, len(cases))
		for i, c := range cases {
			newCases[i] = ir.SwitchCase{Value: r.MapLiteral(c.Value)}
		}
		_, resultCases, resultDefault, err := ir.Switch(destB, loc, r.MapValue(selector), newCases, defaultB != nil)
		if err != nil {
			return err, true
		}
		for i, c := range cases {
			r.builders[c.Body] = resultCases[i].Body
		}
		if defaultB != nil {
			r.builders[defaultB] = resultDefault
		}
		return nil, true

	case "AppendBuilder":
		children := op.ChildBuilders()
		if len(children) != 1 {
			return fmt.Errorf("AppendBuilder: expected 1 child Builder, got %d", len(children)), true
		}
		_, err := destB.AppendBuilder(loc, r.MapBuilder(children[0]))
		return err, true

	default:
		return nil, false
	}
}

// rewriteDefault clones op into destB with every operand/result/type/
// literal/symbol remapped. It rejects anything that touches an exploded
// Type or owns child Builders: both require the Operation's own
// knowledge of its shape, which only an Expander can supply.
func (r *Replacer) rewriteDefault(op ir.Operation, destB *ir.Builder) error {
	for _, v := range op.Operands() {
		if r.isExploded(v.Type()) {
			return fmt.Errorf("%s: operand %q has an exploded type; implement Expander", op.Name(), v.Name())
		}
	}
	for _, v := range op.Results() {
		if r.isExploded(v.Type()) {
			return fmt.Errorf("%s: result %q has an exploded type; implement Expander", op.Name(), v.Name())
		}
	}
	for _, s := range op.SymbolOperands() {
		if p, ok := s.(*ir.ParameterSymbol); ok {
			if tuple, ok := r.params[p]; ok && len(tuple) > 1 {
				return fmt.Errorf("%s: parameter %q is exploded; implement Expander", op.Name(), s.Name())
			}
			continue
		}
		if r.isExploded(s.Type()) {
			return fmt.Errorf("%s: symbol %q has an exploded type; implement Expander", op.Name(), s.Name())
		}
	}
	if len(op.ChildBuilders()) > 0 {
		return fmt.Errorf("%s: owns child Builders but is not a recognized core construct; implement Expander", op.Name())
	}

	newResults := make([]*ir.Value, len(op.Results()))
	for i, v := range op.Results() {
		newResults[i] = ir.NewValue(r.dest.Arena(), v.Name(), r.MapScalarType(v.Type()))
	}
	newOperands := make([]*ir.Value, len(op.Operands()))
	for i, v := range op.Operands() {
		newOperands[i] = r.MapValue(v)
	}
	newTypes := make([]ir.Type, len(op.TypeOperands()))
	for i, t := range op.TypeOperands() {
		newTypes[i] = r.MapScalarType(t)
	}
	newLiterals := make([]*ir.Literal, len(op.LiteralOperands()))
	for i, l := range op.LiteralOperands() {
		newLiterals[i] = r.MapLiteral(l)
	}
	newSymbols := make([]ir.Symbol, len(op.SymbolOperands()))
	for i, s := range op.SymbolOperands() {
		if p, ok := s.(*ir.ParameterSymbol); ok {
			newSymbols[i] = r.params[p][0]
			continue
		}
		newSymbols[i] = r.MapSymbol(s)
	}

	newOp := ir.NewOp(r.dest.Arena(), ir.OpSpec{
		Action: op.ActionID(), Name: op.Name(), Owner: op.Owner(), Parent: destB, Location: op.Location(),
		Operands: newOperands, Results: newResults,
		Types: newTypes, Literals: newLiterals, Symbols: newSymbols,
		Extra: op.Extra(),
	})
	for i, v := range op.Results() {
		r.RecordValue(v, newResults[i])
	}
	destB.Append(newOp)
	return nil
}
