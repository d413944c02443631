package ir

// Cloner holds the IRCloner's six mapping tables: Type,
// Literal, Symbol, Value, Builder, and Operation, each source object to its
// replacement in the destination IR. Each cloned object's mapping is
// recorded before its fields are cloned, so cyclic references (StructType
// <-> FieldType, ForLoopUp <-> its body Builder) resolve.
type Cloner struct {
	dest *IR

	types      map[Type]Type
	literals   map[*Literal]*Literal
	symbols    map[Symbol]Symbol
	values     map[*Value]*Value
	builders   map[*Builder]*Builder
	operations map[Operation]Operation
}

func newCloner(dest *IR) *Cloner {
	return &Cloner{
		dest:       dest,
		types:      map[Type]Type{},
		literals:   map[*Literal]*Literal{},
		symbols:    map[Symbol]Symbol{},
		values:     map[*Value]*Value{},
		builders:   map[*Builder]*Builder{},
		operations: map[Operation]Operation{},
	}
}

// Dest returns the destination IR being built.
func (c *Cloner) Dest() *IR { return c.dest }

// MapType returns t's image in the destination IR, creating it (and
// recursively its dependencies) on first reference.
func (c *Cloner) MapType(t Type) Type {
	if t == nil {
		return nil
	}
	if mapped, ok := c.types[t]; ok {
		return mapped
	}
	switch v := t.(type) {
	case *IntType:
		nt := c.dest.types.intType(v.bits)
		c.types[t] = nt
		return nt
	case *FloatType:
		nt := c.dest.types.floatType(v.bits)
		c.types[t] = nt
		return nt
	case *AddressType:
		nt := c.dest.types.Address()
		c.types[t] = nt
		return nt
	case *PointerType:
		base := c.MapType(v.Base)
		nt, err := c.dest.types.PointerTo(base)
		if err != nil {
			panic(err)
		}
		c.types[t] = nt
		return nt
	case *StructType:
		nt := c.dest.types.NewStruct(v.name)
		c.types[t] = nt // record before recursing: breaks the Struct<->Field cycle
		for _, f := range v.Fields {
			ft := c.MapType(f.Field)
			nf := nt.AddField(c.dest.arena, f.name, ft)
			c.types[f] = nf
		}
		return nt
	case *FieldType:
		newStruct := c.MapType(v.Owner_).(*StructType)
		if nf, ok := c.types[t]; ok {
			return nf
		}
		if nf, ok := newStruct.FieldNamed(v.name); ok {
			c.types[t] = nf
			return nf
		}
		ft := c.MapType(v.Field)
		nf := newStruct.AddField(c.dest.arena, v.name, ft)
		c.types[t] = nf
		return nf
	case *FunctionType:
		ret := c.MapType(v.Return)
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = c.MapType(p)
		}
		nt := c.dest.types.FunctionTypeOf(ret, params...)
		c.types[t] = nt
		return nt
	default:
		panic("ir: Cloner.MapType: unrecognized Type implementation")
	}
}

// MapLiteral returns l's image in the destination IR.
func (c *Cloner) MapLiteral(l *Literal) *Literal {
	if l == nil {
		return nil
	}
	if mapped, ok := c.literals[l]; ok {
		return mapped
	}
	nt := c.MapType(l.typ)
	nl := NewLiteralBytes(nt, l.bytes)
	interned := c.dest.literals.Intern(nl)
	c.literals[l] = interned
	return interned
}

// MapSymbol returns s's image in the destination IR.
func (c *Cloner) MapSymbol(s Symbol) Symbol {
	if s == nil {
		return nil
	}
	if mapped, ok := c.symbols[s]; ok {
		return mapped
	}
	var ns Symbol
	switch v := s.(type) {
	case *LocalSymbol:
		ns = NewLocalSymbol(c.dest.arena, v.name, c.MapType(v.typ))
	case *ParameterSymbol:
		ns = NewParameterSymbol(c.dest.arena, v.name, c.MapType(v.typ), v.Index)
	case *FunctionSymbol:
		ns = NewFunctionSymbol(c.dest.arena, v.name, c.MapType(v.typ).(*FunctionType), v.EntryPoint)
	case *FieldSymbol:
		newStruct := c.MapType(v.Struct).(*StructType)
		nf, _ := newStruct.FieldNamed(v.Field.name)
		ns = NewFieldSymbol(c.dest.arena, newStruct, nf)
	default:
		panic("ir: Cloner.MapSymbol: unrecognized Symbol implementation")
	}
	c.symbols[s] = ns
	return ns
}

// MapValue returns v's image in the destination IR. It must already have
// been recorded (via recordValue, which every Operation's Clone
// implementation calls for each of its Results) by the time it is
// referenced as an Operand — true for any IR that respects the usual
// domination invariant, since an Operand's definer is always cloned no
// later than the Operand's consuming Operation when Builders are cloned in
// IR creation order.
func (c *Cloner) MapValue(v *Value) *Value {
	if v == nil {
		return nil
	}
	mapped, ok := c.values[v]
	if !ok {
		panic("ir: Cloner.MapValue: value referenced before its definer was cloned")
	}
	return mapped
}

func (c *Cloner) recordValue(old, new *Value) { c.values[old] = new }

// MapBuilder returns b's image in the destination IR, creating an empty
// placeholder on first reference; its Operations are populated later by
// the top-level Clone walk, and its boundness is fixed up by the owning
// Operation's Clone implementation via bindTo.
func (c *Cloner) MapBuilder(b *Builder) *Builder {
	if b == nil {
		return nil
	}
	if nb, ok := c.builders[b]; ok {
		return nb
	}
	nb := newBuilder(c.dest, nil, May)
	c.builders[b] = nb
	return nb
}

// MapOperation returns op's image in the destination IR, if it has been
// cloned yet.
func (c *Cloner) MapOperation(op Operation) (Operation, bool) {
	mapped, ok := c.operations[op]
	return mapped, ok
}

func (c *Cloner) recordOperation(old, new Operation) { c.operations[old] = new }

// Clone produces a deep copy of source in a fresh IR sharing source's
// ActionRegistry/CheckerRegistry: Types first, then
// Literals, then every Builder's Operations (and thereby Values) in IR
// creation order, which — because a Builder is only ever created after
// everything it can reference already exists — is already a valid
// dependency order.
func Clone(source *IR) (*IR, *Cloner) {
	dest := New(source.arena.Name()+".clone", source.actions, source.checkers, source.types.wordBits)
	c := newCloner(dest)

	for _, t := range source.types.LocalTypes() {
		c.MapType(t)
	}
	for _, l := range source.literals.LocalLiterals() {
		c.MapLiteral(l)
	}

	for _, b := range source.builders {
		c.MapBuilder(b)
	}
	for _, b := range source.builders {
		nb := c.builders[b]
		for _, op := range b.Operations() {
			newOp := op.Clone(nb, c)
			c.recordOperation(op, newOp)
		}
	}

	for _, eb := range source.rootScope.entryBuilders {
		dest.rootScope.entryBuilders = append(dest.rootScope.entryBuilders, c.MapBuilder(eb))
	}
	for _, xb := range source.rootScope.exitBuilders {
		dest.rootScope.exitBuilders = append(dest.rootScope.exitBuilders, c.MapBuilder(xb))
	}

	return dest, c
}
