package ir

import "github.com/mstoodle/jb2go/internal/arena"

// TypeDictionary deduplicates Types within one IR by structural name:
// PointerTypes key on "PointerTo(<base.name>)", StructTypes
// on their user-supplied name, FunctionTypes on a canonical signature.
// Lookup consults this dictionary first, then its parent (if any);
// registration always targets the leaf.
type TypeDictionary struct {
	a       *arena.Arena
	byName  *arena.Map[string, Type]
	parent  *TypeDictionary
	wordBits int64
}

// NewTypeDictionary creates a root TypeDictionary. wordBits is the host's
// native machine-word width (used to size Address/Word types).
func NewTypeDictionary(a *arena.Arena, wordBits int64) *TypeDictionary {
	return &TypeDictionary{a: a, byName: arena.NewMap[string, Type](a, nil), wordBits: wordBits}
}

// NewChild creates a nested TypeDictionary that delegates lookups to d on
// miss, letting a Context shadow a name without mutating its parent.
func (d *TypeDictionary) NewChild() *TypeDictionary {
	return &TypeDictionary{a: d.a, byName: arena.NewMap[string, Type](d.a, d.byName), parent: d, wordBits: d.wordBits}
}

// Lookup returns the Type registered under name anywhere in the delegation
// chain.
func (d *TypeDictionary) Lookup(name string) (Type, bool) {
	return d.byName.Lookup(name)
}

// WordBits returns the native machine-word width this dictionary sizes
// Address/Word types to. Used by callers (e.g. the TypeReplacer) that build
// a second IR sharing the first's word width.
func (d *TypeDictionary) WordBits() int64 { return d.wordBits }

// LocalTypes returns the Types registered directly in this dictionary (not
// its parent chain), in unspecified order. Used by Clone to seed a fresh
// IR's TypeDictionary.
func (d *TypeDictionary) LocalTypes() []Type { return d.byName.LocalValues() }

func (d *TypeDictionary) register(t Type) Type {
	if existing, ok := d.byName.LookupLocal(t.Name()); ok {
		return existing
	}
	d.byName.Set(t.Name(), t)
	return t
}

// Int8/Int16/Int32/Int64/Float32/Float64/Address/Word return the
// dictionary's canonical instance of each built-in scalar type, creating
// and registering it on first use.

func (d *TypeDictionary) Int8() *IntType  { return d.intType(8) }
func (d *TypeDictionary) Int16() *IntType { return d.intType(16) }
func (d *TypeDictionary) Int32() *IntType { return d.intType(32) }
func (d *TypeDictionary) Int64() *IntType { return d.intType(64) }

func (d *TypeDictionary) intType(bits int64) *IntType {
	name := intTypeName(bits)
	if existing, ok := d.Lookup(name); ok {
		return existing.(*IntType)
	}
	t := newIntType(d.a, bits)
	return d.register(t).(*IntType)
}

func intTypeName(bits int64) string {
	switch bits {
	case 8:
		return "Int8"
	case 16:
		return "Int16"
	case 32:
		return "Int32"
	default:
		return "Int64"
	}
}

func (d *TypeDictionary) Float32() *FloatType { return d.floatType(32) }
func (d *TypeDictionary) Float64() *FloatType { return d.floatType(64) }

func (d *TypeDictionary) floatType(bits int64) *FloatType {
	name := "Float32"
	if bits == 64 {
		name = "Float64"
	}
	if existing, ok := d.Lookup(name); ok {
		return existing.(*FloatType)
	}
	t := newFloatType(d.a, bits)
	return d.register(t).(*FloatType)
}

// Address returns the canonical Address type sized to the dictionary's
// native word width.
func (d *TypeDictionary) Address() *AddressType {
	if existing, ok := d.Lookup("Address"); ok {
		return existing.(*AddressType)
	}
	t := newAddressType(d.a, d.wordBits)
	return d.register(t).(*AddressType)
}

// Word returns the canonical integer type matching the native word width.
func (d *TypeDictionary) Word() *IntType {
	return d.intType(d.wordBits)
}

// PointerTo returns (creating if necessary) the unique PointerType for
// base. Invariant: base must already be registered in this dictionary or
// an ancestor.
func (d *TypeDictionary) PointerTo(base Type) (*PointerType, error) {
	name := "PointerTo(" + base.Name() + ")"
	if existing, ok := d.Lookup(name); ok {
		return existing.(*PointerType), nil
	}
	if _, ok := d.Lookup(base.Name()); !ok {
		return nil, typeNotRegisteredError(base)
	}
	t := newPointerType(d.a, base, d.wordBits)
	return d.register(t).(*PointerType), nil
}

// NewStruct creates and registers a new, initially empty StructType under
// name. Fields are added with StructType.AddField.
func (d *TypeDictionary) NewStruct(name string) *StructType {
	t := newStructType(d.a, name)
	return d.register(t).(*StructType)
}

// FunctionTypeOf returns (creating if necessary) the unique FunctionType
// for the given return/parameter Types.
func (d *TypeDictionary) FunctionTypeOf(ret Type, params ...Type) *FunctionType {
	name := signatureName(ret, params)
	if existing, ok := d.Lookup(name); ok {
		return existing.(*FunctionType)
	}
	t := newFunctionType(d.a, d.wordBits, ret, params)
	return d.register(t).(*FunctionType)
}
