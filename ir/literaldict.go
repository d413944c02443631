package ir

import (
	"fmt"

	"github.com/mstoodle/jb2go/internal/arena"
)

type literalKey struct {
	typeName string
	bytes    string
}

// LiteralDictionary deduplicates Literals within one IR, keyed by
// (type name, bit-exact bytes). Parent delegation
// follows the same consult-self-then-parent protocol as TypeDictionary.
type LiteralDictionary struct {
	byKey  *arena.Map[literalKey, *Literal]
	parent *LiteralDictionary
}

// NewLiteralDictionary creates a root LiteralDictionary.
func NewLiteralDictionary(a *arena.Arena) *LiteralDictionary {
	return &LiteralDictionary{byKey: arena.NewMap[literalKey, *Literal](a, nil)}
}

// NewChild creates a nested LiteralDictionary delegating to d on miss.
func (d *LiteralDictionary) NewChild(a *arena.Arena) *LiteralDictionary {
	return &LiteralDictionary{byKey: arena.NewMap[literalKey, *Literal](a, d.byKey), parent: d}
}

func keyOf(l *Literal) literalKey {
	return literalKey{typeName: l.typ.Name(), bytes: string(l.bytes)}
}

// Intern returns the canonical Literal equal to l within this dictionary's
// delegation chain, registering l itself if none exists yet.
func (d *LiteralDictionary) Intern(l *Literal) *Literal {
	k := keyOf(l)
	if existing, ok := d.byKey.Lookup(k); ok {
		return existing
	}
	d.byKey.Set(k, l)
	return l
}

// Lookup finds a previously interned Literal without creating one.
func (d *LiteralDictionary) Lookup(t Type, bytes []byte) (*Literal, bool) {
	return d.byKey.Lookup(literalKey{typeName: t.Name(), bytes: string(bytes)})
}

// LocalLiterals returns the Literals interned directly in this dictionary
// (not its parent chain), in unspecified order. Used by Clone to seed a
// fresh IR's LiteralDictionary.
func (d *LiteralDictionary) LocalLiterals() []*Literal { return d.byKey.LocalValues() }

func (d *LiteralDictionary) String() string {
	return fmt.Sprintf("LiteralDictionary(%d local)", d.byKey.Len())
}
