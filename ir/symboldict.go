package ir

import "github.com/mstoodle/jb2go/internal/arena"

// SymbolDictionary is the by-name symbol table attached to one Context. On
// lookup miss it delegates to its parent.
type SymbolDictionary struct {
	byName *arena.Map[string, Symbol]
	parent *SymbolDictionary
}

// NewSymbolDictionary creates a root SymbolDictionary.
func NewSymbolDictionary(a *arena.Arena) *SymbolDictionary {
	return &SymbolDictionary{byName: arena.NewMap[string, Symbol](a, nil)}
}

// NewChild creates a SymbolDictionary that delegates to d on miss.
func (d *SymbolDictionary) NewChild(a *arena.Arena) *SymbolDictionary {
	return &SymbolDictionary{byName: arena.NewMap[string, Symbol](a, d.byName), parent: d}
}

// Lookup resolves name anywhere in the delegation chain.
func (d *SymbolDictionary) Lookup(name string) (Symbol, bool) {
	return d.byName.Lookup(name)
}

// Define registers sym under its own name in this (leaf) dictionary,
// shadowing any same-named Symbol in a parent.
func (d *SymbolDictionary) Define(sym Symbol) {
	d.byName.Set(sym.Name(), sym)
}

// LocalSymbols returns the Symbols defined directly in this dictionary,
// excluding anything visible only through parent delegation.
func (d *SymbolDictionary) LocalSymbols() []Symbol { return d.byName.LocalValues() }
