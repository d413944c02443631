package ir

import (
	"github.com/mstoodle/jb2go/internal/arena"
	"github.com/mstoodle/jb2go/kind"
)

// Context is a lexical scope for Symbols. It may carry its own
// LiteralDictionary / SymbolDictionary / TypeDictionary; on lookup miss it
// delegates to its parent Context.
type Context struct {
	id     arena.ID
	ir     *IR
	parent *Context

	symbols  *SymbolDictionary
	literals *LiteralDictionary
	types    *TypeDictionary

	entryPoints          map[string]*Builder
	transferDestinations map[string]*Builder
}

// NewRootContext creates the one root Context of an IR.
func NewRootContext(ir *IR) *Context {
	c := arena.Alloc[Context](ir.arena)
	c.id = ir.arena.NextID()
	c.ir = ir
	c.symbols = NewSymbolDictionary(ir.arena)
	c.literals = ir.literals
	c.types = ir.types
	c.entryPoints = map[string]*Builder{}
	c.transferDestinations = map[string]*Builder{}
	return c
}

// NewChild creates a nested Context whose dictionaries delegate to c.
func (c *Context) NewChild() *Context {
	child := arena.Alloc[Context](c.ir.arena)
	child.id = c.ir.arena.NextID()
	child.ir = c.ir
	child.parent = c
	child.symbols = c.symbols.NewChild(c.ir.arena)
	child.literals = c.literals.NewChild(c.ir.arena)
	child.types = c.types.NewChild()
	child.entryPoints = map[string]*Builder{}
	child.transferDestinations = map[string]*Builder{}
	return child
}

func (c *Context) ID() arena.ID  { return c.id }
func (c *Context) Kind() kind.ID { return KindContext }
func (c *Context) Parent() *Context { return c.parent }

// Symbols returns this Context's SymbolDictionary.
func (c *Context) Symbols() *SymbolDictionary { return c.symbols }

// Types returns this Context's TypeDictionary.
func (c *Context) Types() *TypeDictionary { return c.types }

// Literals returns this Context's LiteralDictionary.
func (c *Context) Literals() *LiteralDictionary { return c.literals }

// DefineLocal creates and registers a new LocalSymbol named name in this
// Context.
func (c *Context) DefineLocal(name string, typ Type) *LocalSymbol {
	s := NewLocalSymbol(c.ir.arena, name, typ)
	c.symbols.Define(s)
	return s
}

// DefineParameter creates and registers a new ParameterSymbol.
func (c *Context) DefineParameter(name string, typ Type, index int) *ParameterSymbol {
	s := NewParameterSymbol(c.ir.arena, name, typ, index)
	c.symbols.Define(s)
	return s
}

// Lookup resolves name through this Context's SymbolDictionary delegation
// chain.
func (c *Context) Lookup(name string) (Symbol, bool) {
	return c.symbols.Lookup(name)
}

// SetEntryPoint names a Builder as an entry point by which control enters
// this Context.
func (c *Context) SetEntryPoint(name string, b *Builder) { c.entryPoints[name] = b }

// EntryPoint returns a previously named entry point Builder.
func (c *Context) EntryPoint(name string) (*Builder, bool) {
	b, ok := c.entryPoints[name]
	return b, ok
}

// SetTransferDestination names a Builder as a destination control may
// leave this Context by.
func (c *Context) SetTransferDestination(name string, b *Builder) {
	c.transferDestinations[name] = b
}

// TransferDestination returns a previously named transfer destination.
func (c *Context) TransferDestination(name string) (*Builder, bool) {
	b, ok := c.transferDestinations[name]
	return b, ok
}
