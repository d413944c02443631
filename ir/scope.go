package ir

import (
	"github.com/mstoodle/jb2go/internal/arena"
	"github.com/mstoodle/jb2go/kind"
)

// Scope is the structural counterpart to Context: it holds
// the ordered set of entry and exit Builders for one lexical region.
// Scopes form a tree rooted at the Compilation's root Scope.
type Scope struct {
	id       arena.ID
	ir       *IR
	parent   *Scope
	children []*Scope

	entryBuilders []*Builder
	exitBuilders  []*Builder
}

// NewRootScope creates the one root Scope of an IR.
func NewRootScope(ir *IR) *Scope {
	s := arena.Alloc[Scope](ir.arena)
	s.id = ir.arena.NextID()
	s.ir = ir
	return s
}

// NewChild creates a nested Scope under s.
func (s *Scope) NewChild() *Scope {
	child := arena.Alloc[Scope](s.ir.arena)
	child.id = s.ir.arena.NextID()
	child.ir = s.ir
	child.parent = s
	s.children = append(s.children, child)
	return child
}

func (s *Scope) ID() arena.ID  { return s.id }
func (s *Scope) Kind() kind.ID { return KindScope }
func (s *Scope) Parent() *Scope { return s.parent }
func (s *Scope) Children() []*Scope { return s.children }

// NewEntryBuilder creates a new, unbound, not-yet-target Builder and
// registers it as one of this Scope's entry points. Unlike a Builder bound
// as a child region, an entry Builder's boundness starts at Cant: it is
// reachable only via the root Scope naming it, never by being bound
// elsewhere.
func (s *Scope) NewEntryBuilder() *Builder {
	b := newBuilder(s.ir, nil, Cant)
	s.entryBuilders = append(s.entryBuilders, b)
	return b
}

// EntryBuilders returns this Scope's entry Builders in registration order.
func (s *Scope) EntryBuilders() []*Builder { return s.entryBuilders }

// AddExitBuilder registers b as one of this Scope's exit Builders.
func (s *Scope) AddExitBuilder(b *Builder) { s.exitBuilders = append(s.exitBuilders, b) }

// ExitBuilders returns this Scope's exit Builders in registration order.
func (s *Scope) ExitBuilders() []*Builder { return s.exitBuilders }

// NewFreeBuilder creates a new unbound (May) Builder not tied to any
// Scope entry — the kind of Builder that IfThenElse/ForLoopUp/etc. bind as
// child regions, or that client code later splices in with
// Builder.AppendBuilder.
func (s *Scope) NewFreeBuilder() *Builder {
	return newBuilder(s.ir, nil, May)
}
