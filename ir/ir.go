package ir

import (
	"github.com/mstoodle/jb2go/internal/arena"
	"github.com/mstoodle/jb2go/kind"
)

// coreActionIDs are the ActionIDs for the structured control-flow
// constructs the core itself exposes (as opposed to
// arbitrary domain operations like Add/Sub, which remain extension-owned).
type coreActionIDs struct {
	goto_               ActionID
	ifCmpEqual           ActionID
	ifCmpNotEqual        ActionID
	ifCmpGreaterThan     ActionID
	ifCmpGreaterOrEqual  ActionID
	ifCmpLessThan        ActionID
	ifCmpLessOrEqual     ActionID
	forLoopUp            ActionID
	ifThenElse           ActionID
	switch_              ActionID
	appendBuilder        ActionID
}

// IR is the container for one Compilation's arena, dictionaries, Builders,
// Operations, Values, Literals, and root Scope. It is
// discarded wholesale when its Compilation ends.
type IR struct {
	arena *arena.Arena

	actions *ActionRegistry
	checkers *CheckerRegistry

	types    *TypeDictionary
	literals *LiteralDictionary

	rootScope   *Scope
	rootContext *Context

	builders   []*Builder
	operations []Operation
	values     []*Value

	addons map[string]any

	coreActions coreActionIDs
}

// New creates a fresh IR backed by a new Arena named name, sharing the
// given ActionRegistry and CheckerRegistry with its owning Compiler: the
// extension list, and therefore the ActionID/checker namespace, is
// per-Compiler. wordBits is the host's native machine word width in bits
// (e.g. 64).
func New(name string, actions *ActionRegistry, checkers *CheckerRegistry, wordBits int64) *IR {
	a := arena.New(name)
	r := &IR{
		arena:    a,
		actions:  actions,
		checkers: checkers,
		literals: NewLiteralDictionary(a),
		addons:   map[string]any{},
	}
	r.types = NewTypeDictionary(a, wordBits)
	r.registerCoreActions()
	r.rootScope = NewRootScope(r)
	r.rootContext = NewRootContext(r)
	return r
}

func (r *IR) registerCoreActions() {
	r.coreActions = coreActionIDs{
		goto_:              r.actions.Register("core.Goto"),
		ifCmpEqual:         r.actions.Register("core.IfCmpEqual"),
		ifCmpNotEqual:      r.actions.Register("core.IfCmpNotEqual"),
		ifCmpGreaterThan:   r.actions.Register("core.IfCmpGreaterThan"),
		ifCmpGreaterOrEqual: r.actions.Register("core.IfCmpGreaterOrEqual"),
		ifCmpLessThan:      r.actions.Register("core.IfCmpLessThan"),
		ifCmpLessOrEqual:   r.actions.Register("core.IfCmpLessOrEqual"),
		forLoopUp:          r.actions.Register("core.ForLoopUp"),
		ifThenElse:         r.actions.Register("core.IfThenElse"),
		switch_:            r.actions.Register("core.Switch"),
		appendBuilder:      r.actions.Register("core.AppendBuilder"),
	}
}

// Kind satisfies kind.Kinded.
func (r *IR) Kind() kind.ID { return KindIR }

// Arena returns the Arena backing this IR. Extensions allocating their own
// IR-scoped data should allocate from this Arena so it is released with
// everything else.
func (r *IR) Arena() *arena.Arena { return r.arena }

// Actions returns the ActionRegistry shared with this IR's owning
// Compiler.
func (r *IR) Actions() *ActionRegistry { return r.actions }

// Checkers returns the CheckerRegistry shared with this IR's owning
// Compiler.
func (r *IR) Checkers() *CheckerRegistry { return r.checkers }

// Types returns the IR's root TypeDictionary.
func (r *IR) Types() *TypeDictionary { return r.types }

// Literals returns the IR's root LiteralDictionary.
func (r *IR) Literals() *LiteralDictionary { return r.literals }

// RootScope returns the IR's single root Scope.
func (r *IR) RootScope() *Scope { return r.rootScope }

// RootContext returns the IR's single root Context.
func (r *IR) RootContext() *Context { return r.rootContext }

// Builders returns every Builder ever created in this IR, in creation
// order.
func (r *IR) Builders() []*Builder { return r.builders }

// SetAddon attaches an Extension-provided payload under key — a Base
// extension, for example, might attach a BaseIRAddon to every new IR.
func (r *IR) SetAddon(key string, v any) { r.addons[key] = v }

// Addon returns a previously attached addon payload.
func (r *IR) Addon(key string) (any, bool) {
	v, ok := r.addons[key]
	return v, ok
}

// Release discards the IR's entire Arena. Everything allocated from it
// (Types, Literals, Symbols, Values, Operations, Builders, Contexts,
// Scopes) becomes unusable: it is destroyed along with the IR.
func (r *IR) Release() { r.arena.Release() }
