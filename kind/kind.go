// Package kind implements the process-wide ExtensibleKind registry:
// every polymorphic IR base (Type, Symbol,
// Operation, Builder, Context, Scope, Addon, Extension, Compilation,
// CompiledBody, ...) is a node in one tree whose edges are registered once
// per process. IsKind and Refine replace open-ended downcasting.
package kind

import (
	"fmt"
	"sync"
)

// ID identifies one node in the kind tree. The zero value, None, is not a
// registered kind; it terminates parent-chain walks.
type ID int

// None is the sentinel parent for root kinds.
const None ID = 0

// Kinded is implemented by every value that participates in the kind
// hierarchy.
type Kinded interface {
	Kind() ID
}

var (
	mu     sync.Mutex
	names  = []string{"<none>"} // index 0 == None
	parent = []ID{None}
	byName = map[string]ID{}
)

// Register assigns a new kind ID for name, rooted at (or refined from)
// parent. It must be called at most once per name for the lifetime of the
// process — subclasses publish their kind with exactly one static
// registration — and panics on a duplicate name, since
// that indicates two Extensible subclasses colliding on one kind name.
func Register(name string, parent_ ID) ID {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := byName[name]; exists {
		panic(fmt.Sprintf("kind: %q already registered", name))
	}
	if int(parent_) >= len(names) {
		panic(fmt.Sprintf("kind: unknown parent id %d registering %q", parent_, name))
	}
	id := ID(len(names))
	names = append(names, name)
	parent = append(parent, parent_)
	byName[name] = id
	return id
}

// Name returns the registered display name for id, or "<unknown>" if id was
// never registered. Kind IDs are permanent for the process.
func Name(id ID) string {
	mu.Lock()
	defer mu.Unlock()
	if int(id) < 0 || int(id) >= len(names) {
		return "<unknown>"
	}
	return names[id]
}

// IsKind reports whether child is ancestor or a refinement of ancestor:
// IsKind(child, ancestor) implies IsKind(child, a) for every ancestor a of
// ancestor.
func IsKind(child, ancestor ID) bool {
	mu.Lock()
	defer mu.Unlock()
	for id := child; id != None; id = parent[id] {
		if id == ancestor {
			return true
		}
		if int(id) >= len(parent) {
			return false
		}
	}
	return ancestor == None
}

// Is is the Kinded-aware convenience form of IsKind.
func Is(obj Kinded, ancestor ID) bool {
	if obj == nil {
		return false
	}
	return IsKind(obj.Kind(), ancestor)
}

// Refine asserts obj is kind T and returns it as T. Callers must guard with
// Is/IsKind first: Refine is undefined behavior if !is_kind(obj); here a
// failed assertion panics rather than silently misbehaving, since Go has
// no unchecked-cast primitive, but the core itself never calls Refine
// without a preceding Is check.
func Refine[T Kinded](obj Kinded) T {
	return obj.(T)
}

// TryRefine is the checked form: it reports ok=false instead of panicking
// when obj is not a T. Extensions validating untrusted input should prefer
// this over Refine.
func TryRefine[T Kinded](obj Kinded) (t T, ok bool) {
	t, ok = obj.(T)
	return
}
