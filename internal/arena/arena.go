// Package arena implements the bump-style allocator that backs one IR.
//
// Every object belonging to a single compilation is allocated from the same
// Arena and is discarded in bulk when the Arena is released, instead of
// being freed object-by-object. Go's garbage collector already reclaims the
// backing memory once nothing references it, so Arena does not manage raw
// bytes itself; what it provides is the invariant the rest of the core
// relies on: objects allocated from the same Arena share a lifetime, get a
// dense, monotonically increasing identity (see ID), and can be dropped
// wholesale via Release without per-object teardown.
package arena

import "sync/atomic"

// ID is a monotonically assigned identity for an object allocated from an
// Arena. Two objects allocated from the same Arena never share an ID.
type ID uint64

// Arena owns the objects allocated for one Compilation.
type Arena struct {
	name     string
	nextID   uint64
	live     int64
	released bool
}

// New returns a fresh Arena. name is used only for diagnostics.
func New(name string) *Arena {
	return &Arena{name: name}
}

// Name returns the diagnostic name the Arena was created with.
func (a *Arena) Name() string { return a.name }

// Released reports whether Release has already run.
func (a *Arena) Released() bool { return a.released }

// NextID hands out the next dense identity in this Arena. Callers allocating
// a new IR object should call this exactly once per object and store the
// result on the object itself.
func (a *Arena) NextID() ID {
	if a.released {
		panic("arena: NextID called after Release")
	}
	a.live++
	return ID(atomic.AddUint64(&a.nextID, 1))
}

// Alloc allocates a zero-valued T and returns a pointer to it. The pointer
// is stable for the lifetime of the Arena; callers must not retain it past
// Release.
func Alloc[T any](a *Arena) *T {
	if a.released {
		panic("arena: Alloc called after Release")
	}
	a.live++
	return new(T)
}

// Live returns the number of objects allocated (via Alloc or NextID) that
// have not yet been discarded by Release. It is diagnostic only.
func (a *Arena) Live() int64 { return a.live }

// Release discards every object owned by the Arena in one step. After
// Release, any further Alloc/NextID call panics; this mirrors the core's
// "arena failure is fatal, the Compilation is aborted" semantics (spec §7)
// by making use-after-release a loud programmer error rather than a silent
// leak.
func (a *Arena) Release() {
	a.released = true
	a.live = 0
}
