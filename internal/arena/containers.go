package arena

// Slice is an arena-scoped, owned, ordered sequence. It is a thin wrapper
// over a Go slice: Go slices already give us contiguous, reallocation-aware
// storage, so Slice exists to document ownership (this data lives as long
// as its Arena does) rather than to reimplement growth.
type Slice[T any] struct {
	a    *Arena
	data []T
}

// NewSlice creates an empty arena-scoped slice with the given capacity hint.
func NewSlice[T any](a *Arena, capHint int) *Slice[T] {
	return &Slice[T]{a: a, data: make([]T, 0, capHint)}
}

// Append adds v to the end of the sequence.
func (s *Slice[T]) Append(v T) {
	if s.a.released {
		panic("arena: Append on a released arena's Slice")
	}
	s.data = append(s.data, v)
}

// Len returns the number of elements.
func (s *Slice[T]) Len() int { return len(s.data) }

// At returns the element at index i.
func (s *Slice[T]) At(i int) T { return s.data[i] }

// Set overwrites the element at index i.
func (s *Slice[T]) Set(i int, v T) { s.data[i] = v }

// All returns the backing slice for iteration. Callers must not retain it
// past the next Append (it may be reallocated) nor past Release.
func (s *Slice[T]) All() []T { return s.data }

// Map is an arena-scoped, owned mapping with delegation to a parent Map on
// lookup miss (used by dictionaries: spec §4.7 "a dictionary consults
// itself first, then its parent").
type Map[K comparable, V any] struct {
	a      *Arena
	parent *Map[K, V]
	data   map[K]V
}

// NewMap creates an empty arena-scoped map with an optional parent.
func NewMap[K comparable, V any](a *Arena, parent *Map[K, V]) *Map[K, V] {
	return &Map[K, V]{a: a, parent: parent, data: make(map[K]V)}
}

// Lookup consults this map, then its parent chain, returning the value and
// whether it was found anywhere in the chain.
func (m *Map[K, V]) Lookup(k K) (V, bool) {
	if v, ok := m.data[k]; ok {
		return v, true
	}
	if m.parent != nil {
		return m.parent.Lookup(k)
	}
	var zero V
	return zero, false
}

// LookupLocal consults only this map, not its parent chain.
func (m *Map[K, V]) LookupLocal(k K) (V, bool) {
	v, ok := m.data[k]
	return v, ok
}

// Set registers k->v in this map (never in a parent): spec §4.7
// "registration always targets the leaf".
func (m *Map[K, V]) Set(k K, v V) {
	if m.a.released {
		panic("arena: Set on a released arena's Map")
	}
	m.data[k] = v
}

// Len returns the number of entries local to this map (not including its
// parent chain).
func (m *Map[K, V]) Len() int { return len(m.data) }

// LocalValues returns the values registered directly on this map, in
// unspecified order.
func (m *Map[K, V]) LocalValues() []V {
	out := make([]V, 0, len(m.data))
	for _, v := range m.data {
		out = append(out, v)
	}
	return out
}
