package compile

import (
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// StrategyID names a registered Strategy. jb2go derives it
// from a blake2b-256 digest over the ordered list of its Passes' names
// rather than a process-local counter, so two Compilers that register the
// same named pass sequence — common across multiple CompileUnits sharing a
// process — land on the same StrategyID without coordinating, and so a
// CompileUnit's compiledBodies cache key is stable across process restarts.
type StrategyID [32]byte

// String renders id as hex, for diagnostics and log lines.
func (id StrategyID) String() string { return hex.EncodeToString(id[:]) }

// Strategy is a named, ordered list of Passes. The compiler
// loop runs them in order; a non-success ReturnCode short-circuits it.
type Strategy struct {
	id     StrategyID
	passes []Pass
}

func newStrategy(passes []Pass) *Strategy {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err) // blake2b.New256 only errors on a bad key, and we pass none
	}
	for _, p := range passes {
		h.Write([]byte(p.Name()))
		h.Write([]byte{0})
	}
	var id StrategyID
	copy(id[:], h.Sum(nil))
	return &Strategy{id: id, passes: append([]Pass(nil), passes...)}
}

// ID returns the StrategyID this Strategy was registered under.
func (s *Strategy) ID() StrategyID { return s.id }

// Passes returns the ordered Pass list, in registration order.
func (s *Strategy) Passes() []Pass { return s.passes }

// StrategyRegistry is the per-Compiler table of registered Strategies.
// Registering the same ordered pass-name sequence twice returns the same
// StrategyID and does not duplicate the entry.
type StrategyRegistry struct {
	mu   sync.Mutex
	byID map[StrategyID]*Strategy
}

// NewStrategyRegistry returns an empty StrategyRegistry.
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{byID: map[StrategyID]*Strategy{}}
}

// Register assigns (or returns the existing) StrategyID for passes, in the
// given order.
func (r *StrategyRegistry) Register(passes ...Pass) StrategyID {
	s := newStrategy(passes)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[s.id]; !ok {
		r.byID[s.id] = s
	}
	return s.id
}

// Lookup resolves id to its registered Strategy.
func (r *StrategyRegistry) Lookup(id StrategyID) (*Strategy, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	return s, ok
}
