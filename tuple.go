package tabskema

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Tuple is an ordered sequence of strings compared element by element.
// It identifies composite fields in the registry and composite values in
// uniqueness sets. Absent cells are represented as "".
type Tuple []string

// Equal reports whether both tuples have the same length and pairwise-equal
// elements.
func (t Tuple) Equal(o Tuple) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// Hash combines element hashes order-sensitively.
func (t Tuple) Hash() uint64 {
	h := uint64(17)
	for _, s := range t {
		h = h*23 + xxhash.Sum64String(s)
	}
	return h
}

// String renders the tuple as "(a, b)".
func (t Tuple) String() string { return "(" + strings.Join(t, ", ") + ")" }

// tupleMap is a hash map keyed by tuple value rather than slice identity.
// Entries keep insertion order so iteration is deterministic.
type tupleMap[V any] struct {
	buckets map[uint64][]int
	keys    []Tuple
	vals    []V
}

func newTupleMap[V any]() *tupleMap[V] {
	return &tupleMap[V]{buckets: map[uint64][]int{}}
}

func (m *tupleMap[V]) get(k Tuple) (V, bool) {
	for _, i := range m.buckets[k.Hash()] {
		if m.keys[i].Equal(k) {
			return m.vals[i], true
		}
	}
	var zero V
	return zero, false
}

// put stores v under a private copy of k; existing keys are overwritten.
func (m *tupleMap[V]) put(k Tuple, v V) {
	h := k.Hash()
	for _, i := range m.buckets[h] {
		if m.keys[i].Equal(k) {
			m.vals[i] = v
			return
		}
	}
	m.buckets[h] = append(m.buckets[h], len(m.keys))
	m.keys = append(m.keys, append(Tuple(nil), k...))
	m.vals = append(m.vals, v)
}

func (m *tupleMap[V]) len() int { return len(m.keys) }

// values returns the stored values in insertion order.
func (m *tupleMap[V]) values() []V { return m.vals }

// tupleSet accumulates seen tuples for composite uniqueness.
type tupleSet struct{ m *tupleMap[struct{}] }

func newTupleSet() *tupleSet { return &tupleSet{m: newTupleMap[struct{}]()} }

// add inserts k and reports whether it was absent.
func (s *tupleSet) add(k Tuple) bool {
	if _, ok := s.m.get(k); ok {
		return false
	}
	s.m.put(k, struct{}{})
	return true
}

func (s *tupleSet) reset() { s.m = newTupleMap[struct{}]() }
