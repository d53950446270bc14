// Package iset implements a small destructively-iterable set of
// interface{} values, used by package automaton for item-set/CFSM
// construction and by package sppf for or/and-edge bookkeeping.
//
// The teacher module (npillmayer/gorgo) has a sibling package,
// lr/iteratable, used throughout lr/tables.go and lr/sppf/forest.go for
// exactly this purpose — but only its doc.go was retrieved, not its
// implementation. This package reconstructs the same contract purely from
// how lr/tables.go, lr/sppf/forest.go and lr/glr/glr.go call it: NewSet,
// Add, Copy, Union, Difference, Empty, Size, Equals, Values, and the
// IterateOnce/Next/Item cursor idiom for "process worklist until no new
// items are added" fixed points (closureSet in lr/tables.go is the clearest
// example of that idiom).
package iset

// Set is an unordered collection of comparable interface{} values with a
// single destructive iteration cursor, mirroring the call-site contract of
// the teacher's lr/iteratable.Set.
type Set struct {
	items  map[interface{}]struct{}
	order  []interface{} // insertion order, for deterministic Values()/AppendTo()
	cursor int
	hint   int
}

// NewSet creates an empty set. hint is a capacity hint, kept only for
// parity with the teacher's iteratable.NewSet(capacityHint) constructor
// signature.
func NewSet(hint int) *Set {
	if hint < 0 {
		hint = 0
	}
	return &Set{items: make(map[interface{}]struct{}, hint), hint: hint, cursor: -1}
}

// Add inserts v, returning s for chaining. Adding a value already present
// is a no-op.
func (s *Set) Add(v interface{}) *Set {
	if _, ok := s.items[v]; !ok {
		s.items[v] = struct{}{}
		s.order = append(s.order, v)
	}
	return s
}

// Remove deletes v from s, if present.
func (s *Set) Remove(v interface{}) {
	if _, ok := s.items[v]; !ok {
		return
	}
	delete(s.items, v)
	for i, x := range s.order {
		if x == v {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Contains reports whether v is a member of s.
func (s *Set) Contains(v interface{}) bool {
	_, ok := s.items[v]
	return ok
}

// Size returns the number of elements in s.
func (s *Set) Size() int { return len(s.order) }

// Empty reports whether s has no elements.
func (s *Set) Empty() bool { return len(s.order) == 0 }

// Values returns every element of s in insertion order. The returned slice
// must not be mutated.
func (s *Set) Values() []interface{} { return s.order }

// AppendTo appends every element of s to dst and returns the result,
// mirroring the teacher's lookaheads.AppendTo(nil) idiom seen in
// lr/tables.go for flattening a lookahead set into a slice.
func (s *Set) AppendTo(dst []interface{}) []interface{} {
	return append(dst, s.order...)
}

// Copy returns a shallow copy of s with a fresh iteration cursor.
func (s *Set) Copy() *Set {
	cp := NewSet(len(s.order))
	for _, v := range s.order {
		cp.Add(v)
	}
	return cp
}

// Union destructively adds every element of other to s.
func (s *Set) Union(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, v := range other.order {
		s.Add(v)
	}
	return s
}

// Difference returns a new set holding the elements of s not present in
// other, without modifying either operand — matching
// `if New := R.Difference(C); !New.Empty() { C.Union(New) }` in
// lr/tables.go's closureSet.
func (s *Set) Difference(other *Set) *Set {
	out := NewSet(len(s.order))
	for _, v := range s.order {
		if other == nil || !other.Contains(v) {
			out.Add(v)
		}
	}
	return out
}

// Equals reports whether s and other contain exactly the same elements,
// used by CFSM state deduplication (findStateByItems in lr/tables.go).
func (s *Set) Equals(other *Set) bool {
	if other == nil {
		return s.Empty()
	}
	if len(s.order) != len(other.order) {
		return false
	}
	for _, v := range s.order {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// IterateOnce resets the destructive cursor so that a subsequent Next/Item
// loop visits every element present in s *at the time IterateOnce was
// called* — elements Union'd in during the loop (the closureSet worklist
// pattern) are also visited once the cursor reaches them, since the
// cursor walks s.order by index and Union/Add append to it.
func (s *Set) IterateOnce() { s.cursor = -1 }

// Next advances the cursor and reports whether an element remains.
func (s *Set) Next() bool {
	s.cursor++
	return s.cursor < len(s.order)
}

// Item returns the element at the current cursor position.
func (s *Set) Item() interface{} {
	if s.cursor < 0 || s.cursor >= len(s.order) {
		return nil
	}
	return s.order[s.cursor]
}

// First returns the first-inserted element of s, or nil if s is empty.
func (s *Set) First() interface{} {
	if len(s.order) == 0 {
		return nil
	}
	return s.order[0]
}

// FirstMatch returns the first element for which predicate reports true, or
// nil if none does — mirrors the teacher's iteratable.Set.FirstMatch, used
// by package sppf to look up an existing or/and-edge before creating one.
func (s *Set) FirstMatch(predicate func(interface{}) bool) interface{} {
	for _, v := range s.order {
		if predicate(v) {
			return v
		}
	}
	return nil
}
