// Package gss implements a Graph-Structured Stack (GSS): the data
// structure a GLR parser uses in place of a single stack, so that more
// than one shift/reduce thread can be active — and can share common
// history — at once (spec.md §4.5).
//
// The teacher module's equivalent, lr/dss, only shipped a test file
// (stack_test.go); its Stack/Node implementation itself was never
// retrieved. That test file is still this package's grounding: it fixes
// the shape of the idea (Root owns every Stack sharing it; Push merges
// onto an existing top-of-stack node when one already exists at the same
// position, growing its path count; a reduction walks back a "handle"
// path of a given length, which may fork when more than one path of that
// length exists). This package reconstructs that idea with a node-local
// path-enumeration API (Node.PathsOfLength) rather than the teacher's
// FindHandlePath-plus-splitOff pair, since no implementation source
// survived to copy the latter's exact mechanics from.
package gss

import (
	"github.com/cnf/structhash"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace { return tracing.Select("hydra.gss") }

// Node is one vertex of the graph-structured stack: a parser state
// reached at a given input position, plus whatever subtree value labels
// the edge(s) into it. Two shift/reduce threads that reach the same
// (State, StartPos, TokenAhead) triple share a single Node — this is the
// node-identity rule spec.md §4.5 requires for merging.
type Node struct {
	ID         int
	State      int
	StartPos   int
	TokenAhead string

	// Value is the SPPF (or other) payload this node's incoming edge(s)
	// carry — for a Node created by a shift it is the shifted token/leaf;
	// for one created by a reduce it is the new symbol node the reduction
	// produced. The graph- structure already records ambiguity (multiple
	// parents); Value only needs to record one packed node per Node
	// because the SPPF, not the GSS, is what actually holds alternative
	// derivations — see package sppf.
	Value interface{}

	parents []*Node
}

// Parents returns n's direct predecessors. More than one parent means
// more than one shift/reduce thread merged into n — exactly the situation
// the GLR driver needs to consider every alternative continuation for.
func (n *Node) Parents() []*Node { return n.parents }

// PathsOfLength enumerates every distinct ancestor chain of exactly l
// edges starting at n, each returned oldest-first (path[0] is l steps
// back, path[l] is n itself). A grammar production with an RHS of l
// symbols reduces by popping one such path per call: more than one
// returned path means the stack has forked beneath n and the reduction
// must be applied once per path (spec.md §4.5's "every path" rule).
func (n *Node) PathsOfLength(l int) [][]*Node {
	if l == 0 {
		return [][]*Node{{n}}
	}
	var out [][]*Node
	for _, p := range n.parents {
		for _, sub := range p.PathsOfLength(l - 1) {
			out = append(out, append(append([]*Node{}, sub...), n))
		}
	}
	return out
}

// Stack is the GLR driver's reading of "the current state of one
// shift/reduce thread": just a pointer to its top-of-stack Node, within a
// shared Root.
type Stack struct {
	root *Root
	tos  *Node
}

// Root owns every Node created for one parse, so that Push can look up
// and reuse an existing node instead of always allocating — the merge
// point that makes the structure graph- rather than tree-shaped.
//
// byKey is keyed by a structhash digest of (state, startPos, tokenAhead)
// rather than the bare struct value, mirroring lr/earley/earley.go's use
// of structhash.Hash for an analogous item/state memoization key.
type Root struct {
	name      string
	rootValue int
	nextID    int
	byKey     map[string]*Node
	all       []*Node
}

type nodeKey struct {
	State      int
	StartPos   int
	TokenAhead string
}

func (k nodeKey) hash() string {
	h, err := structhash.Hash(k, 1)
	if err != nil {
		// structhash.Hash only fails on unsupported field types; nodeKey's
		// fields are all plain int/string, so this is unreachable.
		panic(err)
	}
	return h
}

// NewRoot creates a fresh GSS root for one parse run. rootValue is an
// opaque sentinel value for the (non-existent) node below the bottom of
// every stack sharing this root.
func NewRoot(name string, rootValue int) *Root {
	return &Root{name: name, rootValue: rootValue, byKey: make(map[string]*Node)}
}

// NewStack creates a new thread rooted at r with no top-of-stack node
// yet — the caller's first Push establishes it.
func NewStack(r *Root) *Stack { return &Stack{root: r} }

// Push advances s onto the node for (state, startPos, tokenAhead),
// reusing an existing one (adding s's current top as an additional
// parent, i.e. merging) or creating a fresh one, and returns s for
// chaining.
func (s *Stack) Push(state, startPos int, tokenAhead string, value interface{}) *Stack {
	key := nodeKey{State: state, StartPos: startPos, TokenAhead: tokenAhead}.hash()
	n, ok := s.root.byKey[key]
	if !ok {
		n = &Node{ID: s.root.nextID, State: state, StartPos: startPos, TokenAhead: tokenAhead, Value: value}
		s.root.nextID++
		s.root.byKey[key] = n
		s.root.all = append(s.root.all, n)
	}
	if s.tos != nil {
		n.addParent(s.tos)
	}
	s.tos = n
	return s
}

func (n *Node) addParent(p *Node) {
	for _, existing := range n.parents {
		if existing == p {
			return
		}
	}
	n.parents = append(n.parents, p)
}

// Peek returns s's current top-of-stack node, or nil if s has had no
// Push yet.
func (s *Stack) Peek() *Node { return s.tos }

// Fork returns a new Stack sharing s's root but positioned at node — the
// GLR driver's way of continuing a reduction-produced alternative as an
// independent thread alongside s itself.
func (s *Stack) Fork(node *Node) *Stack { return &Stack{root: s.root, tos: node} }

// Nodes returns every node ever created under r, for diagnostics/dot
// rendering.
func (r *Root) Nodes() []*Node { return r.all }
