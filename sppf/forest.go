// Package sppf implements a Shared Packed Parse Forest: the result of a
// GLR parse (spec.md §4.5/§4.6). A packed parse forest re-uses existing
// parse-tree nodes between different derivations of the same input span —
// for an unambiguous parse the forest is a single tree; an ambiguous
// grammar instead produces a forest where the ambiguous spans fan out via
// or-edges to more than one alternative derivation.
//
// The design follows the discussion in Dick Grune & Ceriel J.H. Jacobs,
// "Parsing Techniques", 2nd ed., §3.7.3: a node [A (x…y)] for grammar
// symbol A spanning input positions x..y is split into a SymbolNode for A
// and one or more rhsNodes for the right-hand sides that derive it. Symbol
// nodes fan out via or-edges to rhsNodes (ambiguity: more than one
// derivation of the same symbol over the same span); rhsNodes fan out via
// and-edges to the symbol nodes of their RHS, in order.
package sppf

import (
	"fmt"
	"io"
	"sort"

	"github.com/npillmayer/schuko/tracing"
	"github.com/parsix/hydra"
	"github.com/parsix/hydra/grammar"
	"github.com/parsix/hydra/internal/iset"
)

func tracer() tracing.Trace { return tracing.Select("hydra.sppf") }

// searchTree models a map-of-maps-of-sets keyed by two uint64 edge labels,
// with a set of candidate nodes as the leaf — used to look up an existing
// SymbolNode/rhsNode by (start, end) or (start, rule) before creating a new
// one. Symbol nodes key on (start, end); rhsNodes key on (start, rule).
type searchTree map[uint64]map[uint64]*iset.Set

func (t searchTree) find(p1, p2 uint64, predicate func(interface{}) bool) interface{} {
	if t1, ok := t[p1]; ok {
		if t2, ok := t1[p2]; ok {
			return t2.FirstMatch(predicate)
		}
	}
	return nil
}

func (t searchTree) add(p1, p2 uint64, item interface{}) {
	t1, ok := t[p1]
	if !ok {
		t1 = make(map[uint64]*iset.Set)
		t[p1] = t1
	}
	set, ok := t1[p2]
	if !ok {
		set = iset.NewSet(0)
		t1[p2] = set
	}
	set.Add(item)
}

func (t searchTree) all() *iset.Set {
	values := iset.NewSet(0)
	for _, t1 := range t {
		for _, set := range t1 {
			values.Union(set)
		}
	}
	return values
}

// SymbolNode represents [A (x…y)]: a grammar symbol recognized (terminal)
// or reduced (nonterminal) over a span of the input.
type SymbolNode struct {
	Symbol *grammar.Symbol
	Extent hydra.Span
}

func (sn *SymbolNode) String() string {
	return fmt.Sprintf("%s %s", sn.Symbol.FQN, sn.Extent.String())
}

// rhsNode represents [δ (x) Σ]: one right-hand side, identified by its
// production, its start position and a signature over its children — two
// rhsNodes are the same node only if every child symbol node (including
// span) matches, per Grune & Jacobs' "Combining Duplicate Subtrees".
type rhsNode struct {
	prod  *grammar.Production
	start uint64
	sigma int32
}

var sigmaOffsets = [...]int64{107, 401, 353, 223, 811, 569, 619, 173, 433,
	757, 811, 823, 857, 863, 883, 907, 929, 947, 971, 983}

func rhsSignature(rhs []*SymbolNode, start uint64) int32 {
	const largePrime = int64(143743)
	if len(rhs) == 0 {
		return int32(sigmaOffsets[start%uint64(len(sigmaOffsets))])
	}
	h := int64(817)
	for _, sn := range rhs {
		h *= int64(sn.Symbol.ID) + 1
		h %= largePrime
		from := sn.Extent.From()
		h *= sigmaOffsets[(from*from)%uint64(len(sigmaOffsets))] + int64(from)
		h %= largePrime
		h *= int64(sn.Extent.To()) + 1
		h %= largePrime
	}
	return int32(h)
}

// orEdge is an ambiguity fork: sym can be derived by toRHS over the span
// toRHS covers (symbol node identity already carries the span).
type orEdge struct {
	fromSym *SymbolNode
	toRHS   *rhsNode
}

// andEdge connects a rhsNode to the sequence-th symbol node of its RHS.
type andEdge struct {
	fromRHS  *rhsNode
	toSym    *SymbolNode
	sequence int
}

// Forest is a shared packed parse forest accumulated over the course of
// one GLR parse: every reduction and terminal shift the driver performs is
// recorded via AddReduction/AddEpsilonReduction/AddTerminal, and shared
// spans collapse onto the same SymbolNode/rhsNode automatically.
type Forest struct {
	symbolNodes searchTree
	rhsNodes    searchTree
	orEdges     map[*SymbolNode]*iset.Set
	andEdges    map[*rhsNode]*iset.Set
	parent      map[*SymbolNode]*SymbolNode
	root        *SymbolNode
}

// NewForest returns an empty forest.
func NewForest() *Forest {
	return &Forest{
		symbolNodes: make(searchTree),
		rhsNodes:    make(searchTree),
		orEdges:     make(map[*SymbolNode]*iset.Set),
		andEdges:    make(map[*rhsNode]*iset.Set),
		parent:      make(map[*SymbolNode]*SymbolNode),
	}
}

// AddReduction records a reduction of prod's RHS (already-built symbol
// nodes, in order) to prod.LHS, returning the (possibly shared) resulting
// SymbolNode. Epsilon reductions must use AddEpsilonReduction instead.
func (f *Forest) AddReduction(prod *grammar.Production, rhs []*SymbolNode) *SymbolNode {
	if len(rhs) == 0 {
		return nil
	}
	tracer().Debugf("reduction: %s", prod)
	start := rhs[0].Extent.From()
	end := rhs[len(rhs)-1].Extent.To()
	rhsnode := f.addRHSNode(prod, rhs, start)
	f.addOrEdge(prod.LHS, rhsnode, start, end)
	for seq, child := range rhs {
		f.addAndEdge(rhsnode, seq, child)
	}
	symnode := f.findSymNode(prod.LHS, start, end)
	for _, child := range rhs {
		f.parent[child] = symnode
	}
	if prod.ProdID == 0 {
		f.root = symnode
	}
	return symnode
}

// AddEpsilonReduction records a reduction of an empty RHS to prod.LHS at
// input position pos.
func (f *Forest) AddEpsilonReduction(prod *grammar.Production, pos uint64) *SymbolNode {
	rhsnode := f.addRHSNode(prod, nil, pos)
	f.addOrEdge(prod.LHS, rhsnode, pos, pos)
	symnode := f.findSymNode(prod.LHS, pos, pos)
	if prod.ProdID == 0 {
		f.root = symnode
	}
	return symnode
}

// AddTerminal records a recognized terminal token spanning [pos, pos+width).
func (f *Forest) AddTerminal(term *grammar.Symbol, pos, width uint64) *SymbolNode {
	return f.addSymNode(term, pos, pos+width)
}

// SetRoot explicitly designates the forest's root node. The GLR driver
// calls it on Accept with the start symbol's node, since the augmented
// start production itself is never reduced.
func (f *Forest) SetRoot(sn *SymbolNode) { f.root = sn }

func (f *Forest) findSymNode(sym *grammar.Symbol, start, end uint64) *SymbolNode {
	v := f.symbolNodes.find(start, end, func(el interface{}) bool {
		return el.(*SymbolNode).Symbol == sym
	})
	if v == nil {
		return nil
	}
	return v.(*SymbolNode)
}

func (f *Forest) addSymNode(sym *grammar.Symbol, start, end uint64) *SymbolNode {
	sn := f.findSymNode(sym, start, end)
	if sn == nil {
		sn = &SymbolNode{Symbol: sym, Extent: hydra.Span{start, end}}
		f.symbolNodes.add(start, end, sn)
	}
	return sn
}

func (f *Forest) findRHSNode(prod *grammar.Production, rhs []*SymbolNode, start uint64) *rhsNode {
	sigma := rhsSignature(rhs, start)
	v := f.rhsNodes.find(start, uint64(prod.ProdID), func(el interface{}) bool {
		return el.(*rhsNode).sigma == sigma
	})
	if v == nil {
		return nil
	}
	return v.(*rhsNode)
}

func (f *Forest) addRHSNode(prod *grammar.Production, rhs []*SymbolNode, start uint64) *rhsNode {
	node := f.findRHSNode(prod, rhs, start)
	if node == nil {
		node = &rhsNode{prod: prod, start: start, sigma: rhsSignature(rhs, start)}
		f.rhsNodes.add(start, uint64(prod.ProdID), node)
	}
	return node
}

func (f *Forest) addOrEdge(sym *grammar.Symbol, rhs *rhsNode, start, end uint64) {
	sn := f.addSymNode(sym, start, end)
	if f.findOrEdge(sn, rhs) {
		return
	}
	set, ok := f.orEdges[sn]
	if !ok {
		set = iset.NewSet(0)
		f.orEdges[sn] = set
	}
	set.Add(orEdge{fromSym: sn, toRHS: rhs})
}

func (f *Forest) findOrEdge(sn *SymbolNode, rhs *rhsNode) bool {
	set, ok := f.orEdges[sn]
	if !ok {
		return false
	}
	return set.FirstMatch(func(el interface{}) bool {
		e := el.(orEdge)
		return e.fromSym == sn && e.toRHS == rhs
	}) != nil
}

func (f *Forest) addAndEdge(rhs *rhsNode, seq int, child *SymbolNode) {
	set, ok := f.andEdges[rhs]
	if !ok {
		set = iset.NewSet(0)
		f.andEdges[rhs] = set
	}
	if f.findAndEdge(rhs, child) {
		return
	}
	set.Add(andEdge{fromRHS: rhs, toSym: child, sequence: seq})
}

func (f *Forest) findAndEdge(rhs *rhsNode, sn *SymbolNode) bool {
	set, ok := f.andEdges[rhs]
	if !ok {
		return false
	}
	return set.FirstMatch(func(el interface{}) bool {
		return el.(andEdge).toSym == sn
	}) != nil
}

// Root returns the forest's root SymbolNode, or nil if empty.
func (f *Forest) Root() *SymbolNode { return f.root }

// Derivations returns every rhsNode-equivalent alternative derivation of
// sn (its out-degree is the fan-out of ambiguity at that span): one
// derivation per distinct right-hand side recorded for sn's span, so the
// same production appears more than once when its children differ.
func (f *Forest) Derivations(sn *SymbolNode) []*Derivation {
	set, ok := f.orEdges[sn]
	if !ok {
		return nil
	}
	out := make([]*Derivation, 0, set.Size())
	for _, v := range set.Values() {
		e := v.(orEdge)
		out = append(out, &Derivation{forest: f, rhs: e.toRHS})
	}
	return out
}

// Derivation is one of possibly several ways a SymbolNode's span can be
// derived — a production plus its (ordered) child symbol nodes.
type Derivation struct {
	forest *Forest
	rhs    *rhsNode
}

// Production returns the grammar production this derivation reduces by.
func (d *Derivation) Production() *grammar.Production { return d.rhs.prod }

// Children returns the child SymbolNodes of this derivation, ordered left
// to right per the production's RHS.
func (d *Derivation) Children() []*SymbolNode {
	set, ok := d.forest.andEdges[d.rhs]
	if !ok {
		return nil
	}
	vals := set.Values()
	out := make([]*SymbolNode, len(vals))
	for _, v := range vals {
		e := v.(andEdge)
		out[e.sequence] = e.toSym
	}
	return out
}

// Ambiguous reports whether sn has more than one Derivation, i.e. whether
// the forest records more than one way of deriving sn's span.
func (f *Forest) Ambiguous(sn *SymbolNode) bool {
	set, ok := f.orEdges[sn]
	return ok && set.Size() > 1
}

// ToGraphViz writes f to w in GraphViz DOT format: one rounded box per
// rhsNode, one (terminals shaded) box per SymbolNode, dashed or-edges from
// a symbol to each of its derivations, and labelled and-edges from a
// derivation to its ordered children. Terminal symbol nodes are pinned to
// the same rank so the rendered graph reads bottom-up like a parse tree.
func (f *Forest) ToGraphViz(w io.Writer) {
	io.WriteString(w, `digraph G {
{ graph [fontname="Helvetica"];
  node [fontname="Helvetica",shape=box,fontsize=10];
  edge [fontname="Helvetica",fontsize=9];
`)
	rhss := f.rhsNodes.all().Values()
	sort.Slice(rhss, func(i, j int) bool {
		a, b := rhss[i].(*rhsNode), rhss[j].(*rhsNode)
		if a.prod.ProdID != b.prod.ProdID {
			return a.prod.ProdID < b.prod.ProdID
		}
		return a.sigma < b.sigma
	})
	for _, v := range rhss {
		node := v.(*rhsNode)
		fmt.Fprintf(w, "\"rule %d (%d)\" [style=rounded,color=\"#404040\"]\n", node.prod.ProdID, node.sigma)
	}

	syms := f.symbolNodes.all().Values()
	sort.Slice(syms, func(i, j int) bool {
		a, b := syms[i].(*SymbolNode), syms[j].(*SymbolNode)
		return a.Extent.From() < b.Extent.From()
	})
	for _, v := range syms {
		node := v.(*SymbolNode)
		if node.Symbol.IsTerminal() {
			fmt.Fprintf(w, "\"%s\" [fillcolor=grey90,style=filled]\n", node.String())
		} else {
			fmt.Fprintf(w, "\"%s\" []\n", node.String())
		}
	}
	io.WriteString(w, "}\n")

	for _, set := range f.orEdges {
		for _, v := range set.Values() {
			e := v.(orEdge)
			fmt.Fprintf(w, "\"%s\" -> \"rule %d (%d)\" [style=dashed]\n",
				e.fromSym.String(), e.toRHS.prod.ProdID, e.toRHS.sigma)
		}
	}
	for _, set := range f.andEdges {
		edges := set.Values()
		sort.Slice(edges, func(i, j int) bool {
			return edges[i].(andEdge).sequence < edges[j].(andEdge).sequence
		})
		for _, v := range edges {
			e := v.(andEdge)
			fmt.Fprintf(w, "\"rule %d (%d)\" -> \"%s\" [label=%d]\n",
				e.fromRHS.prod.ProdID, e.fromRHS.sigma, e.toSym.String(), e.sequence)
		}
	}

	io.WriteString(w, "{ rank=max;\n")
	for _, v := range syms {
		node := v.(*SymbolNode)
		if node.Symbol.IsTerminal() {
			fmt.Fprintf(w, "\"%s\";", node.String())
		}
	}
	io.WriteString(w, "\n}\n}\n")
}
