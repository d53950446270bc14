package automaton

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/parsix/hydra/grammar"
	"github.com/parsix/hydra/internal/iset"
)

// Mode selects which automaton variant Generate builds.
type Mode int

const (
	// LR0 builds the plain LR(0) automaton: no lookahead at all, reduce
	// actions fire regardless of the next token. Rarely sufficient on its
	// own; mostly useful as the SLR base automaton and for diagnostics.
	LR0 Mode = iota
	// SLR builds the LR(0) automaton but computes reduce actions using
	// FOLLOW(lhs) as the lookahead, per the classic SLR(1) construction.
	SLR
	// LALR builds the canonical LR(1) automaton, then merges states whose
	// item cores (ignoring lookahead) are identical, unioning their
	// lookahead sets — the standard space-saving LALR(1) construction. Two
	// same-core states stay separate when their union would create a new
	// reduce/reduce collision (see mergeLALR).
	LALR
	// CLR builds the full canonical LR(1) automaton with no merging.
	CLR
)

func (m Mode) String() string {
	switch m {
	case LR0:
		return "LR0"
	case SLR:
		return "SLR"
	case LALR:
		return "LALR"
	case CLR:
		return "CLR"
	default:
		return "unknown"
	}
}

// CFSMState is one state of the characteristic finite-state machine: the
// set of items active in that state, plus its final int ID (used as the
// row index into the generated ACTION/GOTO tables).
type CFSMState struct {
	ID    int
	Items *iset.Set
}

func (s *CFSMState) String() string { return fmt.Sprintf("(state %d | [%d])", s.ID, s.Items.Size()) }

// isAcceptState reports whether s contains the completed augmented-start
// item S' -> S STOP •, i.e. production 0 fully reduced.
func (s *CFSMState) isAcceptState() bool {
	for _, x := range s.Items.Values() {
		i := asItem(x)
		if i.Prod.ProdID == 0 && i.AtEnd() {
			return true
		}
	}
	return false
}

// cfsmEdge is a labeled transition between two CFSM states.
type cfsmEdge struct {
	from, to int
	label    *grammar.Symbol
}

// CFSM is the characteristic finite-state machine for a grammar under a
// given Mode: a set of states plus the labeled transitions between them.
// Grounded on the teacher's lr.CFSM (lr/tables.go): addState/findState
// dedupe by item-set equality; edges are held in a gods arraylist.List
// rather than a bare Go slice, matching lr/tables.go's own use of
// emirpasic/gods containers for CFSM bookkeeping.
type CFSM struct {
	Mode   Mode
	States []*CFSMState
	edges  *arraylist.List
}

func newCFSM(mode Mode) *CFSM { return &CFSM{Mode: mode, edges: arraylist.New()} }

func (c *CFSM) addState(items *iset.Set) *CFSMState {
	if s := c.findStateByItems(items); s != nil {
		return s
	}
	s := &CFSMState{ID: len(c.States), Items: items}
	c.States = append(c.States, s)
	return s
}

func (c *CFSM) findStateByItems(items *iset.Set) *CFSMState {
	for _, s := range c.States {
		if s.Items.Equals(items) {
			return s
		}
	}
	return nil
}

func (c *CFSM) addEdge(from, to int, sym *grammar.Symbol) {
	for _, v := range c.edges.Values() {
		e := v.(cfsmEdge)
		if e.from == from && e.to == to && e.label == sym {
			return
		}
	}
	c.edges.Add(cfsmEdge{from: from, to: to, label: sym})
}

func (c *CFSM) edgesFrom(stateID int) []cfsmEdge {
	var out []cfsmEdge
	for _, v := range c.edges.Values() {
		e := v.(cfsmEdge)
		if e.from == stateID {
			out = append(out, e)
		}
	}
	return out
}

// ToGraphViz writes c to w in GraphViz DOT format, one Mrecord node per
// state (its item set rendered as a newline-joined label) and one labeled
// edge per transition. Accept states are filled light gray.
func (c *CFSM) ToGraphViz(w io.Writer) {
	io.WriteString(w, `digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.States {
		fmt.Fprintf(w, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, cfsmNodeColor(s), s.ID, cfsmItemsLabel(s.Items))
	}
	for _, v := range c.edges.Values() {
		e := v.(cfsmEdge)
		fmt.Fprintf(w, "s%03d -> s%03d [label=\"%s\"]\n", e.from, e.to, e.label.FQN)
	}
	io.WriteString(w, "}\n")
}

func cfsmNodeColor(s *CFSMState) string {
	if s.isAcceptState() {
		return "lightgray"
	}
	return "white"
}

// cfsmItemsLabel renders a state's item set as a sorted, newline-joined
// Mrecord label, escaping the characters Graphviz reserves inside a
// record-shape label.
func cfsmItemsLabel(items *iset.Set) string {
	lines := make([]string, 0, items.Size())
	for _, x := range items.Values() {
		lines = append(lines, asItem(x).String())
	}
	sort.Strings(lines)
	for i, l := range lines {
		r := strings.NewReplacer("{", "\\{", "}", "\\}", "|", "\\|", "<", "\\<", ">", "\\>")
		lines[i] = r.Replace(l)
	}
	return strings.Join(lines, "\\l") + "\\l"
}

// buildCFSM runs subset construction over closure/goto (LR0 flavor for
// Mode LR0 and SLR, LR1 flavor for Mode CLR and the pre-merge pass of
// LALR), starting from the augmented production's initial item.
func buildCFSM(g *grammar.Grammar, mode Mode) *CFSM {
	useLR1 := mode == CLR || mode == LALR
	c := newCFSM(mode)

	start := g.Rule(0) // augmented S' -> S STOP
	seed := newItemSet()
	if useLR1 {
		seed.Add(Item{Prod: start, Dot: 0, Lookahead: encodeLookahead(map[string]bool{grammar.StopName: true})})
	} else {
		seed.Add(Item{Prod: start, Dot: 0})
	}

	var initial *iset.Set
	if useLR1 {
		initial = closureLR1(g, seed)
	} else {
		initial = closureLR0(g, seed)
	}
	s0 := c.addState(initial)

	worklist := []int{s0.ID}
	seen := treeset.NewWith(utils.IntComparator, s0.ID)
	for len(worklist) > 0 {
		id := worklist[0]
		worklist = worklist[1:]
		state := c.States[id]
		for _, sym := range symbolsAfterDot(state.Items) {
			var next *iset.Set
			if useLR1 {
				next = gotoLR1(g, state.Items, sym)
			} else {
				next = gotoLR0(g, state.Items, sym)
			}
			if next.Empty() {
				continue
			}
			target := c.addState(next)
			c.addEdge(state.ID, target.ID, sym)
			if !seen.Contains(target.ID) {
				seen.Add(target.ID)
				worklist = append(worklist, target.ID)
			}
		}
	}

	if mode == LALR {
		c = mergeLALR(c)
	}
	return c
}

// coreOf returns a stable string key for items's set of (production, dot)
// pairs, ignoring lookahead — two states with the same coreOf are merge
// candidates for LALR coalescing.
func coreOf(items *iset.Set) string {
	keys := make([]string, 0, items.Size())
	for _, x := range items.Values() {
		i := asItem(x)
		keys = append(keys, fmt.Sprintf("%d.%d", i.Prod.ProdID, i.Dot))
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += k + ";"
	}
	return out
}

// mergeLALR coalesces canonical-LR(1) states that share the same item core
// (ignoring lookahead) into a single state with the union of their
// lookahead sets, then rewrites every edge to point at the merged states —
// the standard "build CLR(1), then coalesce identical cores" LALR(1)
// construction. Unlike a blind union, each same-core state is only folded
// into an existing merge bucket when doing so passes the merge-safety
// check from parglare's tables.py merge_states: two same-core states are
// kept as separate states (a canonical-LR(1)-sized automaton for that
// region) whenever merging them would introduce a reduce/reduce collision
// between two different completed items that neither state had on its
// own — spec.md §4.2's LALR merge, not a lossy "always coalesce" shortcut.
func mergeLALR(c *CFSM) *CFSM {
	var coreOrder []string
	coreStates := map[string][]*CFSMState{}
	for _, s := range c.States {
		key := coreOf(s.Items)
		if _, ok := coreStates[key]; !ok {
			coreOrder = append(coreOrder, key)
		}
		coreStates[key] = append(coreStates[key], s)
	}

	groupOf := map[int]int{} // old state ID -> merged state ID
	var bucketItems []*iset.Set

	for _, key := range coreOrder {
		var localBuckets []int // bucket indices already opened for this core
		for _, s := range coreStates[key] {
			placed := false
			for _, bi := range localBuckets {
				if canMergeFollows(bucketItems[bi], s.Items) {
					mergeLookaheadsInto(bucketItems[bi], s.Items)
					groupOf[s.ID] = bi
					placed = true
					break
				}
			}
			if !placed {
				bucketItems = append(bucketItems, s.Items.Copy())
				bi := len(bucketItems) - 1
				localBuckets = append(localBuckets, bi)
				groupOf[s.ID] = bi
			}
		}
	}

	merged := newCFSM(LALR)
	for gid, items := range bucketItems {
		merged.States = append(merged.States, &CFSMState{ID: gid, Items: items})
	}
	seenEdge := map[[3]int]bool{}
	for _, v := range c.edges.Values() {
		e := v.(cfsmEdge)
		from, to := groupOf[e.from], groupOf[e.to]
		key := [3]int{from, to, symID(e.label)}
		if seenEdge[key] {
			continue
		}
		seenEdge[key] = true
		merged.addEdge(from, to, e.label)
	}
	return merged
}

// canMergeFollows reports whether folding src's items into dst (already a
// merge of zero or more prior same-core states) is safe: no two distinct
// completed items (different production/dot cores) may end up sharing a
// lookahead token as a direct result of the union. Mirrors parglare's
// merge_states check_set walk — at-end item cores are visited in a fixed
// deterministic order, accumulating claimed follow tokens, and the merge is
// rejected the moment either side's follow set for the next core collides
// with tokens an earlier core already claimed.
func canMergeFollows(dst, src *iset.Set) bool {
	dstFollow := map[coreKey]map[string]bool{}
	srcFollow := map[coreKey]map[string]bool{}
	seen := map[coreKey]bool{}
	var cores []coreKey

	collect := func(items *iset.Set, into map[coreKey]map[string]bool) {
		for _, x := range items.Values() {
			i := asItem(x)
			if !i.AtEnd() {
				continue
			}
			ck := coreKey{i.Prod, i.Dot}
			into[ck] = i.lookaheadSet()
			if !seen[ck] {
				seen[ck] = true
				cores = append(cores, ck)
			}
		}
	}
	collect(dst, dstFollow)
	collect(src, srcFollow)

	sort.Slice(cores, func(a, b int) bool {
		if cores[a].prod.ProdID != cores[b].prod.ProdID {
			return cores[a].prod.ProdID < cores[b].prod.ProdID
		}
		return cores[a].dot < cores[b].dot
	})

	checkSet := map[string]bool{}
	for _, ck := range cores {
		oldFollow, newFollow := dstFollow[ck], srcFollow[ck]
		if followIntersects(oldFollow, checkSet) || followIntersects(newFollow, checkSet) {
			return false
		}
		for t := range oldFollow {
			checkSet[t] = true
		}
		for t := range newFollow {
			checkSet[t] = true
		}
	}
	return true
}

func followIntersects(a, b map[string]bool) bool {
	for t := range a {
		if b[t] {
			return true
		}
	}
	return false
}

// mergeLookaheadsInto unions every item of src into dst, merging lookahead
// sets of items sharing a core the same way closureLR1's addOrMerge does.
func mergeLookaheadsInto(dst *iset.Set, src *iset.Set) {
	byCore := map[coreKey]map[string]bool{}
	for _, x := range dst.Values() {
		i := asItem(x)
		byCore[coreKey{i.Prod, i.Dot}] = i.lookaheadSet()
	}
	for _, x := range src.Values() {
		i := asItem(x)
		ck := coreKey{i.Prod, i.Dot}
		set, ok := byCore[ck]
		if !ok {
			set = map[string]bool{}
			byCore[ck] = set
		}
		for t := range i.lookaheadSet() {
			set[t] = true
		}
	}
	*dst = *iset.NewSet(len(byCore))
	for ck, la := range byCore {
		dst.Add(Item{Prod: ck.prod, Dot: ck.dot, Lookahead: encodeLookahead(la)})
	}
}

func symID(sym *grammar.Symbol) int {
	if sym == nil {
		return -1
	}
	return sym.ID
}
