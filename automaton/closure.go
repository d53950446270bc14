package automaton

import (
	"github.com/parsix/hydra/grammar"
	"github.com/parsix/hydra/internal/iset"
)

// newItemSet is the closure/goto worklist's starting point, mirroring the
// teacher's newItemSet() helper referenced throughout lr/tables.go.
func newItemSet() *iset.Set { return iset.NewSet(8) }

func asItem(v interface{}) Item { return v.(Item) }

// closureLR0 computes the LR(0) closure of a seed item set: for every item
// A -> α•Bβ with B a nonterminal, add every production B -> γ as a new
// item B -> •γ, repeating until no new items appear. Grounded on the
// teacher's closureSet (lr/tables.go), generalized to operate over
// grammar.Production instead of the teacher's untyped Rule.
func closureLR0(g *grammar.Grammar, seed *iset.Set) *iset.Set {
	c := seed.Copy()
	c.IterateOnce()
	for c.Next() {
		item := asItem(c.Item())
		A := item.PeekSymbol()
		if A == nil || A.Terminal {
			continue
		}
		for _, p := range g.ProductionsFor(A.FQN) {
			c.Add(Item{Prod: p, Dot: 0})
		}
	}
	return c
}

// gotoLR0 computes GOTO(itemSet, A): advance every item whose symbol after
// the dot is A, then take the LR(0) closure of the result.
func gotoLR0(g *grammar.Grammar, items *iset.Set, A *grammar.Symbol) *iset.Set {
	out := newItemSet()
	for _, x := range items.Values() {
		i := asItem(x)
		if i.PeekSymbol() == A {
			out.Add(i.Advance())
		}
	}
	return closureLR0(g, out)
}

// coreKey identifies an item ignoring its lookahead set: canonical-LR(1)
// closure keeps at most one lookahead-set record per (production, dot)
// pair within a state, merging lookaheads as new contributions are found,
// rather than the plain LR(0) worklist's "just Add and let the set
// dedupe" approach — a bare iset.Set can't merge two Item values that
// differ only in their Lookahead field, since that field is part of
// Item's equality.
type coreKey struct {
	prod *grammar.Production
	dot  int
}

// closureLR1 computes the canonical LR(1) closure of a seed set of
// (possibly already-lookahead-bearing) items: for A -> α•Bβ with
// lookahead set L, every B -> γ gets a new item B -> •γ with lookahead
// FIRST(βL) (β possibly nullable, in which case L itself contributes too),
// merged into any existing record for that core.
func closureLR1(g *grammar.Grammar, seed *iset.Set) *iset.Set {
	state := map[coreKey]map[string]bool{}
	var worklist []coreKey

	addOrMerge := func(ck coreKey, la map[string]bool) {
		set, existed := state[ck]
		if !existed {
			set = map[string]bool{}
			state[ck] = set
		}
		changed := !existed
		for t := range la {
			if !set[t] {
				set[t] = true
				changed = true
			}
		}
		if changed {
			worklist = append(worklist, ck)
		}
	}

	for _, v := range seed.Values() {
		it := asItem(v)
		addOrMerge(coreKey{it.Prod, it.Dot}, it.lookaheadSet())
	}
	for len(worklist) > 0 {
		ck := worklist[0]
		worklist = worklist[1:]
		la := state[ck]
		item := Item{Prod: ck.prod, Dot: ck.dot}
		A := item.PeekSymbol()
		if A == nil || A.Terminal {
			continue
		}
		trailing := ck.prod.RHS[ck.dot+1:]
		newLA := g.FirstOfSequence(trailing, la)
		for _, p := range g.ProductionsFor(A.FQN) {
			addOrMerge(coreKey{p, 0}, newLA)
		}
	}

	out := newItemSet()
	for ck, la := range state {
		out.Add(Item{Prod: ck.prod, Dot: ck.dot, Lookahead: encodeLookahead(la)})
	}
	return out
}

// gotoLR1 computes GOTO for the canonical-LR(1) automaton: advance every
// item whose symbol after the dot is A (carrying its lookahead along),
// then take the LR(1) closure of the result.
func gotoLR1(g *grammar.Grammar, items *iset.Set, A *grammar.Symbol) *iset.Set {
	out := newItemSet()
	for _, x := range items.Values() {
		i := asItem(x)
		if i.PeekSymbol() == A {
			out.Add(i.Advance())
		}
	}
	return closureLR1(g, out)
}

// symbolsAfterDot returns, in first-seen order, every distinct symbol
// following the dot of some item in items — the set of symbols the CFSM
// can transition on from this state.
func symbolsAfterDot(items *iset.Set) []*grammar.Symbol {
	seen := map[*grammar.Symbol]bool{}
	var out []*grammar.Symbol
	for _, x := range items.Values() {
		i := asItem(x)
		if sym := i.PeekSymbol(); sym != nil && !seen[sym] {
			seen[sym] = true
			out = append(out, sym)
		}
	}
	return out
}
