// Package automaton builds LR(0)/SLR(1)/LALR(1)/canonical-LR(1) parse
// tables from a *grammar.Grammar: item-set closures, the characteristic
// finite-state machine (CFSM), and ACTION/GOTO table generation with
// conflict resolution.
//
// The teacher module's equivalent (lr/tables.go) never shipped its own
// Item/Rule type definitions in the retrieved source — only their call
// sites in tables.go survived. Item below reconstructs that contract
// (PeekSymbol, Advance, a rule/production pointer and a dot index) from
// those call sites, generalized to also carry an LR(1) lookahead set where
// the table-generation mode needs one.
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/parsix/hydra/grammar"
)

func tracer() tracing.Trace { return tracing.Select("hydra.automaton") }

// Item is a dotted production, optionally carrying an LR(1) lookahead set.
// Two items compare equal (for set membership) iff their production,
// dot position and lookahead set are all equal — callers building LR(0)/SLR
// automata simply never populate Lookahead, so its zero value ("") is
// shared and comparisons degrade to production+dot only.
type Item struct {
	Prod      *grammar.Production
	Dot       int
	Lookahead string // canonicalized, sorted "a|b|c" encoding of the LR(1) lookahead set ("" for LR0/SLR items)
}

// PeekSymbol returns the RHS symbol immediately after the dot, or nil if
// the dot is at the end of the production (a reduce item).
func (i Item) PeekSymbol() *grammar.Symbol {
	if i.Dot >= len(i.Prod.RHS) {
		return nil
	}
	return i.Prod.RHS[i.Dot]
}

// AtEnd reports whether the dot has reached the end of the production.
func (i Item) AtEnd() bool { return i.Dot >= len(i.Prod.RHS) }

// Advance returns the item with the dot moved one position to the right.
// It does not check AtEnd — callers only call it after checking PeekSymbol.
func (i Item) Advance() Item {
	return Item{Prod: i.Prod, Dot: i.Dot + 1, Lookahead: i.Lookahead}
}

// lookaheadSet decodes the packed Lookahead string back into a set.
func (i Item) lookaheadSet() map[string]bool {
	set := map[string]bool{}
	if i.Lookahead == "" {
		return set
	}
	for _, t := range strings.Split(i.Lookahead, "|") {
		set[t] = true
	}
	return set
}

// encodeLookahead canonicalizes a lookahead set into Item.Lookahead's
// packed string form, so two items with the same set compare equal
// regardless of build order.
func encodeLookahead(set map[string]bool) string {
	if len(set) == 0 {
		return ""
	}
	terms := make([]string, 0, len(set))
	for t := range set {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return strings.Join(terms, "|")
}

// withLookahead returns a copy of i with Lookahead the union of its
// current set and extra.
func (i Item) withLookahead(extra map[string]bool) Item {
	set := i.lookaheadSet()
	changed := false
	for t := range extra {
		if !set[t] {
			set[t] = true
			changed = true
		}
	}
	if !changed {
		return i
	}
	return Item{Prod: i.Prod, Dot: i.Dot, Lookahead: encodeLookahead(set)}
}

func (i Item) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s ->", i.Prod.LHS.FQN)
	for k, sym := range i.Prod.RHS {
		if k == i.Dot {
			b.WriteString(" •")
		}
		b.WriteString(" " + sym.FQN)
	}
	if i.Dot == len(i.Prod.RHS) {
		b.WriteString(" •")
	}
	if i.Lookahead != "" {
		fmt.Fprintf(&b, ", {%s}", strings.ReplaceAll(i.Lookahead, "|", "/"))
	}
	return b.String()
}
