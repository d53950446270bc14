package sppf

import "github.com/parsix/hydra/grammar"

func ambiguousSumForest() (*Forest, *SymbolNode) {
	id := &grammar.Symbol{FQN: "id", Terminal: true, ID: 0}
	plus := &grammar.Symbol{FQN: "plus", Terminal: true, ID: 1}
	e := &grammar.Symbol{FQN: "E", ID: 2}

	eFromID := &grammar.Production{LHS: e, RHS: []*grammar.Symbol{id}, ProdID: 2}
	eFromSum := &grammar.Production{LHS: e, RHS: []*grammar.Symbol{e, plus, e}, ProdID: 1}

	f := NewForest()
	id1 := f.AddTerminal(id, 0, 1)
	plus1 := f.AddTerminal(plus, 1, 1)
	id2 := f.AddTerminal(id, 2, 1)
	plus2 := f.AddTerminal(plus, 3, 1)
	id3 := f.AddTerminal(id, 4, 1)

	e1 := f.AddReduction(eFromID, []*SymbolNode{id1})
	e2 := f.AddReduction(eFromID, []*SymbolNode{id2})
	e3 := f.AddReduction(eFromID, []*SymbolNode{id3})

	e12 := f.AddReduction(eFromSum, []*SymbolNode{e1, plus1, e2})
	leftGrouped := f.AddReduction(eFromSum, []*SymbolNode{e12, plus2, e3})

	e23 := f.AddReduction(eFromSum, []*SymbolNode{e2, plus2, e3})
	rightGrouped := f.AddReduction(eFromSum, []*SymbolNode{e1, plus1, e23})

	if leftGrouped != rightGrouped {
		panic("expected both groupings to merge onto one SymbolNode spanning (0,5)")
	}
	f.SetRoot(rightGrouped)
	return f, rightGrouped
}
