package main

import (
	"github.com/parsix/hydra/lrparse"
	"github.com/parsix/hydra/sppf"
	"github.com/pterm/pterm"
)

// renderLRTree prints n as a pterm tree, the same LeveledList-building
// pattern the teacher's trepl "tree" command uses for its AST
// (terex/terexlang/trepl/repl.go's indentedListFrom/leveledElem), adapted
// from walking terex.GCons lists to walking lrparse.Node trees.
func renderLRTree(n *lrparse.Node) {
	ll := leveledLRNode(n, pterm.LeveledList{}, 0)
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}

func leveledLRNode(n *lrparse.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	if n == nil {
		return append(ll, pterm.LeveledListItem{Level: level, Text: "ε"})
	}
	if n.IsLeaf() {
		return append(ll, pterm.LeveledListItem{Level: level, Text: n.String()})
	}
	ll = append(ll, pterm.LeveledListItem{Level: level, Text: n.Symbol})
	for _, c := range n.Children {
		ll = leveledLRNode(c, ll, level+1)
	}
	return ll
}

// renderSPPFTree is the same rendering, walking a disambiguated sppf.Tree
// (one concrete derivation pulled out of the shared forest via
// Forest.FirstTree/GetTree) instead of an lrparse.Node.
func renderSPPFTree(t *sppf.Tree) {
	ll := leveledSPPFTree(t, pterm.LeveledList{}, 0)
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}

func leveledSPPFTree(t *sppf.Tree, ll pterm.LeveledList, level int) pterm.LeveledList {
	if t == nil {
		return append(ll, pterm.LeveledListItem{Level: level, Text: "ε"})
	}
	label := t.Symbol
	if len(t.Children) == 0 {
		label = t.String()
	}
	ll = append(ll, pterm.LeveledListItem{Level: level, Text: label})
	for _, c := range t.Children {
		ll = leveledSPPFTree(c, ll, level+1)
	}
	return ll
}
