// Package lrparse implements the deterministic LR shift/reduce driver: a
// stack of (state, parse-tree-node) frames driven by an automaton.Table
// built without GLR mode, tokenizing on demand through package lex.
package lrparse

import (
	"strings"

	"github.com/parsix/hydra"
)

// Node is a single parse-tree node: a terminal leaf (Token != nil) or a
// reduced nonterminal with its matched children in RHS order. Attrs holds
// the production's named assignments (`name = item` / `name ?= item`),
// keyed by name.
type Node struct {
	Symbol   string
	Span     hydra.Span
	Token    hydra.Token
	Children []*Node
	Attrs    map[string]interface{}
}

// IsLeaf reports whether n is a terminal leaf.
func (n *Node) IsLeaf() bool { return n.Token != nil }

func (n *Node) String() string {
	if n.IsLeaf() {
		return n.Token.Lexeme()
	}
	var b strings.Builder
	b.WriteString(n.Symbol)
	if len(n.Children) > 0 {
		b.WriteString("(")
		for i, c := range n.Children {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(c.String())
		}
		b.WriteString(")")
	}
	return b.String()
}

// Walk calls visit for n and, recursively, every descendant, pre-order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}
