// Package hydra is a scannerless LR/GLR parsing toolkit.
//
// Given a grammar expressed as terminals and productions (see package
// grammar), hydra builds LR(0)/SLR/LALR(1)/canonical-LR(1) parse tables
// (package automaton), tokenizes input on demand using only the terminals
// reachable from the current parser state (package lex), and drives either
// a deterministic shift/reduce loop (package lrparse) or a Tomita-style
// GLR parser over a graph-structured stack with a shared packed parse
// forest (packages gss, sppf, glr).
//
// Package structure:
//
// ■ grammar: symbols, recognizers, productions, BNF-extension desugaring,
// FIRST/FOLLOW analysis.
//
// ■ automaton: LR item closures, CFSM construction, ACTION/GOTO table
// generation, LALR merging and conflict resolution.
//
// ■ lex: on-demand, state-driven scannerless tokenization with lexical
// disambiguation and layout skipping.
//
// ■ lrparse: the deterministic LR driver.
//
// ■ gss, sppf, glr: the graph-structured stack, the shared packed parse
// forest, and the GLR driver built on top of them.
//
// The base package contains data types shared across all of the above.
package hydra

import "fmt"

// Span captures a half-open range [From, To) of byte positions in the
// input that a terminal or nonterminal covers. Every node of a parse tree
// or forest carries one.
type Span [2]uint64

// From returns the start position of a span.
func (s Span) From() uint64 { return s[0] }

// To returns the position just behind the end of a span.
func (s Span) To() uint64 { return s[1] }

// Len returns the length of the span.
func (s Span) Len() uint64 { return s[1] - s[0] }

// IsNull reports whether the span is the zero span.
func (s Span) IsNull() bool { return s == Span{} }

// Extend grows s so that it also covers other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
