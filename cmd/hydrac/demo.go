package main

import (
	"fmt"

	"github.com/parsix/hydra/grammar"
)

// unambiguousSumGrammar builds a small deterministic arithmetic grammar,
// the structural equivalent of the teacher's makeExprGrammar
// (terex/terexlang/trepl/repl.go): standard precedence climbing via
// separate Sum/Product/Factor rules, with the usual parenthesized-group
// escape hatch.
//
//	Sum     -> Sum '+' Product | Product
//	Product -> Product '*' Factor | Factor
//	Factor  -> number | '(' Sum ')'
func unambiguousSumGrammar() (*grammar.Grammar, error) {
	number, err := grammar.NewRegexRecognizer(`[0-9]+`, false)
	if err != nil {
		return nil, err
	}
	b := grammar.NewBuilder("sum", false)
	b.Terminal("number", number)
	b.LHS("Sum").N("Sum").Str("+").N("Product").End()
	b.LHS("Sum").N("Product").End()
	b.LHS("Product").N("Product").Str("*").N("Factor").End()
	b.LHS("Product").N("Factor").End()
	b.LHS("Factor").T("number").End()
	b.LHS("Factor").Str("(").N("Sum").Str(")").End()
	b.Start("Sum")
	return b.Grammar()
}

// ambiguousSumGrammar builds the classically ambiguous version of the same
// language (no precedence rules at all), useful for demonstrating GLR
// forking and forest ambiguity counting:
//
//	E -> E '+' E | E '*' E | number
func ambiguousSumGrammar() (*grammar.Grammar, error) {
	number, err := grammar.NewRegexRecognizer(`[0-9]+`, false)
	if err != nil {
		return nil, err
	}
	b := grammar.NewBuilder("ambiguous-sum", false)
	b.Terminal("number", number)
	b.LHS("E").N("E").Str("+").N("E").End()
	b.LHS("E").N("E").Str("*").N("E").End()
	b.LHS("E").T("number").End()
	b.Start("E")
	return b.Grammar()
}

func demoGrammar(name string) (*grammar.Grammar, error) {
	switch name {
	case "sum", "":
		return unambiguousSumGrammar()
	case "ambiguous-sum":
		return ambiguousSumGrammar()
	default:
		return nil, fmt.Errorf("unknown demo grammar %q (known: sum, ambiguous-sum)", name)
	}
}
