package main

import (
	"testing"

	"github.com/parsix/hydra/automaton"
	"github.com/parsix/hydra/lrparse"
)

func TestUnambiguousSumGrammarParses(t *testing.T) {
	g, err := unambiguousSumGrammar()
	if err != nil {
		t.Fatalf("unambiguousSumGrammar: %v", err)
	}
	table, err := automaton.Generate(g, automaton.LALR, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(table.Conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %v", table.Conflicts)
	}
	parser := lrparse.New(g, table)
	node, errs := parser.Parse("1+2*3")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if node == nil {
		t.Fatal("expected a parse tree")
	}
}

func TestDemoGrammarUnknownNameErrors(t *testing.T) {
	if _, err := demoGrammar("nope"); err == nil {
		t.Fatal("expected an error for an unknown demo grammar name")
	}
}
