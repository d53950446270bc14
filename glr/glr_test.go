package glr

import (
	"testing"

	"github.com/parsix/hydra/automaton"
	"github.com/parsix/hydra/grammar"
)

func buildUnambiguousSumGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("sum", false)
	num, err := grammar.NewRegexRecognizer(`[0-9]+`, false)
	if err != nil {
		t.Fatalf("regex: %v", err)
	}
	b.Terminal("num", num)
	b.Terminal("plus", grammar.NewStringRecognizer("+", false))
	b.LHS("Sum").
		N("Sum").T("plus").T("num").End().
		T("num").End()
	b.Start("Sum")
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return g
}

func buildAmbiguousSumGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("ambiguoussum", false)
	b.Terminal("plus", grammar.NewStringRecognizer("+", false))
	b.Terminal("id", grammar.NewStringRecognizer("id", false))
	b.LHS("E").
		N("E").T("plus").N("E").End().
		T("id").End()
	b.Start("E")
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return g
}

func TestParseUnambiguousGrammarAccepts(t *testing.T) {
	g := buildUnambiguousSumGrammar(t)
	tab, err := automaton.Generate(g, automaton.LALR, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	p := New(g, tab)
	forest, errs := p.Parse("1+2+3")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if forest.Root() == nil {
		t.Fatalf("expected a non-nil forest root")
	}
	amb, err := forest.Ambiguities()
	if err != nil {
		t.Fatalf("Ambiguities: %v", err)
	}
	if amb != 0 {
		t.Fatalf("expected an unambiguous grammar to produce 0 ambiguities, got %d", amb)
	}
}

func TestParseAmbiguousGrammarProducesSharedForest(t *testing.T) {
	g := buildAmbiguousSumGrammar(t)
	tab, err := automaton.Generate(g, automaton.LALR, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	p := New(g, tab)
	forest, errs := p.Parse("id+id+id")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if forest.Root() == nil {
		t.Fatalf("expected a non-nil forest root")
	}
	count, err := forest.TreeCount()
	if err != nil {
		t.Fatalf("TreeCount: %v", err)
	}
	if count < 2 {
		t.Fatalf("expected at least 2 distinct parses of a left/right ambiguous sum, got %d", count)
	}
}

func TestParseRejectsInvalidInput(t *testing.T) {
	g := buildUnambiguousSumGrammar(t)
	tab, err := automaton.Generate(g, automaton.LALR, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	p := New(g, tab)
	_, errs := p.Parse("1++2")
	if len(errs) == 0 {
		t.Fatalf("expected an error parsing a malformed sum")
	}
}
