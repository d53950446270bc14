package lex

import (
	"testing"

	"github.com/parsix/hydra/grammar"
)

func buildKeywordGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("kw", false)
	ident, err := grammar.NewRegexRecognizer(`[a-zA-Z_][a-zA-Z0-9_]*`, false)
	if err != nil {
		t.Fatalf("regex: %v", err)
	}
	b.Terminal("ident", ident)
	b.Terminal("for_kw", grammar.NewStringRecognizer("for", false))
	b.Terminal(grammar.KeywordRuleName, ident)
	b.LHS("Prog").T("for_kw").End().T("ident").End()
	b.Start("Prog")
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return g
}

func TestKeywordDoesNotMatchInsideLongerIdentifier(t *testing.T) {
	g := buildKeywordGrammar(t)
	lx, err := New(g, "forward")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	toks, _, err := lx.Next(0, []string{"for_kw", "ident"})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(toks) != 1 || toks[0].Terminal() != "ident" {
		t.Fatalf("expected a single ident token for %q, got %v", "forward", toks)
	}
}

func TestKeywordMatchesAtWordBoundary(t *testing.T) {
	g := buildKeywordGrammar(t)
	lx, err := New(g, "for")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	toks, _, err := lx.Next(0, []string{"for_kw", "ident"})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(toks) != 1 || toks[0].Terminal() != "for_kw" {
		t.Fatalf("expected keyword for_kw to win at a word boundary, got %v", toks)
	}
}

func TestNoMatchReturnsEmptyWinners(t *testing.T) {
	g := buildKeywordGrammar(t)
	lx, err := New(g, "123")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	toks, _, err := lx.Next(0, []string{"for_kw", "ident"})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(toks) != 0 {
		t.Fatalf("expected no winners for unmatchable input, got %v", toks)
	}
}
