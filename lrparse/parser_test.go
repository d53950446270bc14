package lrparse

import (
	"testing"

	"github.com/parsix/hydra"
	"github.com/parsix/hydra/automaton"
	"github.com/parsix/hydra/grammar"
)

func buildSumGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("sum", false)
	num, err := grammar.NewRegexRecognizer(`[0-9]+`, false)
	if err != nil {
		t.Fatalf("regex: %v", err)
	}
	layout, err := grammar.NewRegexRecognizer(`\s+`, false)
	if err != nil {
		t.Fatalf("regex: %v", err)
	}
	b.Terminal("num", num)
	b.Terminal("plus", grammar.NewStringRecognizer("+", false))
	b.Terminal(grammar.LayoutRuleName, layout)

	b.LHS("Sum").N("Sum").T("plus").As("rhs").T("num").As("lhs").End().
		T("num").End()
	b.Start("Sum")

	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return g
}

func TestParseSimpleSum(t *testing.T) {
	g := buildSumGrammar(t)
	tab, err := automaton.Generate(g, automaton.LALR, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(tab.Conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", tab.Conflicts)
	}
	p := New(g, tab)
	tree, errs := p.Parse("1 + 2 + 3")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if tree == nil {
		t.Fatalf("expected a parse tree")
	}
	if tree.Symbol != "Sum'" && tree.Symbol != "Sum" {
		t.Fatalf("unexpected root symbol %q", tree.Symbol)
	}
}

func TestParseSyntaxError(t *testing.T) {
	g := buildSumGrammar(t)
	tab, err := automaton.Generate(g, automaton.LALR, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	p := New(g, tab)
	_, errs := p.Parse("1 + + 2")
	if len(errs) == 0 {
		t.Fatalf("expected a syntax error for a dangling '+'")
	}
}

// buildPrecedenceGrammar builds spec.md §8 scenario 1's grammar:
//
//	E -> E '+' E {left, 1} | E '*' E {left, 2} | num
//
// '*' declaring a higher priority than '+' must make the shift on '*' win
// over a pending reduce-by-'+', regardless of both alternatives sharing
// left associativity.
func buildPrecedenceGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("precedence", false)
	num, err := grammar.NewRegexRecognizer(`[0-9]+`, false)
	if err != nil {
		t.Fatalf("regex: %v", err)
	}
	b.Terminal("num", num)
	b.Terminal("plus", grammar.NewStringRecognizer("+", false))
	b.Terminal("star", grammar.NewStringRecognizer("*", false))
	b.LHS("E").
		N("E").T("plus").N("E").Left(1).End().
		N("E").T("star").N("E").Left(2).End().
		T("num").End()
	b.Start("E")

	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return g
}

func TestShiftReduceResolvedByPriorityBeforeAssociativity(t *testing.T) {
	g := buildPrecedenceGrammar(t)
	tab, err := automaton.Generate(g, automaton.LALR, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(tab.Conflicts) != 0 {
		t.Fatalf("differing-priority operators should resolve without a residual conflict, got %v", tab.Conflicts)
	}

	p := New(g, tab)
	tree, errs := p.Parse("1+2*3")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if tree == nil {
		t.Fatalf("expected a parse tree")
	}

	// '*' binds tighter than '+': the tree must read as 1 + (2 * 3), not
	// (1 + 2) * 3 — the bug left-associativity-only resolution would produce.
	want := "E(E(1) + E(E(2) * E(3)))"
	got := tree.String()
	if got != want {
		t.Fatalf("expected precedence-correct grouping %q, got %q", want, got)
	}
}

// buildRecoveryGrammar is buildPrecedenceGrammar's grammar plus whitespace
// layout, for spec.md §8 scenario 5's recovery test.
func buildRecoveryGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("recovery", false)
	num, err := grammar.NewRegexRecognizer(`[0-9]+`, false)
	if err != nil {
		t.Fatalf("regex: %v", err)
	}
	layout, err := grammar.NewRegexRecognizer(`\s+`, false)
	if err != nil {
		t.Fatalf("regex: %v", err)
	}
	b.Terminal("num", num)
	b.Terminal("plus", grammar.NewStringRecognizer("+", false))
	b.Terminal("star", grammar.NewStringRecognizer("*", false))
	b.Terminal(grammar.LayoutRuleName, layout)
	b.LHS("E").
		N("E").T("plus").N("E").Left(1).End().
		N("E").T("star").N("E").Left(2).End().
		T("num").End()
	b.Start("E")

	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return g
}

// TestErrorRecoveryScenario exercises spec.md §8 scenario 5: recovery
// enabled with consume_input=false on "1 + 2 + * 3 & 89 - 5" yields result
// 6 (effective "1+2+3") and exactly one recorded error at the stray '*'.
func TestErrorRecoveryScenario(t *testing.T) {
	g := buildRecoveryGrammar(t)
	tab, err := automaton.Generate(g, automaton.LALR, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(tab.Conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", tab.Conflicts)
	}

	p := New(g, tab, WithRecovery(nil), WithConsumeInput(false))
	tree, errs := p.Parse("1 + 2 + * 3 & 89 - 5")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one recorded error, got %d: %v", len(errs), errs)
	}
	synErr, ok := errs[0].(*hydra.SyntaxError)
	if !ok {
		t.Fatalf("expected a *hydra.SyntaxError, got %T", errs[0])
	}
	if synErr.Position.Offset != 8 {
		t.Fatalf("expected the error at the stray '*' (offset 8), got %d", synErr.Position.Offset)
	}
	if tree == nil {
		t.Fatalf("expected a partial parse tree covering \"1 + 2 + 3\"")
	}
	want := "E(E(E(1) + E(2)) + E(3))"
	if got := tree.String(); got != want {
		t.Fatalf("expected the recovered tree to read as 1+2+3, got %q", got)
	}
}

// buildDynamicSumGrammar declares its single recursive alternative
// `dynamic`, forcing its shift/reduce conflict with itself to be deferred
// to a runtime filter rather than resolved by priority/associativity
// (automaton/conflict.go's resolve()).
func buildDynamicSumGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("dynamicsum", false)
	num, err := grammar.NewRegexRecognizer(`[0-9]+`, false)
	if err != nil {
		t.Fatalf("regex: %v", err)
	}
	b.Terminal("num", num)
	b.Terminal("plus", grammar.NewStringRecognizer("+", false))
	b.LHS("E").
		N("E").T("plus").N("E").Dynamic().End().
		T("num").End()
	b.Start("E")

	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return g
}

func TestDynamicFilterResolvesDeferredConflict(t *testing.T) {
	g := buildDynamicSumGrammar(t)
	tab, err := automaton.Generate(g, automaton.LALR, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(tab.Conflicts) != 0 {
		t.Fatalf("a dynamic production should defer to the runtime filter, not report a conflict: %v", tab.Conflicts)
	}

	preferReduce := func(state int, terminal string, candidates []automaton.Action) []automaton.Action {
		for _, a := range candidates {
			if a.Kind == automaton.Reduce {
				return []automaton.Action{a}
			}
		}
		return candidates
	}
	p := New(g, tab, WithDynamicFilter(preferReduce))
	tree, errs := p.Parse("1+2+3")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	want := "E(E(E(1) + E(2)) + E(3))"
	if got := tree.String(); got != want {
		t.Fatalf("expected left-associative grouping from the filter, got %q, want %q", got, want)
	}
}

func TestDynamicFilterUnresolvedRaisesDynamicDisambiguationError(t *testing.T) {
	g := buildDynamicSumGrammar(t)
	tab, err := automaton.Generate(g, automaton.LALR, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	keepAll := func(state int, terminal string, candidates []automaton.Action) []automaton.Action {
		return candidates
	}
	p := New(g, tab, WithDynamicFilter(keepAll))
	_, errs := p.Parse("1+2+3")
	if len(errs) == 0 {
		t.Fatalf("expected an error when the filter leaves multiple live actions")
	}
	found := false
	for _, e := range errs {
		if _, ok := e.(*hydra.DynamicDisambiguationError); ok {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a *hydra.DynamicDisambiguationError among %v", errs)
	}
}
