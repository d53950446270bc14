package automaton

import (
	"bytes"
	"strings"
	"testing"

	"github.com/parsix/hydra/grammar"
)

// buildExprGrammar builds the textbook expression grammar:
//
//	E -> E + T | T
//	T -> T * F | F
//	F -> ( E ) | id
//
// used throughout compiler textbooks (and dekarrin-tunaq's grammar tests)
// as the canonical example that needs genuine LALR merging to stay
// conflict-free.
func buildExprGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("expr", false)
	b.Terminal("plus", grammar.NewStringRecognizer("+", false))
	b.Terminal("star", grammar.NewStringRecognizer("*", false))
	b.Terminal("lparen", grammar.NewStringRecognizer("(", false))
	b.Terminal("rparen", grammar.NewStringRecognizer(")", false))
	b.Terminal("id", grammar.NewStringRecognizer("id", false))

	b.LHS("E").N("E").T("plus").N("T").End().
		N("T").End()
	b.LHS("T").N("T").T("star").N("F").End().
		N("F").End()
	b.LHS("F").T("lparen").N("E").T("rparen").End().
		T("id").End()
	b.Start("E")

	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return g
}

func TestGenerateLALRNoConflicts(t *testing.T) {
	g := buildExprGrammar(t)
	tab, err := Generate(g, LALR, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(tab.Conflicts) != 0 {
		t.Fatalf("expected no conflicts in the classic expression grammar, got %v", tab.Conflicts)
	}
	if tab.NStates() == 0 {
		t.Fatalf("expected a non-empty CFSM")
	}
}

func TestGenerateLALRStateCountNotAboveCLR(t *testing.T) {
	g := buildExprGrammar(t)
	lalr, err := Generate(g, LALR, false)
	if err != nil {
		t.Fatalf("Generate(LALR): %v", err)
	}
	clr, err := Generate(g, CLR, false)
	if err != nil {
		t.Fatalf("Generate(CLR): %v", err)
	}
	if lalr.NStates() > clr.NStates() {
		t.Fatalf("LALR merging should never produce more states than CLR: LALR=%d CLR=%d", lalr.NStates(), clr.NStates())
	}
}

func TestShiftReduceResolvedByAssociativity(t *testing.T) {
	b := grammar.NewBuilder("assoc", false)
	b.Terminal("plus", grammar.NewStringRecognizer("+", false))
	b.Terminal("id", grammar.NewStringRecognizer("id", false))
	b.LHS("E").
		N("E").T("plus").N("E").Left(10).End().
		T("id").End()
	b.Start("E")
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	tab, err := Generate(g, LALR, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(tab.Conflicts) != 0 {
		t.Fatalf("left-associative + should resolve its own shift/reduce conflict, got %v", tab.Conflicts)
	}
}

func TestGLRTableKeepsAmbiguousCandidates(t *testing.T) {
	// A classically ambiguous grammar: E -> E + E | E * E | id, with no
	// declared associativity or priority at all.
	b := grammar.NewBuilder("ambiguous", false)
	b.Terminal("plus", grammar.NewStringRecognizer("+", false))
	b.Terminal("star", grammar.NewStringRecognizer("*", false))
	b.Terminal("id", grammar.NewStringRecognizer("id", false))
	b.LHS("E").
		N("E").T("plus").N("E").End().
		N("E").T("star").N("E").End().
		T("id").End()
	b.Start("E")
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	tab, err := Generate(g, LALR, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	found := false
	for state := 0; state < tab.NStates(); state++ {
		for _, term := range tab.ExpectedTerminals(state) {
			if len(tab.Actions(state, term)) > 1 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected at least one multi-candidate cell in GLR mode for an ambiguous grammar")
	}
}

func TestTableEncodeDecodeRoundTrip(t *testing.T) {
	g := buildExprGrammar(t)
	tab, err := Generate(g, LALR, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var buf bytes.Buffer
	if err := tab.EncodeTo(&buf); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}

	decoded, err := DecodeFrom(&buf, g)
	if err != nil {
		t.Fatalf("DecodeFrom: %v", err)
	}
	if decoded.BuildID != tab.BuildID {
		t.Fatalf("expected BuildID to round-trip, got %s want %s", decoded.BuildID, tab.BuildID)
	}
	if decoded.NStates() != tab.NStates() {
		t.Fatalf("expected NStates to round-trip, got %d want %d", decoded.NStates(), tab.NStates())
	}

	for state := 0; state < tab.NStates(); state++ {
		for _, term := range tab.ExpectedTerminals(state) {
			want := tab.Actions(state, term)
			got := decoded.Actions(state, term)
			if len(want) != len(got) {
				t.Fatalf("state %d terminal %s: action count mismatch, got %d want %d", state, term, len(got), len(want))
			}
			for i := range want {
				if want[i].Kind != got[i].Kind || want[i].Target != got[i].Target {
					t.Fatalf("state %d terminal %s action %d: got %v want %v", state, term, i, got[i], want[i])
				}
				if want[i].Kind == Reduce && want[i].Prod.ProdID != got[i].Prod.ProdID {
					t.Fatalf("state %d terminal %s action %d: reduce prod mismatch, got %d want %d", state, term, i, got[i].Prod.ProdID, want[i].Prod.ProdID)
				}
			}
		}
	}

	for _, nt := range g.NonTerminals {
		for state := 0; state < tab.NStates(); state++ {
			wantTarget, wantOK := tab.Goto(state, nt)
			gotTarget, gotOK := decoded.Goto(state, nt)
			if wantOK != gotOK || wantTarget != gotTarget {
				t.Fatalf("state %d nonterm %s: GOTO mismatch, got (%d,%v) want (%d,%v)", state, nt.FQN, gotTarget, gotOK, wantTarget, wantOK)
			}
		}
	}
}

func TestCFSMToGraphVizProducesWellFormedDot(t *testing.T) {
	g := buildExprGrammar(t)
	tab, err := Generate(g, LALR, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var buf bytes.Buffer
	tab.CFSM.ToGraphViz(&buf)
	out := buf.String()

	if !strings.HasPrefix(out, "digraph {") {
		t.Fatalf("expected DOT output to start with \"digraph {\", got %q", out[:20])
	}
	if !strings.Contains(out, "s000") {
		t.Fatalf("expected state s000 to appear in DOT output")
	}
	if strings.Count(out, "->") == 0 {
		t.Fatalf("expected at least one transition edge in DOT output")
	}
}
