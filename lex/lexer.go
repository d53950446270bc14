// Package lex implements the scannerless, state-driven tokenizer: instead
// of a precompiled token stream, it recognizes a terminal on demand at a
// given input position, trying only the terminals the parser's current
// automaton state could possibly shift or reduce on (spec.md §4.3).
package lex

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/parsix/hydra"
	"github.com/parsix/hydra/grammar"
)

func tracer() tracing.Trace { return tracing.Select("hydra.lex") }

// Lexer recognizes terminals on demand against a fixed input string. It
// holds no mutable scan position of its own — every call is given the
// position to scan from, since a GLR parse may need to tokenize from the
// same position along more than one active GSS path.
type Lexer struct {
	g      *grammar.Grammar
	input  string
	layout *layoutSkipper
}

// New builds a Lexer over input for grammar g. If g declares a LAYOUT
// rule, it must carry a regex recognizer (in lexmachine's pattern
// dialect); New returns an error if it can't be compiled.
func New(g *grammar.Grammar, input string) (*Lexer, error) {
	l := &Lexer{g: g, input: input}
	if layoutSym := g.Lookup(grammar.LayoutRuleName); layoutSym != nil {
		rec, ok := layoutSym.Recognizer.(*grammar.RegexRecognizer)
		if !ok {
			return nil, &hydra.GrammarError{Message: "LAYOUT rule must have a regex recognizer", Symbol: grammar.LayoutRuleName}
		}
		skipper, err := newLayoutSkipper(rec.Pattern)
		if err != nil {
			return nil, err
		}
		l.layout = skipper
	}
	return l, nil
}

// SkipLayout returns the position reached after skipping every LAYOUT
// match starting at pos (a no-op if the grammar declares no LAYOUT rule).
func (l *Lexer) SkipLayout(pos int) int {
	if l.layout == nil {
		return pos
	}
	return l.layout.skip(l.input, pos)
}

// AtEOF reports whether pos is at or past the end of input.
func (l *Lexer) AtEOF(pos int) bool { return pos >= len(l.input) }

// Next tokenizes at pos against exactly the terminals named in
// expectedFQNs (the current automaton state's reachable terminal set).
// LAYOUT is skipped first. If pos is at EOF, it returns a single synthetic
// STOP token.
//
// The returned slice holds more than one Token only when disambiguation
// left a genuine tie: the LR driver should treat that as fatal
// (*hydra.DisambiguationError), the GLR driver as a fork point.
func (l *Lexer) Next(pos int, expectedFQNs []string) (tokens []hydra.Token, newPos int, err error) {
	pos = l.SkipLayout(pos)
	if l.AtEOF(pos) {
		return []hydra.Token{hydra.BasicToken{Term: grammar.StopName, Extent: hydra.Span{uint64(pos), uint64(pos)}}}, pos, nil
	}

	terminals := make([]*grammar.Symbol, 0, len(expectedFQNs))
	for _, fqn := range expectedFQNs {
		if fqn == grammar.StopName {
			continue
		}
		if sym := l.g.Lookup(fqn); sym != nil {
			terminals = append(terminals, sym)
		}
	}

	winners, ok := disambiguate(l.input, pos, terminals)
	if len(winners) == 0 {
		return nil, pos, nil // no match: caller turns this into a SyntaxError with its own Expected list
	}
	toks := make([]hydra.Token, 0, len(winners))
	for _, w := range winners {
		toks = append(toks, toToken(w, pos))
	}
	if !ok {
		candidateFQNs := make([]string, 0, len(winners))
		for _, w := range winners {
			candidateFQNs = append(candidateFQNs, w.term.FQN)
		}
		return toks, pos, &hydra.DisambiguationError{Position: hydra.Position{Offset: uint64(pos)}, Candidates: candidateFQNs}
	}
	return toks, pos + len(winners[0].match.Text), nil
}
