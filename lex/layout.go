package lex

import (
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// layoutSkipper repeatedly consumes LAYOUT-rule matches (whitespace,
// comments, …) from the front of a slice of input, stopping as soon as no
// further match is found at the current position.
//
// The teacher module keeps a lexmachine adapter as its own scanner.Tokenizer
// implementation (lr/scanner/lexmach/lexmachine.go): a full token stream
// scanner built over a whitelist DFA. This package needs only a much
// narrower slice of that idea — skip-one-LAYOUT-match-at-a-time — so it
// talks to timtadh/lexmachine directly with a single compiled pattern
// instead of carrying the teacher's general-purpose multi-token adapter
// forward unchanged.
type layoutSkipper struct {
	lx *lexmachine.Lexer
}

// newLayoutSkipper compiles pattern (already in lexmachine's own regex
// dialect, not Go's RE2 — a per-position on-demand terminal recognizer
// would use grammar.RegexRecognizer/stdlib regexp instead, see
// grammar/recognizer.go's doc comment) into a whitelist DFA.
func newLayoutSkipper(pattern string) (*layoutSkipper, error) {
	lx := lexmachine.NewLexer()
	err := lx.Add([]byte(pattern), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	if err := lx.Compile(); err != nil {
		return nil, err
	}
	return &layoutSkipper{lx: lx}, nil
}

// skip advances pos past every consecutive LAYOUT match starting there.
func (ls *layoutSkipper) skip(input string, pos int) int {
	for pos < len(input) {
		sc, err := ls.lx.Scanner([]byte(input[pos:]))
		if err != nil {
			break
		}
		tok, err, eof := sc.Next()
		if eof || err != nil || tok == nil {
			break
		}
		m, ok := tok.(*machines.Match)
		if !ok || len(m.Bytes) == 0 {
			break
		}
		pos += len(m.Bytes)
	}
	return pos
}
