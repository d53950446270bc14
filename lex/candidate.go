package lex

import (
	"github.com/parsix/hydra"
	"github.com/parsix/hydra/grammar"
)

// candidate is one terminal's match attempt at a lexing position.
type candidate struct {
	term  *grammar.Symbol
	match grammar.Match
}

// disambiguate runs spec.md §4.3's lexical disambiguation pipeline over
// every terminal in terminals that matches at (input, pos):
//
//  1. priority: keep only the matches with the highest terminal priority,
//     unless a kept match came from a `nofinish` terminal, in which case
//     the next-lower tier is folded in too (the `finish` short-circuit,
//     inverted);
//  2. longest match;
//  3. specificity: a string-literal recognizer beats a regex/custom one;
//  4. the `prefer` flag, if it leaves exactly one survivor.
//
// Ties after all four steps are returned as every tied candidate, with ok
// false: the LR driver turns that into a *hydra.DisambiguationError, the
// GLR driver forks a GSS head per survivor instead.
func disambiguate(input string, pos int, terminals []*grammar.Symbol) (winners []candidate, ok bool) {
	var all []candidate
	for _, term := range terminals {
		if term.Recognizer == nil {
			continue
		}
		if m, matched := term.Recognizer.Match(input, pos); matched {
			all = append(all, candidate{term: term, match: m})
		}
	}
	if len(all) == 0 {
		return nil, true // empty winners = no match at all, not a tie
	}

	tiers := groupByPriority(all)
	pool := tiers[0].items
	for i := 0; i < len(tiers)-1; i++ {
		if !anyNoFinish(tiers[i].items) {
			break
		}
		pool = append(pool, tiers[i+1].items...)
	}

	pool = longestMatch(pool)
	pool = mostSpecific(pool)
	pool = applyPrefer(pool)

	return pool, len(pool) == 1
}

type tier struct {
	priority int
	items    []candidate
}

// groupByPriority buckets candidates by priority, highest first.
func groupByPriority(cands []candidate) []tier {
	byPrio := map[int][]candidate{}
	for _, c := range cands {
		byPrio[c.term.Priority] = append(byPrio[c.term.Priority], c)
	}
	var tiers []tier
	for p, items := range byPrio {
		tiers = append(tiers, tier{priority: p, items: items})
	}
	// insertion sort descending by priority; the number of tiers is small
	for i := 1; i < len(tiers); i++ {
		for j := i; j > 0 && tiers[j].priority > tiers[j-1].priority; j-- {
			tiers[j], tiers[j-1] = tiers[j-1], tiers[j]
		}
	}
	return tiers
}

func anyNoFinish(cands []candidate) bool {
	for _, c := range cands {
		if c.term.Finish != nil && !*c.term.Finish {
			return true
		}
	}
	return false
}

func longestMatch(cands []candidate) []candidate {
	if len(cands) <= 1 {
		return cands
	}
	max := 0
	for _, c := range cands {
		if len(c.match.Text) > max {
			max = len(c.match.Text)
		}
	}
	var out []candidate
	for _, c := range cands {
		if len(c.match.Text) == max {
			out = append(out, c)
		}
	}
	return out
}

// mostSpecific prefers string-literal recognizers over pattern/custom ones
// when both matched the same length at the same position — a declared
// keyword should win over a generic identifier regex. applyKeywordRule
// rewrites a keyword terminal's Recognizer into a word-bounded
// *grammar.RegexRecognizer, so the Keyword flag (not the recognizer's
// concrete type) is what marks it as still string-literal-specific.
func mostSpecific(cands []candidate) []candidate {
	if len(cands) <= 1 {
		return cands
	}
	var literal []candidate
	for _, c := range cands {
		_, isString := c.term.Recognizer.(*grammar.StringRecognizer)
		if isString || c.term.Keyword {
			literal = append(literal, c)
		}
	}
	if len(literal) > 0 {
		return literal
	}
	return cands
}

func applyPrefer(cands []candidate) []candidate {
	if len(cands) <= 1 {
		return cands
	}
	var preferred []candidate
	for _, c := range cands {
		if c.term.Prefer {
			preferred = append(preferred, c)
		}
	}
	if len(preferred) == 1 {
		return preferred
	}
	return cands
}

// toToken converts a winning candidate into a hydra.Token.
func toToken(c candidate, pos int) hydra.Token {
	tok := hydra.BasicToken{
		Term:   c.term.FQN,
		Text:   c.match.Text,
		Extent: hydra.Span{uint64(pos), uint64(pos + len(c.match.Text))},
	}
	if len(c.match.Extra) > 0 {
		tok.Val = c.match.Extra
	}
	return tok
}
