// Package glr implements a GLR parser: a generalization of the
// deterministic driver in package lrparse that keeps every viable parse
// thread alive at once, using a Graph-Structured Stack (package gss) to
// share common history between threads and a Shared Packed Parse Forest
// (package sppf) to share common sub-derivations between the resulting
// parse trees (spec.md §4.5/§4.6).
//
// The teacher module's lr/glr.Parser drives a single shared token stream
// across every active stack in lockstep (see lr/glr/glr.go's
// reducesAndShiftsForToken): every stack reads the same next token because
// the teacher's scanner produces one token stream ahead of the parser.
// This package cannot make that assumption — scannerless lexing means two
// active heads sitting in different automaton states may recognize
// different-length lexemes at the same input position, and a lexical tie
// (lex.Lexer.Next returning more than one winner) is itself a fork point.
// So instead of "one token per round, applied to every head", each head
// here lexes independently at its own current position and is advanced on
// its own worklist entry; heads only resynchronize implicitly, by the
// GSS's merge-on-identical-(state,pos,lookahead) rule.
package glr

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/parsix/hydra"
	"github.com/parsix/hydra/automaton"
	"github.com/parsix/hydra/gss"
	"github.com/parsix/hydra/grammar"
	"github.com/parsix/hydra/lex"
	"github.com/parsix/hydra/sppf"
)

func tracer() tracing.Trace { return tracing.Select("hydra.glr") }

// Parser drives a GLR parse over a fixed grammar and pre-generated GLR
// table (Table.GLR must be true, i.e. it was generated with glr=true so
// that ambiguous cells keep every candidate action rather than being
// trimmed to one).
type Parser struct {
	g     *grammar.Grammar
	table *automaton.Table
}

// New wraps an already-generated GLR table.
func New(g *grammar.Grammar, table *automaton.Table) *Parser {
	return &Parser{g: g, table: table}
}

// Parse runs a GLR parse of input to completion, returning the resulting
// SPPF (holding every successful derivation found). Errors encountered by
// heads that died along the way are returned only when no head reached
// Accept; a successful parse returns no errors. A nil forest root means no
// head reached Accept — the input does not belong to the language.
func (p *Parser) Parse(input string) (*sppf.Forest, []error) {
	lexer, err := lex.New(p.g, input)
	if err != nil {
		return nil, []error{err}
	}

	root := gss.NewRoot("glr", -1)
	forest := sppf.NewForest()
	start := gss.NewStack(root)
	start.Push(0, 0, "", nil)

	pending := []*gss.Stack{start}
	var accepted []*gss.Stack
	var errs []error
	epsilonCache := make(map[string]*sppf.SymbolNode)

	for len(pending) > 0 {
		stack := pending[0]
		pending = pending[1:]

		node := stack.Peek()
		expected := p.table.ExpectedTerminals(node.State)
		toks, _, lerr := lexer.Next(node.StartPos, expected)
		if len(toks) == 0 {
			if lerr != nil {
				errs = append(errs, lerr)
			}
			continue // this head has nothing to read here; it dies quietly
		}
		// A lexical tie (lerr is a *hydra.DisambiguationError with more than
		// one token returned) is not fatal for GLR: each tied token becomes
		// its own continuation below, exactly like a table-level
		// shift/reduce conflict forks a continuation.
		for _, tok := range toks {
			pending = p.advance(stack, tok, forest, pending, &accepted, epsilonCache)
		}
	}

	if len(accepted) == 0 {
		if len(errs) == 0 {
			errs = append(errs, &hydra.SyntaxError{Message: "no accepting parse found"})
		}
		return forest, errs
	}
	return forest, nil
}

// advance runs the cascading reduce/shift dispatch for one (stack, token)
// pair, appending any new heads it produces (new shifts, or reduce
// continuations still needing a shift decision) to pending and returning
// the updated slice. Mirrors lr/glr/glr.go's reducesAndShiftsForToken,
// generalized to: (a) operate on a single stack/token pair rather than a
// whole round of stacks sharing one global token, and (b) build an sppf
// node per shift/reduce instead of a bare grammar symbol.
func (p *Parser) advance(stack *gss.Stack, tok hydra.Token, forest *sppf.Forest, pending []*gss.Stack, accepted *[]*gss.Stack, epsilonCache map[string]*sppf.SymbolNode) []*gss.Stack {
	visited := make(map[*gss.Node]bool)
	work := []*gss.Stack{stack}

	for len(work) > 0 {
		s := work[0]
		work = work[1:]

		node := s.Peek()
		if visited[node] {
			continue // already dispatched this (state,pos) node for tok; breaks epsilon-reduce cycles
		}
		visited[node] = true

		actions := p.table.Actions(node.State, tok.Terminal())
		for _, action := range actions {
			switch action.Kind {
			case automaton.Accept:
				tracer().Debugf("accept at state %d", node.State)
				// The augmented production is never reduced, so the start
				// symbol's node on top of an accepting head is the root.
				if sn, ok := node.Value.(*sppf.SymbolNode); ok {
					forest.SetRoot(sn)
				}
				*accepted = append(*accepted, s)

			case automaton.Shift:
				term := p.g.Lookup(tok.Terminal())
				leaf := forest.AddTerminal(term, tok.Span().From(), tok.Span().Len())
				next := s.Push(action.Target, int(tok.Span().To()), tok.Terminal(), leaf)
				pending = append(pending, next)

			case automaton.Reduce:
				for _, continuation := range p.reduce(s, action.Prod, tok, forest, epsilonCache) {
					work = append(work, continuation)
				}
			}
		}
	}
	return pending
}

// reduce applies prod's reduction along every distinct handle path of the
// required length beneath s's top (more than one path means the GSS has
// forked beneath this node, and the reduction fires once per path, per
// spec.md §4.5), returning one continuation stack per path, each already
// advanced past the GOTO transition and ready for the next action lookup
// under the same lookahead token.
func (p *Parser) reduce(s *gss.Stack, prod *grammar.Production, tok hydra.Token, forest *sppf.Forest, epsilonCache map[string]*sppf.SymbolNode) []*gss.Stack {
	top := s.Peek()
	handleLen := len(prod.RHS)
	paths := top.PathsOfLength(handleLen)

	out := make([]*gss.Stack, 0, len(paths))
	for _, path := range paths {
		base := path[0]
		var symNode *sppf.SymbolNode
		if handleLen == 0 {
			key := automaton.EmptyReductionKey(top.State, prod, top.StartPos)
			if cached, ok := epsilonCache[key]; ok {
				symNode = cached
			} else {
				symNode = forest.AddEpsilonReduction(prod, uint64(top.StartPos))
				epsilonCache[key] = symNode
			}
		} else {
			children := make([]*sppf.SymbolNode, handleLen)
			for i, n := range path[1:] {
				children[i] = n.Value.(*sppf.SymbolNode)
			}
			symNode = forest.AddReduction(prod, children)
		}

		gotoState, ok := p.table.Goto(base.State, prod.LHS)
		if !ok {
			continue // no GOTO entry: this handle doesn't belong to a viable derivation
		}
		reduced := s.Fork(base).Push(gotoState, top.StartPos, tok.Terminal(), symNode)
		out = append(out, reduced)
	}
	return out
}
