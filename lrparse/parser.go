package lrparse

import (
	"strconv"

	"github.com/npillmayer/schuko/tracing"
	"github.com/parsix/hydra"
	"github.com/parsix/hydra/automaton"
	"github.com/parsix/hydra/grammar"
	"github.com/parsix/hydra/lex"
)

func tracer() tracing.Trace { return tracing.Select("hydra.lrparse") }

// RecoveryFunc is a user-supplied error-recovery strategy (spec.md §4.4):
// given the input, the position an error occurred at, and the stack state
// it occurred in, it returns a new position to resume lexing from. ok=false
// means this strategy found no way forward, and the parse fails with the
// errors accumulated so far.
type RecoveryFunc func(input string, pos, state int) (newPos int, ok bool)

// DynamicFilter narrows the candidate actions of a `dynamic`-declared cell
// at runtime (spec.md §4.4 step 4), in place of automaton/conflict.go's
// compile-time resolution, which deliberately leaves every candidate live
// when any of them is Dynamic.
type DynamicFilter func(state int, terminal string, candidates []automaton.Action) []automaton.Action

// Option configures optional Parser behavior beyond the deterministic
// shift/reduce core.
type Option func(*Parser)

// WithRecovery enables error recovery. Passing a nil recover uses the
// default recovery strategy (advance the input position one character at a
// time until a terminal accepted by the current state matches, or EOF);
// passing a non-nil recover uses it instead.
func WithRecovery(recover RecoveryFunc) Option {
	return func(p *Parser) {
		p.recoveryEnabled = true
		p.recovery = recover
	}
}

// WithConsumeInput controls whether a parse must consume the entire input
// to succeed. The default is true. Passing false allows a partial-success
// fallback (spec.md §8 scenario 5): when no ACTION exists for the current
// lookahead, ACTION[state][STOP] is tried before failing or recovering.
func WithConsumeInput(consume bool) Option {
	return func(p *Parser) { p.consumeInput = consume }
}

// WithDynamicFilter installs a runtime filter for `dynamic`-declared
// productions/terminals.
func WithDynamicFilter(filter DynamicFilter) Option {
	return func(p *Parser) { p.dynamicFilter = filter }
}

// Parser drives a deterministic shift/reduce parse over a fixed grammar
// and pre-generated table. Build one per grammar and reuse it across many
// Parse calls — it holds no per-parse state of its own.
type Parser struct {
	g     *grammar.Grammar
	table *automaton.Table

	consumeInput    bool
	recoveryEnabled bool
	recovery        RecoveryFunc
	dynamicFilter   DynamicFilter
}

// New wraps an already-generated table. table.GLR must be false: this
// driver takes exactly the first candidate action per cell and treats any
// leftover ambiguity in table.Conflicts as having already been resolved
// (or reported) at table-generation time.
func New(g *grammar.Grammar, table *automaton.Table, opts ...Option) *Parser {
	p := &Parser{g: g, table: table, consumeInput: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type frame struct {
	state int
	node  *Node
}

// Parse runs the shift/reduce loop over input, returning the root of the
// resulting parse tree (the single child of the augmented start
// production) and any errors encountered. A non-nil error list with a
// non-nil tree means the tree does not account for all of input: recovery
// skipped some of it, or the STOP fallback left a suffix unconsumed.
func (p *Parser) Parse(input string) (*Node, []error) {
	lexer, err := lex.New(p.g, input)
	if err != nil {
		return nil, []error{err}
	}

	stack := []frame{{state: 0}}
	pos := 0
	var errs []error

	for {
		top := stack[len(stack)-1]
		expected := p.table.ExpectedTerminals(top.state)
		toks, newPos, lerr := lexer.Next(pos, expected)
		if lerr != nil {
			errs = append(errs, lerr)
			return nil, errs
		}

		// actions is looked up the same way whether or not a token matched
		// at all: a lex failure and a matched-but-unexpected token are both
		// just "no ACTION for this lookahead" as far as the STOP fallback
		// and recovery are concerned (spec.md §4.4 step 2).
		var tok hydra.Token
		var actions []automaton.Action
		if len(toks) > 0 {
			tok = toks[0]
			actions = p.table.Actions(top.state, tok.Terminal())
		}
		if len(actions) == 0 && !p.consumeInput {
			actions = p.table.Actions(top.state, grammar.StopName)
		}
		if len(actions) == 0 {
			// Report the error where the offending input starts, past any
			// layout in front of it.
			errPos := lexer.SkipLayout(pos)
			found := previewAt(input, errPos)
			if tok != nil {
				found = tok.Terminal()
			}
			errs = append(errs, &hydra.SyntaxError{
				Position: hydra.Position{Offset: uint64(errPos)},
				Expected: expected,
				Found:    found,
			})
			if recovered, ok := p.recover(lexer, input, top.state, pos); ok {
				pos = recovered
				continue
			}
			return nil, errs
		}

		if p.dynamicFilter != nil && anyDynamic(actions) {
			lookahead := grammar.StopName
			if tok != nil {
				lookahead = tok.Terminal()
			}
			actions = p.dynamicFilter(top.state, lookahead, actions)
			if countLiveActions(actions) > 1 {
				errs = append(errs, &hydra.DynamicDisambiguationError{
					Position: hydra.Position{Offset: uint64(pos)},
					Message:  "dynamic filter left more than one shift/non-empty-reduce action on " + lookahead,
				})
				return nil, errs
			}
		}
		action := actions[0]

		switch action.Kind {
		case automaton.Shift:
			tracer().Debugf("shift %s -> state %d", tok.Terminal(), action.Target)
			stack = append(stack, frame{state: action.Target, node: &Node{Symbol: tok.Terminal(), Span: tok.Span(), Token: tok}})
			pos = newPos

		case automaton.Reduce:
			prod := action.Prod
			n := len(prod.RHS)
			children := make([]*Node, n)
			for i := n - 1; i >= 0; i-- {
				children[i] = stack[len(stack)-1].node
				stack = stack[:len(stack)-1]
			}
			node := buildNode(prod, children)
			gotoState, ok := p.table.Goto(stack[len(stack)-1].state, prod.LHS)
			if !ok {
				errs = append(errs, &hydra.ParserInitError{Message: "missing GOTO entry for " + prod.LHS.FQN + " from state " + strconv.Itoa(stack[len(stack)-1].state)})
				return nil, errs
			}
			stack = append(stack, frame{state: gotoState, node: node})

		case automaton.Accept:
			return stack[len(stack)-1].node, errs
		}
	}
}

// recover runs spec.md §4.4's error-recovery hook after a syntax error at
// pos in state: the configured RecoveryFunc if recovery is enabled with
// one, the default char-advance strategy if enabled without one, or a flat
// failure if recovery isn't enabled at all.
func (p *Parser) recover(lexer *lex.Lexer, input string, state, pos int) (int, bool) {
	if !p.recoveryEnabled {
		return pos, false
	}
	if p.recovery != nil {
		return p.recovery(input, pos, state)
	}
	return p.recoverDefault(lexer, state, pos)
}

// recoverDefault advances pos one character at a time until a terminal
// accepted by state matches there, or EOF is reached without one ever
// matching. It returns the position a match was found AT, not past it —
// the driver re-lexes and shifts it normally on its next loop iteration,
// the same way a probed-ahead token_ahead is just left in place for the
// next iteration to consume in the teacher's recovery loop.
func (p *Parser) recoverDefault(lexer *lex.Lexer, state, pos int) (int, bool) {
	expected := p.table.ExpectedTerminals(state)
	for !lexer.AtEOF(pos) {
		pos++
		if lexer.AtEOF(pos) {
			return pos, false
		}
		toks, _, lerr := lexer.Next(pos, expected)
		if lerr == nil && len(toks) > 0 {
			return pos, true
		}
	}
	return pos, false
}

// anyDynamic reports whether any candidate in actions is Dynamic.
func anyDynamic(actions []automaton.Action) bool {
	for _, a := range actions {
		if a.Dynamic {
			return true
		}
	}
	return false
}

// countLiveActions counts shifts and non-empty reduces in actions — the
// "at most one shift or non-empty reduction" test spec.md §4.4 step 4
// applies to a dynamic filter's output.
func countLiveActions(actions []automaton.Action) int {
	n := 0
	for _, a := range actions {
		if a.Kind == automaton.Shift || (a.Kind == automaton.Reduce && len(a.Prod.RHS) > 0) {
			n++
		}
	}
	return n
}

// buildNode applies a production's default action (or its named
// assignments) to its popped children, per spec.md §4.1/§6.
func buildNode(prod *grammar.Production, children []*Node) *Node {
	node := &Node{Symbol: prod.LHS.FQN, Children: children}
	if len(children) > 0 {
		node.Span = children[0].Span.Extend(children[len(children)-1].Span)
	}
	if prod.HasAssignments() {
		node.Attrs = make(map[string]interface{}, len(prod.Assignments))
		for _, a := range prod.Assignments {
			child := children[a.Index]
			if a.Op == grammar.AssignPresence {
				node.Attrs[a.Name] = !child.Span.IsNull()
			} else {
				node.Attrs[a.Name] = child
			}
		}
	}
	return node
}

func previewAt(input string, pos int) string {
	const maxPreview = 16
	if pos >= len(input) {
		return "<EOF>"
	}
	end := pos + maxPreview
	if end > len(input) {
		end = len(input)
	}
	return input[pos:end]
}

