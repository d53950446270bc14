package hydra

import "fmt"

// Position is a diagnostic location: a byte Offset into the input plus a
// 1-based Line/Column. The lexer and parsers in this module set only
// Offset; nothing here derives Line and Column from it, so they stay 0
// (and String renders "0:0") unless a caller fills them in.
type Position struct {
	Line   int
	Column int
	Offset uint64
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// GrammarError reports a malformed grammar: multiply-defined terminals,
// duplicate string-literal recognizers, unresolved references, a KEYWORD
// rule that isn't a regex, or reserved-name misuse. Raised at grammar
// construction time and is always fatal.
type GrammarError struct {
	Message string
	Symbol  string // offending symbol FQN, if any
}

func (e *GrammarError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("grammar error: %s (symbol %q)", e.Message, e.Symbol)
	}
	return fmt.Sprintf("grammar error: %s", e.Message)
}

// ParserInitError reports a problem discovered while constructing a parser
// from an otherwise-valid grammar: action-list arity mismatches, reserved
// names misused as user symbols, or a non-terminal used where the driver
// expected a terminal.
type ParserInitError struct {
	Message string
}

func (e *ParserInitError) Error() string {
	return fmt.Sprintf("parser init error: %s", e.Message)
}

// ConflictKind distinguishes the two residual-conflict varieties from
// spec.md §4.2/§7.
type ConflictKind int

const (
	ShiftReduceConflict ConflictKind = iota
	ReduceReduceConflict
)

func (k ConflictKind) String() string {
	if k == ShiftReduceConflict {
		return "shift/reduce"
	}
	return "reduce/reduce"
}

// ConflictError reports a residual, unresolved LR conflict left over after
// associativity, priority, dynamic-deferral and the prefer-shifts policies
// have all been applied. automaton.Generate records these in
// automaton.Table.Conflicts for LR and GLR tables alike and still returns
// the table with a nil error; lrparse.New does not reject a table that has
// them.
type ConflictError struct {
	Kind     ConflictKind
	State    int
	Terminal string
	Message  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict in state %d on terminal %q: %s", e.Kind, e.State, e.Terminal, e.Message)
}

// DisambiguationError reports that more than one terminal matched at a
// lexing position and every lexical tie-breaker (priority, longest-match,
// specificity, prefer) failed to narrow the set to one. Fatal for the LR
// driver; consumed by the GLR driver as fork points instead.
type DisambiguationError struct {
	Position   Position
	Candidates []string // terminal FQNs tied for the match
}

func (e *DisambiguationError) Error() string {
	return fmt.Sprintf("disambiguation error at %s: ambiguous terminals %v", e.Position, e.Candidates)
}

// DynamicDisambiguationError reports that a user-supplied dynamic filter
// failed to reduce a set of competing dynamic shift/reduce actions to a
// single choice.
type DynamicDisambiguationError struct {
	Position Position
	Message  string
}

func (e *DynamicDisambiguationError) Error() string {
	return fmt.Sprintf("dynamic disambiguation conflict at %s: %s", e.Position, e.Message)
}

// SyntaxError reports that no ACTION exists for the current state and
// lookahead. It carries enough information to render a caret-style
// diagnostic: the furthest position reached, the set of terminals that
// would have been accepted there, and the tokens actually seen ahead.
type SyntaxError struct {
	Position Position
	Expected []string
	Found    string
	Message  string
}

func (e *SyntaxError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("syntax error at %s: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("syntax error at %s: expected one of %v, found %s", e.Position, e.Expected, e.Found)
}

// LoopError is raised when a generic SPPF traversal detects a cycle instead
// of looping forever. Grammars with left- or right-recursive cycles
// (S: S; S: "x";) are accepted by the GLR driver but their forest cannot be
// walked by an acyclic-assuming visitor.
type LoopError struct {
	Message string
}

func (e *LoopError) Error() string {
	return fmt.Sprintf("loop error: %s", e.Message)
}
