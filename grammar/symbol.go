// Package grammar implements the grammar model: symbols, recognizers,
// productions, BNF-extension desugaring, and FIRST/FOLLOW analysis.
//
// The model is immutable once Finalize has returned. Construct one with a
// Builder (structural API; the surface syntax of a grammar DSL that would
// parse into the same calls is out of scope for this package, per the
// toolkit's design — see the root spec).
package grammar

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key "hydra.grammar".
func tracer() tracing.Trace {
	return tracing.Select("hydra.grammar")
}

// DefaultPriority is the priority assigned to a terminal or production when
// none is declared explicitly.
const DefaultPriority = 10

// Assoc is the declared associativity of a production, used to resolve
// shift/reduce conflicts of equal priority.
type Assoc int

const (
	AssocNone Assoc = iota
	AssocLeft
	AssocRight
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "none"
	}
}

// Symbol is either a Terminal or a NonTerminal of a grammar. Every rule's
// RHS entry is a direct pointer to the canonical Symbol held by the
// Grammar's symbol table — never a copy — so that Symbol identity can be
// compared with ==.
type Symbol struct {
	FQN      string // fully-qualified name
	Terminal bool

	// ID is a small dense integer assigned during Finalize, used as the
	// column index into ACTION/GOTO tables. Terminal and nonterminal IDs
	// are drawn from independent ranges; see Grammar.assignSymbolIDs.
	ID int

	Location Location
	Meta     map[string]interface{} // arbitrary user metadata
	Action   string                 // resolved action name, if any (§6 @actionName)

	// Terminal-only fields.
	Recognizer Recognizer
	Priority   int
	Finish     *bool // nil = unset, like parglare's tri-state finish/nofinish
	Prefer     bool
	Keyword    bool
	Dynamic    bool
}

// Location is an optional source location a symbol was declared at. Zero
// value means "no location" (e.g. for symbols built structurally in Go
// rather than parsed from a grammar DSL source file).
type Location struct {
	File string
	Line int
	Col  int
}

func (l Location) String() string {
	if l.File == "" && l.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// IsTerminal reports whether s is a Terminal symbol.
func (s *Symbol) IsTerminal() bool { return s.Terminal }

func (s *Symbol) String() string {
	if s == nil {
		return "<nil-symbol>"
	}
	return s.FQN
}

// Reserved symbol names. Each Grammar creates its own EMPTY and STOP
// sentinel symbols; comparing sentinels across two different Grammar
// values is undefined, matching spec.md §9.
const (
	EmptyName       = "EMPTY"
	StopName        = "STOP"
	LayoutRuleName  = "LAYOUT"
	KeywordRuleName = "KEYWORD"
)

// reservedNames are names a user may not declare themselves.
var reservedNames = map[string]bool{
	EmptyName: true,
	StopName:  true,
}

// IsReserved reports whether name is a reserved grammar symbol name.
func IsReserved(name string) bool { return reservedNames[name] }
