package automaton

import (
	"fmt"

	"github.com/parsix/hydra/grammar"
)

// ActionKind distinguishes the three kinds of parser action.
type ActionKind int

const (
	Shift ActionKind = iota
	Reduce
	Accept
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	default:
		return "accept"
	}
}

// Action is one candidate parser action for a (state, terminal) cell. A
// cell with more than one Action is a conflict: resolved to a single
// action for a deterministic LR table, or kept as-is (all candidates
// live) for a GLR table, where the driver forks a GSS head per action.
type Action struct {
	Kind ActionKind

	Target int                 // Shift: the state to move to
	Prod   *grammar.Production // Reduce: the production to reduce by

	// ShiftPriority is, for a Shift action, the maximum Production.Priority
	// among every item in the originating state whose dot immediately
	// precedes this terminal ("max_prior_per_symbol" in parglare's
	// tables.py) — compared against a competing reduce's production
	// priority before associativity is consulted. Unused for Reduce/Accept.
	ShiftPriority int

	// Dynamic marks an action whose production declared `dynamic`: its
	// final choice among competing dynamic actions is deferred to a
	// runtime filter rather than resolved here.
	Dynamic bool
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("shift %d", a.Target)
	case Reduce:
		return fmt.Sprintf("reduce %s", a.Prod)
	default:
		return "accept"
	}
}
