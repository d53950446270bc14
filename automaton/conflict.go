package automaton

import (
	"github.com/parsix/hydra"
	"github.com/parsix/hydra/grammar"
)

// resolve picks a single winning Action out of candidates for a
// deterministic (LR) table, applying spec.md §4.2's policy precedence
// (see DESIGN.md's "Open question decisions" #2):
//
//  1. declared associativity/priority between a shift and a reduce of equal
//     priority productions;
//  2. per-production nops/nopse opt-outs;
//  3. grammar-wide prefer_shifts / prefer_shifts_over_empty;
//  4. otherwise, a residual *hydra.ConflictError.
//
// Dynamic actions (any candidate with Dynamic set) are never resolved here
// — they are left as multiple candidates for the driver's runtime filter,
// and resolve always returns them all as its second result with a nil
// conflict, so the caller can tell "defer to runtime" apart from "real
// unresolved conflict".
func resolve(g *grammar.Grammar, state int, terminal *grammar.Symbol, candidates []Action) (Action, []Action, *hydra.ConflictError) {
	if len(candidates) == 1 {
		return candidates[0], nil, nil
	}
	for _, a := range candidates {
		if a.Dynamic {
			return Action{}, candidates, nil
		}
	}

	var shift *Action
	var reduces []Action
	for idx := range candidates {
		a := &candidates[idx]
		if a.Kind == Shift {
			shift = a
		} else if a.Kind == Reduce {
			reduces = append(reduces, *a)
		}
	}

	if shift != nil && len(reduces) == 1 && len(candidates) == 2 {
		r := reduces[0]
		if winner, ok := resolveShiftReduce(g, *shift, r); ok {
			return winner, nil, nil
		}
		return Action{}, nil, &hydra.ConflictError{
			Kind: hydra.ShiftReduceConflict, State: state, Terminal: terminal.FQN,
			Message: "shift/reduce conflict not resolved by associativity, priority or prefer_shifts policy",
		}
	}

	if shift == nil && len(reduces) > 1 {
		if winner, ok := resolveReduceReduce(reduces); ok {
			return winner, nil, nil
		}
		return Action{}, nil, &hydra.ConflictError{
			Kind: hydra.ReduceReduceConflict, State: state, Terminal: terminal.FQN,
			Message: "reduce/reduce conflict not resolved by priority",
		}
	}

	// Mixed shift plus multiple reduces: try reduce/reduce first, then
	// shift/reduce against the survivor.
	if shift != nil && len(reduces) > 1 {
		winner, ok := resolveReduceReduce(reduces)
		if !ok {
			return Action{}, nil, &hydra.ConflictError{
				Kind: hydra.ReduceReduceConflict, State: state, Terminal: terminal.FQN,
				Message: "reduce/reduce conflict not resolved by priority",
			}
		}
		if final, ok := resolveShiftReduce(g, *shift, winner); ok {
			return final, nil, nil
		}
		return Action{}, nil, &hydra.ConflictError{
			Kind: hydra.ShiftReduceConflict, State: state, Terminal: terminal.FQN,
			Message: "shift/reduce conflict not resolved by associativity, priority or prefer_shifts policy",
		}
	}

	return Action{}, nil, &hydra.ConflictError{
		Kind: hydra.ShiftReduceConflict, State: state, Terminal: terminal.FQN,
		Message: "unresolved conflict among multiple candidate actions",
	}
}

// resolveShiftReduce applies priority first, then associativity (only as a
// tie-breaker between equal priorities), then nops, then prefer_shifts, to
// a single shift-vs-reduce pair — matching parglare's tables.py
// create_tables SHIFT/REDUCE branch: the reducing production's priority is
// compared against the shift's max_prior_per_symbol before associativity is
// ever consulted.
func resolveShiftReduce(g *grammar.Grammar, shift Action, reduce Action) (Action, bool) {
	prod := reduce.Prod

	if prod.Priority > shift.ShiftPriority {
		return reduce, true
	}
	if prod.Priority < shift.ShiftPriority {
		return shift, true
	}

	if prod.Assoc != grammar.AssocNone {
		switch prod.Assoc {
		case grammar.AssocLeft:
			return reduce, true
		case grammar.AssocRight:
			return shift, true
		}
	}

	if !prod.NoPreferShift && g.PreferShifts {
		return shift, true
	}
	if !prod.NoPreferShiftEmpty && g.PreferShiftsOverEmpty && prod.IsEpsilon() {
		return shift, true
	}

	return Action{}, false
}

// resolveReduceReduce picks the reduce with the highest Production.Priority;
// a genuine tie (equal top priority, more than one candidate) is left
// unresolved.
func resolveReduceReduce(candidates []Action) (Action, bool) {
	best := candidates[0]
	tie := false
	for _, a := range candidates[1:] {
		if a.Prod.Priority > best.Prod.Priority {
			best = a
			tie = false
		} else if a.Prod.Priority == best.Prod.Priority {
			tie = true
		}
	}
	if tie {
		return Action{}, false
	}
	return best, true
}
