package automaton

import (
	"encoding/gob"
	"io"

	"github.com/google/uuid"
	"github.com/parsix/hydra"
	"github.com/parsix/hydra/automaton/sparse"
	"github.com/parsix/hydra/grammar"
	"golang.org/x/exp/slices"
)

// Table is the generated parse table: for every (state, terminal) cell,
// one or more candidate Actions (more than one only survives in GLR mode,
// or for a dynamic conflict deferred to the runtime filter), plus a GOTO
// table for nonterminal transitions.
type Table struct {
	Grammar *grammar.Grammar
	Mode    Mode
	CFSM    *CFSM

	// GLR records which driver the table was generated for. In both modes a
	// cell with an unresolved conflict keeps all its candidates and the
	// conflict is listed in Conflicts; only cells that resolve to a single
	// winner (in LR mode) are trimmed.
	GLR bool

	// BuildID identifies this particular table-generation run, so that a
	// cache of serialized tables on disk (spec.md §6) can tell two tables
	// built from textually distinct grammar sources apart even if their
	// state/production counts happen to coincide.
	BuildID uuid.UUID

	actions map[int]map[string][]Action // state -> terminal FQN -> candidates
	goTo    *sparse.IntMatrix           // state x nonterm ID -> state

	Conflicts []*hydra.ConflictError
}

// Actions returns every candidate action for (state, terminalFQN). An
// empty slice means "no action": a syntax error for a deterministic
// driver, a dead GSS head for GLR.
func (t *Table) Actions(state int, terminalFQN string) []Action {
	byTerm, ok := t.actions[state]
	if !ok {
		return nil
	}
	return byTerm[terminalFQN]
}

// ExpectedTerminals returns every terminal FQN with at least one action in
// state, for *hydra.SyntaxError's Expected field.
func (t *Table) ExpectedTerminals(state int) []string {
	byTerm, ok := t.actions[state]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(byTerm))
	for term := range byTerm {
		out = append(out, term)
	}
	// Map iteration order is randomized per-run; sort so that two callers
	// asking for the same state's expected terminals always see them in the
	// same order (spec.md §4.3's "deterministic ACTION map iteration").
	slices.Sort(out)
	return out
}

// Goto returns the target state for (state, nonterminal), or (-1, false)
// if undefined.
func (t *Table) Goto(state int, nonterm *grammar.Symbol) (int, bool) {
	v := t.goTo.Value(state, nonterm.ID)
	if v == t.goTo.NullValue() {
		return -1, false
	}
	return int(v), true
}

// NStates returns the number of CFSM states.
func (t *Table) NStates() int { return len(t.CFSM.States) }

// Generate builds a Table for g under mode. With glr set every candidate
// of a multi-action cell stays live (for the GLR driver); otherwise cells
// are trimmed to their resolved winner (for the deterministic LR driver).
// Residual conflicts are reported in Table.Conflicts in both modes and are
// never returned as an error.
func Generate(g *grammar.Grammar, mode Mode, glr bool) (*Table, error) {
	cfsm := buildCFSM(g, mode)

	t := &Table{
		Grammar: g, Mode: mode, CFSM: cfsm, GLR: glr,
		BuildID: uuid.New(),
		actions: make(map[int]map[string][]Action),
		goTo:    sparse.NewIntMatrix(len(cfsm.States), len(g.NonTerminals)+1, sparse.DefaultNullValue),
	}

	for _, state := range cfsm.States {
		t.actions[state.ID] = make(map[string][]Action)

		// maxPriorPerSymbol mirrors parglare's state._max_prior_per_symbol:
		// productions are grouped by the grammar symbol ahead of the dot, so
		// a shift's priority for resolveShiftReduce is the maximum priority
		// declared by any item in this state that shifts on that symbol.
		maxPriorPerSymbol := make(map[string]int)
		for _, x := range state.Items.Values() {
			item := asItem(x)
			if item.AtEnd() {
				continue
			}
			sym := item.PeekSymbol()
			if p, ok := maxPriorPerSymbol[sym.FQN]; !ok || item.Prod.Priority > p {
				maxPriorPerSymbol[sym.FQN] = item.Prod.Priority
			}
		}

		for _, x := range state.Items.Values() {
			item := asItem(x)
			if item.AtEnd() {
				// The augmented production's own completed item (dot past
				// STOP) is never reached: Accept fires one step earlier,
				// right before STOP would be shifted, so there is nothing
				// to reduce it to.
				if item.Prod.ProdID == 0 {
					continue
				}
				for _, la := range reduceLookaheads(g, mode, item) {
					t.addCandidate(state.ID, la, Action{Kind: Reduce, Prod: item.Prod, Dynamic: item.Prod.Dynamic})
				}
				continue
			}
			sym := item.PeekSymbol()
			if item.Prod.ProdID == 0 && sym == g.Stop {
				t.addCandidate(state.ID, grammar.StopName, Action{Kind: Accept})
				continue
			}
			if sym.Terminal {
				target, ok := edgeTarget(cfsm, state.ID, sym)
				if ok {
					t.addCandidate(state.ID, sym.FQN, Action{
						Kind: Shift, Target: target,
						ShiftPriority: maxPriorPerSymbol[sym.FQN],
					})
				}
			}
		}
		for _, nt := range g.NonTerminals {
			if target, ok := edgeTarget(cfsm, state.ID, nt); ok {
				t.goTo.Set(state.ID, nt.ID, int32(target))
			}
		}
	}

	for stateID, byTerm := range t.actions {
		for termFQN, candidates := range byTerm {
			if len(candidates) <= 1 {
				continue
			}
			term := g.Lookup(termFQN)
			winner, kept, conflict := resolve(g, stateID, term, candidates)
			switch {
			case t.GLR:
				// keep every candidate; GLR forks a GSS head per action, and
				// the conflict is recorded for information only
				if conflict != nil {
					t.Conflicts = append(t.Conflicts, conflict)
				}
			case conflict != nil:
				t.Conflicts = append(t.Conflicts, conflict)
			case kept != nil:
				// dynamic: keep all, flagged, for the runtime filter
				byTerm[termFQN] = kept
			default:
				byTerm[termFQN] = []Action{winner}
			}
		}
	}

	return t, nil
}

func (t *Table) addCandidate(state int, terminalFQN string, a Action) {
	t.actions[state][terminalFQN] = append(t.actions[state][terminalFQN], a)
}

// reduceLookaheads returns the terminals a reduce item fires on, per mode:
// LR0 fires on every terminal, SLR on FOLLOW(lhs), LALR/CLR on the item's
// own computed lookahead set.
func reduceLookaheads(g *grammar.Grammar, mode Mode, item Item) []string {
	switch mode {
	case LR0:
		out := make([]string, 0, len(g.Terminals)+1)
		for _, t := range g.Terminals {
			out = append(out, t.FQN)
		}
		out = append(out, grammar.StopName)
		return out
	case SLR:
		follow := g.Follow(item.Prod.LHS)
		out := make([]string, 0, len(follow))
		for _, s := range follow {
			out = append(out, s.FQN)
		}
		return out
	default: // LALR, CLR
		set := item.lookaheadSet()
		out := make([]string, 0, len(set))
		for t := range set {
			out = append(out, t)
		}
		return out
	}
}

// tableRecord is the gob-encodable flattening of a Table: plain values
// only, no symbol/production pointers, so that a table built from one
// grammar.Grammar value can be decoded against any later Finalize'd
// Grammar built from the same source (spec.md §6's "serializable,
// language-agnostic" parse table requirement).
type tableRecord struct {
	Mode      Mode
	GLR       bool
	BuildID   uuid.UUID
	NStates   int
	NNonterms int
	Actions   []actionRecord
	GotoCells []gotoRecord
}

type actionRecord struct {
	State         int
	TermFQN       string
	Kind          ActionKind
	ProdID        int // -1 for Shift/Accept
	Target        int // -1 for Reduce/Accept
	ShiftPriority int
	Dynamic       bool
}

type gotoRecord struct {
	State, NontermID, Target int
}

// EncodeTo writes t's ACTION/GOTO content (not its CFSM item sets, which
// are only needed during generation) as gob-encoded tableRecord.
func (t *Table) EncodeTo(w io.Writer) error {
	rec := tableRecord{
		Mode: t.Mode, GLR: t.GLR, BuildID: t.BuildID,
		NStates: t.goTo.M(), NNonterms: t.goTo.N(),
	}
	for state, byTerm := range t.actions {
		for term, cands := range byTerm {
			for _, a := range cands {
				prodID := -1
				if a.Prod != nil {
					prodID = a.Prod.ProdID
				}
				rec.Actions = append(rec.Actions, actionRecord{
					State: state, TermFQN: term, Kind: a.Kind,
					ProdID: prodID, Target: a.Target,
					ShiftPriority: a.ShiftPriority, Dynamic: a.Dynamic,
				})
			}
		}
	}
	t.goTo.Each(func(row, col int, v int32) {
		rec.GotoCells = append(rec.GotoCells, gotoRecord{State: row, NontermID: col, Target: int(v)})
	})
	return gob.NewEncoder(w).Encode(rec)
}

// DecodeFrom reads a tableRecord written by EncodeTo and re-attaches it to
// g, resolving ProdID back to *grammar.Production via g.Rule. g must be
// Finalize'd from the same grammar source the table was generated from —
// DecodeFrom has no way to check this beyond production-count bounds, the
// same trust contract gorgo's own table caching assumes.
//
// The returned Table's CFSM carries only a States slice of the right
// length (no item sets): a decoded table is for driving lrparse/glr, not
// for further automaton construction.
func DecodeFrom(r io.Reader, g *grammar.Grammar) (*Table, error) {
	var rec tableRecord
	if err := gob.NewDecoder(r).Decode(&rec); err != nil {
		return nil, err
	}
	t := &Table{
		Grammar: g, Mode: rec.Mode, GLR: rec.GLR, BuildID: rec.BuildID,
		CFSM:    &CFSM{Mode: rec.Mode, States: make([]*CFSMState, rec.NStates)},
		actions: make(map[int]map[string][]Action),
		goTo:    sparse.NewIntMatrix(rec.NStates, rec.NNonterms, sparse.DefaultNullValue),
	}
	for _, ar := range rec.Actions {
		a := Action{Kind: ar.Kind, Target: ar.Target, ShiftPriority: ar.ShiftPriority, Dynamic: ar.Dynamic}
		if ar.ProdID >= 0 {
			a.Prod = g.Rule(ar.ProdID)
		}
		if t.actions[ar.State] == nil {
			t.actions[ar.State] = make(map[string][]Action)
		}
		t.actions[ar.State][ar.TermFQN] = append(t.actions[ar.State][ar.TermFQN], a)
	}
	for _, gr := range rec.GotoCells {
		t.goTo.Set(gr.State, gr.NontermID, int32(gr.Target))
	}
	return t, nil
}

func edgeTarget(c *CFSM, from int, label *grammar.Symbol) (int, bool) {
	for _, e := range c.edgesFrom(from) {
		if e.label == label {
			return e.to, true
		}
	}
	return -1, false
}
