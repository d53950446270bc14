package grammar

// AssignOp is the operator used in a production's named RHS-item
// assignment: `=` always sets the attribute, `?=` additionally records
// whether the matched child was present/non-empty.
type AssignOp int

const (
	AssignSet AssignOp = iota
	AssignPresence
)

// Assignment records one `name = item` / `name ?= item` binding found on a
// production's RHS (spec.md §4.1). Index is the 0-based position of the
// bound item within the production's RHS.
type Assignment struct {
	Name  string
	Op    AssignOp
	Index int
}

// Production is one alternative of a rule: lhs -> rhs, with associativity,
// priority and dynamic-disambiguation metadata, plus the bookkeeping
// desugaring needs (nops/nopse opt-outs, named assignments).
//
// ProdID is assigned densely over the whole grammar after Finalize;
// ProdSymbolID is the 0-based alternative index within the production's own
// LHS rule (spec.md §3 invariants).
type Production struct {
	LHS *Symbol
	RHS []*Symbol

	Assoc    Assoc
	Priority int
	Dynamic  bool

	// NoPreferShift / NoPreferShiftEmpty are the `nops`/`nopse` per-
	// production opt-outs from the global prefer_shifts and
	// prefer_shifts_over_empty conflict policies (spec.md §4.2).
	NoPreferShift      bool
	NoPreferShiftEmpty bool

	Assignments []Assignment
	UserMeta    map[string]interface{}

	ProdID       int
	ProdSymbolID int
}

// IsEpsilon reports whether this production has an empty RHS.
func (p *Production) IsEpsilon() bool { return len(p.RHS) == 0 }

// HasAssignments reports whether any RHS item of p is named, which per
// spec.md §4.1 changes the rule's default action to "construct an object
// from assignments".
func (p *Production) HasAssignments() bool { return len(p.Assignments) > 0 }

func (p *Production) String() string {
	s := p.LHS.FQN + " ->"
	if len(p.RHS) == 0 {
		return s + " ε"
	}
	for _, sym := range p.RHS {
		s += " " + sym.FQN
	}
	return s
}
