package grammar

import (
	"fmt"

	"github.com/parsix/hydra"
)

// Builder assembles a Grammar from structural calls, the way gorgo's
// lr.GrammarBuilder is driven from terex/terexlang/parse.go:
// b.LHS("Sum").N("Sum").T("plus").N("Product").End() — except richer,
// since a single RHS item here can carry multiplicity, a separator, a
// priority/associativity override and a named assignment, the structural
// equivalent of the grammar DSL's `X+[sep]!`, `prio:left`, `name=X` surface
// syntax (spec.md §4.1).
//
// Builder is not safe for concurrent use; a Grammar built from it is, once
// Grammar() has returned successfully.
type Builder struct {
	g       *Grammar
	current *RuleBuilder
	errs    []error

	groupCounters map[string]int // per owning-rule counter for synthesized group names
	auxSeen       map[string]bool
}

// NewBuilder starts a new grammar named name. ignoreCase sets the default
// case sensitivity for string-literal terminals declared without an
// explicit override.
func NewBuilder(name string, ignoreCase bool) *Builder {
	return &Builder{
		g:             newGrammar(name, ignoreCase),
		groupCounters: make(map[string]int),
		auxSeen:       make(map[string]bool),
	}
}

func (b *Builder) fail(err error) { b.errs = append(b.errs, err) }

// Start declares name as the grammar's start symbol.
func (b *Builder) Start(name string) *Builder {
	b.g.StartSymbol = b.g.internSymbol(name, false)
	return b
}

// PreferShifts sets the grammar-wide `prefer_shifts` conflict policy.
func (b *Builder) PreferShifts(yes bool) *Builder {
	b.g.PreferShifts = yes
	return b
}

// PreferShiftsOverEmpty sets the grammar-wide `prefer_shifts_over_empty`
// conflict policy.
func (b *Builder) PreferShiftsOverEmpty(yes bool) *Builder {
	b.g.PreferShiftsOverEmpty = yes
	return b
}

// TerminalOption configures a terminal declared via Builder.Terminal.
type TerminalOption func(*Symbol)

func WithPriority(p int) TerminalOption    { return func(s *Symbol) { s.Priority = p } }
func WithPrefer() TerminalOption           { return func(s *Symbol) { s.Prefer = true } }
func WithFinish(finish bool) TerminalOption {
	return func(s *Symbol) { f := finish; s.Finish = &f }
}
func WithDynamic() TerminalOption { return func(s *Symbol) { s.Dynamic = true } }

// Terminal declares a named terminal with an explicit recognizer, used for
// every terminal that is not an inline string literal (regex terminals,
// custom-function terminals, and the reserved LAYOUT/KEYWORD rules).
func (b *Builder) Terminal(name string, rec Recognizer, opts ...TerminalOption) *Builder {
	if err := validateReservedUsage(name); err != nil && name != LayoutRuleName && name != KeywordRuleName {
		b.fail(err)
		return b
	}
	s := b.g.internSymbol(name, true)
	s.Recognizer = rec
	for _, opt := range opts {
		opt(s)
	}
	return b
}

// LHS begins a new rule for nonterminal name: the productions added via the
// returned RuleBuilder's chained calls, until End()/Epsilon() closes each
// alternative, all become alternatives of name.
func (b *Builder) LHS(name string) *RuleBuilder {
	if err := validateReservedUsage(name); err != nil {
		b.fail(err)
	}
	sym := b.g.internSymbol(name, false)
	if b.g.StartSymbol == nil {
		b.g.StartSymbol = sym
	}
	rb := &RuleBuilder{b: b, lhs: sym, priority: DefaultPriority}
	b.current = rb
	return rb
}

// Grammar finalizes and returns the built Grammar, or the first structural
// error encountered during construction (wrapped as *hydra.GrammarError
// where one hasn't already been produced).
func (b *Builder) Grammar() (*Grammar, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	if err := b.g.Finalize(); err != nil {
		return nil, err
	}
	return b.g, nil
}

// --- RuleBuilder: fluent assembly of one rule's alternatives ---

// multKind is the BNF-extension multiplicity attached to an RHS item.
type multKind int

const (
	multNone multKind = iota
	multStar
	multPlus
	multOpt
)

// pendingItem is one not-yet-resolved RHS entry of the alternative under
// construction.
type pendingItem struct {
	ref     string // named reference (terminal or nonterminal), resolved at close time
	literal string // inline string literal (mutually exclusive with ref)
	isLit   bool

	mult   multKind
	greedy bool
	sepRef string // separator symbol name, multPlus/multStar only

	assignName string
	assignOp   AssignOp
	hasAssign  bool
}

// RuleBuilder assembles the alternatives of a single nonterminal's rule.
type RuleBuilder struct {
	b   *Builder
	lhs *Symbol

	altIdx int
	items  []pendingItem

	assoc              Assoc
	priority           int
	dynamic            bool
	noPreferShift      bool
	noPreferShiftEmpty bool
	meta               map[string]interface{}
}

// N appends a reference to nonterminal/terminal name (resolved by name at
// End/Epsilon time, so forward references across LHS calls are fine).
func (r *RuleBuilder) N(name string) *RuleBuilder {
	r.items = append(r.items, pendingItem{ref: name})
	return r
}

// T is an alias for N used for terminal references, kept distinct only for
// readability at call sites (symbol kind is resolved by lookup, not by
// which method added it).
func (r *RuleBuilder) T(name string) *RuleBuilder { return r.N(name) }

// Str appends an inline, anonymous string-literal terminal. Two Str() calls
// with the same value anywhere in the grammar resolve to the same
// synthesized terminal symbol.
func (r *RuleBuilder) Str(value string) *RuleBuilder {
	r.items = append(r.items, pendingItem{literal: value, isLit: true})
	return r
}

// lastIdx returns the index of the item just added, or -1 if none has been
// added yet — every modifier below applies to "the item just added" and
// records a builder error when there is none.
func (r *RuleBuilder) lastIdx() int { return len(r.items) - 1 }

// Star marks the previous item as `X*` (zero or more).
func (r *RuleBuilder) Star() *RuleBuilder { return r.setMult(multStar) }

// Plus marks the previous item as `X+` (one or more).
func (r *RuleBuilder) Plus() *RuleBuilder { return r.setMult(multPlus) }

// Opt marks the previous item as `X?` (zero or one).
func (r *RuleBuilder) Opt() *RuleBuilder { return r.setMult(multOpt) }

func (r *RuleBuilder) setMult(k multKind) *RuleBuilder {
	if r.lastIdx() < 0 {
		r.b.fail(&hydra.GrammarError{Message: "multiplicity modifier with no preceding item"})
		return r
	}
	r.items[r.lastIdx()].mult = k
	return r
}

// Greedy marks the previous `X*`/`X+` item as the right-associative `!`
// variant (spec.md §4.1): the synthesized recursive production nests on the
// right instead of the left.
func (r *RuleBuilder) Greedy() *RuleBuilder {
	if r.lastIdx() < 0 || r.items[r.lastIdx()].mult == multNone {
		r.b.fail(&hydra.GrammarError{Message: "Greedy() with no preceding star/plus item"})
		return r
	}
	r.items[r.lastIdx()].greedy = true
	return r
}

// Sep attaches separator terminal sepName to the previous `X*`/`X+` item,
// the structural equivalent of `X+[sep]`.
func (r *RuleBuilder) Sep(sepName string) *RuleBuilder {
	if r.lastIdx() < 0 || r.items[r.lastIdx()].mult == multNone || r.items[r.lastIdx()].mult == multOpt {
		r.b.fail(&hydra.GrammarError{Message: "Sep() with no preceding star/plus item"})
		return r
	}
	r.items[r.lastIdx()].sepRef = sepName
	return r
}

// As names the previous item for the production's default
// construct-from-assignments action (`name = item`).
func (r *RuleBuilder) As(name string) *RuleBuilder { return r.assign(name, AssignSet) }

// AsPresence names the previous item with presence semantics
// (`name ?= item`): the bound attribute records whether the item matched
// non-emptily, rather than the matched value itself.
func (r *RuleBuilder) AsPresence(name string) *RuleBuilder { return r.assign(name, AssignPresence) }

func (r *RuleBuilder) assign(name string, op AssignOp) *RuleBuilder {
	if r.lastIdx() < 0 {
		r.b.fail(&hydra.GrammarError{Message: "assignment with no preceding item"})
		return r
	}
	r.items[r.lastIdx()].assignName = name
	r.items[r.lastIdx()].assignOp = op
	r.items[r.lastIdx()].hasAssign = true
	return r
}

// Left declares this alternative left-associative at priority p.
func (r *RuleBuilder) Left(p int) *RuleBuilder {
	r.assoc, r.priority = AssocLeft, p
	return r
}

// Right declares this alternative right-associative at priority p.
func (r *RuleBuilder) Right(p int) *RuleBuilder {
	r.assoc, r.priority = AssocRight, p
	return r
}

// Prior sets this alternative's priority without an associativity.
func (r *RuleBuilder) Prior(p int) *RuleBuilder {
	r.priority = p
	return r
}

// Dynamic marks this alternative as participating in dynamic (runtime)
// conflict resolution instead of the static policies.
func (r *RuleBuilder) Dynamic() *RuleBuilder {
	r.dynamic = true
	return r
}

// NoPreferShift opts this alternative out of the global prefer_shifts
// policy (`nops`).
func (r *RuleBuilder) NoPreferShift() *RuleBuilder {
	r.noPreferShift = true
	return r
}

// NoPreferShiftEmpty opts this alternative out of the global
// prefer_shifts_over_empty policy (`nopse`).
func (r *RuleBuilder) NoPreferShiftEmpty() *RuleBuilder {
	r.noPreferShiftEmpty = true
	return r
}

// Meta attaches an arbitrary user-metadata key/value to this production.
func (r *RuleBuilder) Meta(key string, value interface{}) *RuleBuilder {
	if r.meta == nil {
		r.meta = make(map[string]interface{})
	}
	r.meta[key] = value
	return r
}

// End closes the current alternative, desugars it, and returns r so
// further alternatives can be chained (r.N(...)...End()) for the same LHS.
func (r *RuleBuilder) End() *RuleBuilder {
	r.closeAlternative(r.items)
	r.items = nil
	r.assoc, r.priority, r.dynamic = AssocNone, DefaultPriority, false
	r.noPreferShift, r.noPreferShiftEmpty = false, false
	r.meta = nil
	r.altIdx++
	return r
}

// Epsilon closes the current alternative as the empty production; any
// items added before calling it are a builder error.
func (r *RuleBuilder) Epsilon() *RuleBuilder {
	if len(r.items) != 0 {
		r.b.fail(&hydra.GrammarError{Message: "Epsilon() called with pending RHS items", Symbol: r.lhs.FQN})
	}
	r.closeAlternative(nil)
	r.altIdx++
	return r
}

func (r *RuleBuilder) closeAlternative(items []pendingItem) {
	rhs := make([]*Symbol, 0, len(items))
	var assigns []Assignment
	for _, it := range items {
		sym := r.resolveItemSymbol(it)
		rhs = append(rhs, sym)
		if it.hasAssign {
			assigns = append(assigns, Assignment{Name: it.assignName, Op: it.assignOp, Index: len(rhs) - 1})
		}
	}
	prod := &Production{
		LHS: r.lhs, RHS: rhs,
		Assoc: r.assoc, Priority: r.priority, Dynamic: r.dynamic,
		NoPreferShift: r.noPreferShift, NoPreferShiftEmpty: r.noPreferShiftEmpty,
		Assignments: assigns, UserMeta: r.meta,
	}
	r.b.g.byLHS[r.lhs.FQN] = append(r.b.g.byLHS[r.lhs.FQN], prod)
}

// resolveItemSymbol resolves a pending RHS item to its final Symbol,
// desugaring multiplicity/separator sugar into synthesized auxiliary
// nonterminals along the way (spec.md §4.1's synthesis table).
func (r *RuleBuilder) resolveItemSymbol(it pendingItem) *Symbol {
	var base *Symbol
	if it.isLit {
		base = r.internLiteral(it.literal)
	} else if existing, ok := r.b.g.symbols[it.ref]; ok {
		base = existing
	} else {
		// Not declared yet: assume a nonterminal forward reference: its
		// rule must be added by a later LHS() call, or Finalize reports it
		// unresolved.
		base = r.b.g.internSymbol(it.ref, false)
	}
	if it.mult == multNone {
		return base
	}
	return r.b.desugarMultiplicity(base, it.mult, it.sepRef, it.greedy)
}

// internLiteral returns the canonical terminal for an inline string
// literal, creating it (named after the literal text itself) the first
// time it is seen.
func (r *RuleBuilder) internLiteral(value string) *Symbol {
	name := "'" + value + "'"
	if s, ok := r.b.g.symbols[name]; ok {
		return s
	}
	s := r.b.g.internSymbol(name, true)
	s.Recognizer = NewStringRecognizer(value, r.b.g.IgnoreCase)
	return s
}

// desugarMultiplicity synthesizes the auxiliary nonterminal(s) for a
// `base*`, `base+`, `base?`, or separated variant, per spec.md §4.1:
//
//	base+         {base}_1 : {base}_1 base | base
//	base*         {base}_0 : {base}_1 | EMPTY
//	base?         {base}_opt : base | EMPTY
//	base+[sep]    {base}_1_sep : {base}_1_sep sep base | base
//	base*[sep]    {base}_0_sep : {base}_1_sep | EMPTY
//
// The `!` (greedy) marker makes the recursive alternative right-recursive
// (`base {base}_1` / `base sep {base}_1_sep`) instead of left-recursive,
// and tags the production Right-associative.
func (b *Builder) desugarMultiplicity(base *Symbol, mult multKind, sepName string, greedy bool) *Symbol {
	suffix := ""
	var sep *Symbol
	if sepName != "" {
		if s, ok := b.g.symbols[sepName]; ok {
			sep = s
		} else {
			sep = b.g.internSymbol(sepName, true)
		}
		suffix = "_" + sepName
	}

	plusName := fmt.Sprintf("{%s}_1%s", base.FQN, suffix)
	plusSym := b.synthAux(plusName, func(lhs *Symbol) {
		var rhsRec []*Symbol
		if greedy {
			if sep != nil {
				rhsRec = []*Symbol{base, sep, lhs}
			} else {
				rhsRec = []*Symbol{base, lhs}
			}
		} else {
			if sep != nil {
				rhsRec = []*Symbol{lhs, sep, base}
			} else {
				rhsRec = []*Symbol{lhs, base}
			}
		}
		assoc := AssocLeft
		if greedy {
			assoc = AssocRight
		}
		b.g.byLHS[lhs.FQN] = append(b.g.byLHS[lhs.FQN],
			&Production{LHS: lhs, RHS: rhsRec, Assoc: assoc, Priority: DefaultPriority, UserMeta: map[string]interface{}{"default_action": "collect-extend"}},
			&Production{LHS: lhs, RHS: []*Symbol{base}, Priority: DefaultPriority, UserMeta: map[string]interface{}{"default_action": "collect-single"}},
		)
	})

	switch mult {
	case multPlus:
		return plusSym
	case multStar:
		starName := fmt.Sprintf("{%s}_0%s", base.FQN, suffix)
		return b.synthAux(starName, func(lhs *Symbol) {
			b.g.byLHS[lhs.FQN] = append(b.g.byLHS[lhs.FQN],
				&Production{LHS: lhs, RHS: []*Symbol{plusSym}, Priority: DefaultPriority, UserMeta: map[string]interface{}{"default_action": "collect-identity"}},
				&Production{LHS: lhs, RHS: nil, Priority: DefaultPriority, UserMeta: map[string]interface{}{"default_action": "collect-empty"}},
			)
		})
	case multOpt:
		optName := fmt.Sprintf("{%s}_opt", base.FQN)
		return b.synthAux(optName, func(lhs *Symbol) {
			b.g.byLHS[lhs.FQN] = append(b.g.byLHS[lhs.FQN],
				&Production{LHS: lhs, RHS: []*Symbol{base}, Priority: DefaultPriority, UserMeta: map[string]interface{}{"default_action": "identity"}},
				&Production{LHS: lhs, RHS: nil, Priority: DefaultPriority, UserMeta: map[string]interface{}{"default_action": "none"}},
			)
		})
	}
	return base
}

// synthAux returns the aux nonterminal named name, building its body (via
// build, called exactly once per distinct name) the first time it's
// referenced — repeated `X*` uses of the same base share one synthesized
// rule, per spec.md §4.1 ("FQN derived deterministically").
func (b *Builder) synthAux(name string, build func(lhs *Symbol)) *Symbol {
	if s, ok := b.g.symbols[name]; ok {
		return s
	}
	lhs := b.g.internSymbol(name, false)
	build(lhs)
	return lhs
}

// Group opens an inline, anonymous group `(...)`: its body is itself built
// with a RuleBuilder scoped to a synthesized nonterminal named after the
// rule it appears in, and the group reference can then take a
// multiplicity/assignment exactly like any other item. fn must call End()
// or Epsilon() once per alternative inside the group.
func (r *RuleBuilder) Group(fn func(*RuleBuilder)) *RuleBuilder {
	r.b.groupCounters[r.lhs.FQN]++
	name := fmt.Sprintf("{%s}_g%d", r.lhs.FQN, r.b.groupCounters[r.lhs.FQN])
	groupSym := r.b.g.internSymbol(name, false)
	inner := &RuleBuilder{b: r.b, lhs: groupSym, priority: DefaultPriority}
	fn(inner)
	r.items = append(r.items, pendingItem{ref: name})
	return r
}
