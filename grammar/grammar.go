package grammar

import (
	"fmt"
	"sort"

	"github.com/parsix/hydra"
)

// Grammar is the immutable-after-Finalize grammar model: symbol table,
// ordered terminal/nonterminal lists, and the enumerated production list
// (augmented production 0 first, per spec.md §3 invariants).
type Grammar struct {
	Name       string
	IgnoreCase bool

	// PreferShifts and PreferShiftsOverEmpty are the grammar-wide conflict
	// policies from spec.md §4.2: resolve a residual shift/reduce conflict
	// in favor of the shift, or in favor of shifting over reducing by an
	// empty production, respectively. A production's NoPreferShift /
	// NoPreferShiftEmpty flag opts it out individually.
	PreferShifts          bool
	PreferShiftsOverEmpty bool

	// StartSymbol is the grammar's original (user-declared) start symbol.
	// Augmented is the synthesized S' with a single production
	// Augmented -> StartSymbol STOP (production 0).
	StartSymbol *Symbol
	Augmented   *Symbol

	Empty *Symbol
	Stop  *Symbol

	symbols      map[string]*Symbol
	Terminals    []*Symbol // insertion order = first-seen during construction
	NonTerminals []*Symbol

	Productions []*Production
	byLHS       map[string][]*Production

	finalized bool

	first  map[string]map[string]bool
	follow map[string]map[string]bool
}

func newGrammar(name string, ignoreCase bool) *Grammar {
	g := &Grammar{
		Name:       name,
		IgnoreCase: ignoreCase,
		symbols:    make(map[string]*Symbol),
		byLHS:      make(map[string][]*Production),
	}
	g.Empty = &Symbol{FQN: EmptyName, Terminal: true}
	g.Stop = &Symbol{FQN: StopName, Terminal: true}
	g.symbols[EmptyName] = g.Empty
	g.symbols[StopName] = g.Stop
	return g
}

// Lookup finds a symbol by its fully-qualified name, or nil.
func (g *Grammar) Lookup(fqn string) *Symbol { return g.symbols[fqn] }

// EachSymbol iterates over every terminal, then every nonterminal, in
// first-seen order — matching gorgo's lr.Grammar.EachSymbol contract used
// throughout lr/tables.go to build deterministic ACTION/GOTO column
// orderings.
func (g *Grammar) EachSymbol(fn func(*Symbol)) {
	for _, t := range g.Terminals {
		fn(t)
	}
	for _, n := range g.NonTerminals {
		fn(n)
	}
}

// Rule returns the production with the given global ProdID.
func (g *Grammar) Rule(prodID int) *Production {
	if prodID < 0 || prodID >= len(g.Productions) {
		return nil
	}
	return g.Productions[prodID]
}

// ProductionsFor returns every alternative declared for nonterminal fqn, in
// declaration order (their ProdSymbolID is their index in this slice).
func (g *Grammar) ProductionsFor(fqn string) []*Production {
	return g.byLHS[fqn]
}

// internSymbol returns the canonical Symbol for fqn, creating it as a
// terminal or nonterminal (per the terminal argument) the first time it is
// seen; an existing symbol is returned unchanged. Every RHS reference must resolve to this same pointer
// (spec.md §3 invariant: "no aliases").
func (g *Grammar) internSymbol(fqn string, terminal bool) *Symbol {
	if s, ok := g.symbols[fqn]; ok {
		return s
	}
	s := &Symbol{FQN: fqn, Terminal: terminal, Priority: DefaultPriority}
	g.symbols[fqn] = s
	if terminal {
		g.Terminals = append(g.Terminals, s)
	} else {
		g.NonTerminals = append(g.NonTerminals, s)
	}
	return s
}

// Finalize checks that every nonterminal reference has a rule and that no
// string literal is shared, applies KEYWORD rewriting, synthesizes the
// augmented start production, assigns dense ProdID/symbol IDs, and
// computes FIRST/FOLLOW. BNF-extension sugar has already been desugared by
// the Builder. A second call is a no-op; the Grammar is immutable
// afterwards. Returns a *hydra.GrammarError on the first failed check.
func (g *Grammar) Finalize() error {
	if g.finalized {
		return nil
	}
	if g.StartSymbol == nil {
		return &hydra.GrammarError{Message: "no start symbol declared"}
	}
	if err := g.checkUnresolvedReferences(); err != nil {
		return err
	}
	if err := g.checkDuplicateLiterals(); err != nil {
		return err
	}
	if err := g.applyKeywordRule(); err != nil {
		return err
	}
	g.synthesizeAugmentedStart()
	g.assignSymbolIDs()
	g.assignProductionIDs()
	g.computeFirstFollow()
	g.finalized = true
	return nil
}

// assignSymbolIDs gives every terminal and nonterminal a dense ID, used as
// the column index into the generated ACTION/GOTO tables. Terminal and
// nonterminal IDs are independent 0-based ranges (automaton.Table keeps
// separate tables for each, so there's no need to offset one range past
// the other).
func (g *Grammar) assignSymbolIDs() {
	for id, t := range g.Terminals {
		t.ID = id
	}
	for id, nt := range g.NonTerminals {
		nt.ID = id
	}
}

// synthesizeAugmentedStart builds production 0: S' -> S STOP.
func (g *Grammar) synthesizeAugmentedStart() {
	primeName := g.StartSymbol.FQN + "'"
	prime := g.internSymbol(primeName, false)
	g.Augmented = prime
	prod := &Production{LHS: prime, RHS: []*Symbol{g.StartSymbol, g.Stop}}
	g.Productions = append([]*Production{prod}, g.Productions...)
	g.byLHS[primeName] = append([]*Production{prod}, g.byLHS[primeName]...)
}

// assignProductionIDs gives every production a dense ProdID (production 0
// is always the augmented start rule) and, within its own LHS rule, a
// 0-based ProdSymbolID.
func (g *Grammar) assignProductionIDs() {
	id := 0
	// Keep deterministic LHS order: the order nonterminals were first seen,
	// with the augmented start symbol first.
	seen := map[string]bool{}
	order := []string{g.Augmented.FQN}
	seen[g.Augmented.FQN] = true
	for _, nt := range g.NonTerminals {
		if !seen[nt.FQN] {
			order = append(order, nt.FQN)
			seen[nt.FQN] = true
		}
	}
	g.Productions = g.Productions[:0]
	for _, lhsName := range order {
		prods := g.byLHS[lhsName]
		for i, p := range prods {
			p.ProdID = id
			p.ProdSymbolID = i
			id++
			g.Productions = append(g.Productions, p)
		}
	}
}

func (g *Grammar) checkUnresolvedReferences() error {
	var unresolved []string
	for fqn, s := range g.symbols {
		if !s.Terminal && len(g.byLHS[fqn]) == 0 {
			unresolved = append(unresolved, fqn)
		}
	}
	if len(unresolved) > 0 {
		sort.Strings(unresolved)
		return &hydra.GrammarError{Message: "unresolved reference(s)", Symbol: unresolved[0]}
	}
	return nil
}

func (g *Grammar) checkDuplicateLiterals() error {
	seen := map[string]string{} // literal value -> owning FQN
	for _, t := range g.Terminals {
		sr, ok := t.Recognizer.(*StringRecognizer)
		if !ok {
			continue
		}
		key := sr.Value
		if sr.IgnoreCase {
			key = "\x00ci\x00" + key
		}
		if owner, dup := seen[key]; dup && owner != t.FQN {
			return &hydra.GrammarError{Message: fmt.Sprintf("duplicate string-literal recognizer %q shared with %q", sr.Value, owner), Symbol: t.FQN}
		}
		seen[key] = t.FQN
	}
	return nil
}

// applyKeywordRule implements spec.md §4.1: if a KEYWORD terminal exists,
// it must be a Regex terminal, and every string-literal terminal whose
// value fully matches the KEYWORD pattern at position 0 becomes a
// word-bounded Regex terminal with its Keyword flag set.
func (g *Grammar) applyKeywordRule() error {
	kw, ok := g.symbols[KeywordRuleName]
	if !ok {
		return nil
	}
	kwRegex, ok := kw.Recognizer.(*RegexRecognizer)
	if !ok {
		return &hydra.GrammarError{Message: "KEYWORD rule must have a regex recognizer defined", Symbol: KeywordRuleName}
	}
	for _, t := range g.Terminals {
		if t == kw {
			continue
		}
		sr, ok := t.Recognizer.(*StringRecognizer)
		if !ok {
			continue
		}
		if m, matched := kwRegex.Match(sr.Value, 0); matched && len(m.Text) == len(sr.Value) {
			wb, err := wordBoundaryKeyword(sr.Value, sr.IgnoreCase)
			if err != nil {
				return &hydra.GrammarError{Message: "failed to build keyword recognizer: " + err.Error(), Symbol: t.FQN}
			}
			t.Recognizer = wb
			t.Keyword = true
			tracer().Debugf("terminal %q converted to word-bounded keyword terminal", t.FQN)
		}
	}
	return nil
}

// validateReservedUsage is called by the Builder whenever a user declares a
// symbol, rejecting EMPTY/STOP as user-chosen names.
func validateReservedUsage(name string) error {
	if IsReserved(name) {
		return &hydra.GrammarError{Message: "reserved name used as user symbol", Symbol: name}
	}
	return nil
}
