package grammar

// computeFirstFollow runs the standard fixed-point FIRST/FOLLOW analysis
// (spec.md §4.1), scoped to this Grammar alone: two Grammar values never
// share FIRST/FOLLOW sets, even if built from textually identical rules.
//
// Sets are represented as plain maps keyed by symbol FQN rather than
// through internal/iset's destructive set algebra — that package exists for
// the automaton's item-set construction, where union/difference is on the
// hot path of table generation; FIRST/FOLLOW is a one-time, whole-grammar
// fixed point where a bare map changed-flag loop reads more directly.
func (g *Grammar) computeFirstFollow() {
	g.first = make(map[string]map[string]bool, len(g.symbols))
	g.follow = make(map[string]map[string]bool, len(g.NonTerminals)+1)

	for _, t := range g.Terminals {
		g.first[t.FQN] = map[string]bool{t.FQN: true}
	}
	g.first[EmptyName] = map[string]bool{EmptyName: true}
	g.first[StopName] = map[string]bool{StopName: true}
	for _, nt := range g.NonTerminals {
		g.first[nt.FQN] = map[string]bool{}
	}
	g.first[g.Augmented.FQN] = map[string]bool{}

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			lhsSet := g.first[p.LHS.FQN]
			nullable := true
			for _, sym := range p.RHS {
				for t := range g.first[sym.FQN] {
					if t != EmptyName && !lhsSet[t] {
						lhsSet[t] = true
						changed = true
					}
				}
				if !g.first[sym.FQN][EmptyName] {
					nullable = false
					break
				}
			}
			if nullable && !lhsSet[EmptyName] {
				lhsSet[EmptyName] = true
				changed = true
			}
		}
	}

	for _, nt := range g.NonTerminals {
		g.follow[nt.FQN] = map[string]bool{}
	}
	g.follow[g.Augmented.FQN] = map[string]bool{StopName: true}

	changed = true
	for changed {
		changed = false
		for _, p := range g.Productions {
			for i, sym := range p.RHS {
				if sym.Terminal {
					continue
				}
				set := g.follow[sym.FQN]
				rest := p.RHS[i+1:]
				nullableRest := true
				for _, s2 := range rest {
					for t := range g.first[s2.FQN] {
						if t != EmptyName && !set[t] {
							set[t] = true
							changed = true
						}
					}
					if !g.first[s2.FQN][EmptyName] {
						nullableRest = false
						break
					}
				}
				if nullableRest {
					for t := range g.follow[p.LHS.FQN] {
						if !set[t] {
							set[t] = true
							changed = true
						}
					}
				}
			}
		}
	}
}

// First returns FIRST(sym): the terminals (and, if sym is nullable, EMPTY)
// that can begin a derivation from sym.
func (g *Grammar) First(sym *Symbol) []*Symbol {
	return g.symbolsFromSet(g.first[sym.FQN])
}

// FirstOfSequence computes FIRST of a whole RHS suffix, e.g. for computing
// an LR(1) item's lookahead set during closure.
func (g *Grammar) FirstOfSequence(seq []*Symbol, trailing map[string]bool) map[string]bool {
	result := map[string]bool{}
	nullable := true
	for _, sym := range seq {
		for t := range g.first[sym.FQN] {
			if t != EmptyName {
				result[t] = true
			}
		}
		if !g.first[sym.FQN][EmptyName] {
			nullable = false
			break
		}
	}
	if nullable {
		for t := range trailing {
			result[t] = true
		}
	}
	return result
}

// Follow returns FOLLOW(nt): the terminals that can immediately follow nt
// in some derivation from the (augmented) start symbol.
func (g *Grammar) Follow(nt *Symbol) []*Symbol {
	return g.symbolsFromSet(g.follow[nt.FQN])
}

func (g *Grammar) symbolsFromSet(set map[string]bool) []*Symbol {
	out := make([]*Symbol, 0, len(set))
	for fqn := range set {
		if s, ok := g.symbols[fqn]; ok {
			out = append(out, s)
		}
	}
	return out
}

// IsNullable reports whether sym can derive EMPTY.
func (g *Grammar) IsNullable(sym *Symbol) bool { return g.first[sym.FQN][EmptyName] }
