package automaton

import (
	"github.com/cnf/structhash"
	"github.com/parsix/hydra/grammar"
)

// emptyReductionKey is hashed to memoize epsilon-production reductions
// during a GLR parse (package glr): an epsilon reduction's resulting SPPF
// node depends only on the automaton state it fires in, the production
// reduced, and the input position, so repeating the same (state, prod,
// pos) triple — unavoidable on a grammar with nullable left recursion —
// can reuse the cached node instead of rebuilding (and re-forking) it.
// Grounded on lr/earley/earley.go's structhash.Hash(item, state) use for
// an analogous Earley item/state memoization key.
type emptyReductionKey struct {
	State  int
	ProdID int
	Pos    int
}

// EmptyReductionKey returns the memoization key for an epsilon reduction of
// prod in state at input position pos.
func EmptyReductionKey(state int, prod *grammar.Production, pos int) string {
	k := emptyReductionKey{State: state, ProdID: prod.ProdID, Pos: pos}
	h, err := structhash.Hash(k, 1)
	if err != nil {
		panic(err) // k's fields are plain ints, hashing cannot fail
	}
	return h
}
