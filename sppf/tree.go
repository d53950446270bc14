package sppf

import (
	"fmt"

	"github.com/parsix/hydra"
	"github.com/parsix/hydra/grammar"
)

// Tree is one fully disambiguated parse tree extracted from a Forest: a
// single Production (or none, for a terminal leaf) per node, rather than
// the forest's or-edge fan-out.
type Tree struct {
	Symbol     string
	Span       hydra.Span
	Production *grammar.Production
	Children   []*Tree
}

func (t *Tree) String() string {
	if len(t.Children) == 0 {
		return t.Symbol
	}
	s := "(" + t.Symbol
	for _, c := range t.Children {
		s += " " + c.String()
	}
	return s + ")"
}

// FirstTree extracts a parse tree by always taking the first-recorded
// derivation at every ambiguous fork — a fast, allocation-light path for
// callers that don't care which of several ambiguous parses they get.
func (f *Forest) FirstTree() (*Tree, error) {
	if f.root == nil {
		return nil, nil
	}
	return f.firstTree(f.root, make(map[*SymbolNode]bool))
}

func (f *Forest) firstTree(sn *SymbolNode, visiting map[*SymbolNode]bool) (*Tree, error) {
	if visiting[sn] {
		return nil, &hydra.LoopError{Message: fmt.Sprintf("cycle detected at %s", sn)}
	}
	derivations := f.Derivations(sn)
	if len(derivations) == 0 {
		return &Tree{Symbol: sn.Symbol.FQN, Span: sn.Extent}, nil
	}
	visiting[sn] = true
	defer delete(visiting, sn)

	d := derivations[0]
	children := d.Children()
	out := make([]*Tree, len(children))
	for i, c := range children {
		sub, err := f.firstTree(c, visiting)
		if err != nil {
			return nil, err
		}
		out[i] = sub
	}
	return &Tree{Symbol: sn.Symbol.FQN, Span: sn.Extent, Production: d.Production(), Children: out}, nil
}

// Ambiguities counts the number of distinct spans in the forest where more
// than one derivation was recorded — spec.md §4.6's measure of how
// ambiguous a completed GLR parse turned out to be. A forest with no
// ambiguity at all reports 0.
func (f *Forest) Ambiguities() (int, error) {
	if f.root == nil {
		return 0, nil
	}
	count := 0
	visited := make(map[*SymbolNode]bool)
	visiting := make(map[*SymbolNode]bool)
	var walk func(sn *SymbolNode) error
	walk = func(sn *SymbolNode) error {
		if visiting[sn] {
			return &hydra.LoopError{Message: fmt.Sprintf("cycle detected at %s", sn)}
		}
		if visited[sn] {
			return nil
		}
		visited[sn] = true
		derivations := f.Derivations(sn)
		if len(derivations) > 1 {
			count++
		}
		visiting[sn] = true
		defer delete(visiting, sn)
		for _, d := range derivations {
			for _, c := range d.Children() {
				if err := walk(c); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(f.root); err != nil {
		return 0, err
	}
	return count, nil
}

// TreeCount returns the number of distinct parse trees embedded in the
// forest below its root: a node with no derivation counts 1, any other
// node the sum, over its derivations, of the product of its children's
// counts.
func (f *Forest) TreeCount() (int, error) {
	if f.root == nil {
		return 0, nil
	}
	return f.treeCount(f.root, make(map[*SymbolNode]bool))
}

func (f *Forest) treeCount(sn *SymbolNode, visiting map[*SymbolNode]bool) (int, error) {
	if visiting[sn] {
		return 0, &hydra.LoopError{Message: fmt.Sprintf("cycle detected at %s", sn)}
	}
	derivations := f.Derivations(sn)
	if len(derivations) == 0 {
		return 1, nil
	}
	visiting[sn] = true
	defer delete(visiting, sn)

	total := 0
	for _, d := range derivations {
		product := 1
		for _, c := range d.Children() {
			n, err := f.treeCount(c, visiting)
			if err != nil {
				return 0, err
			}
			product *= n
		}
		total += product
	}
	return total, nil
}

// GetTree extracts the i-th (0-based) distinct parse tree embedded in the
// forest, decomposing i as a mixed-radix index: first across the
// alternative derivations at a fork (weighted by each derivation's own
// tree count), then across that derivation's children, youngest child
// varying fastest. Mirrors the indexed-tree-enumeration idea of
// parglare's trees.py Forest.get_tree, adapted to this forest's or/and
// edge representation.
func (f *Forest) GetTree(i int) (*Tree, error) {
	if f.root == nil {
		return nil, fmt.Errorf("sppf: empty forest")
	}
	total, err := f.TreeCount()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= total {
		return nil, fmt.Errorf("sppf: tree index %d out of range [0,%d)", i, total)
	}
	return f.getTree(f.root, i, make(map[*SymbolNode]bool))
}

func (f *Forest) getTree(sn *SymbolNode, idx int, visiting map[*SymbolNode]bool) (*Tree, error) {
	if visiting[sn] {
		return nil, &hydra.LoopError{Message: fmt.Sprintf("cycle detected at %s", sn)}
	}
	derivations := f.Derivations(sn)
	if len(derivations) == 0 {
		return &Tree{Symbol: sn.Symbol.FQN, Span: sn.Extent}, nil
	}
	visiting[sn] = true
	defer delete(visiting, sn)

	for _, d := range derivations {
		children := d.Children()
		counts := make([]int, len(children))
		product := 1
		for k, c := range children {
			n, err := f.treeCount(c, visiting)
			if err != nil {
				return nil, err
			}
			counts[k] = n
			product *= n
		}
		if idx < product {
			childIdx := make([]int, len(children))
			rem := idx
			for k := len(children) - 1; k >= 0; k-- {
				if counts[k] == 0 {
					continue
				}
				childIdx[k] = rem % counts[k]
				rem /= counts[k]
			}
			out := make([]*Tree, len(children))
			for k, c := range children {
				sub, err := f.getTree(c, childIdx[k], visiting)
				if err != nil {
					return nil, err
				}
				out[k] = sub
			}
			return &Tree{Symbol: sn.Symbol.FQN, Span: sn.Extent, Production: d.Production(), Children: out}, nil
		}
		idx -= product
	}
	return nil, fmt.Errorf("sppf: tree index exhausted derivations at %s", sn)
}
