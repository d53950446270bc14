package sppf

import "testing"

func TestAmbiguitiesCountsOneFork(t *testing.T) {
	f, _ := ambiguousSumForest()
	n, err := f.Ambiguities()
	if err != nil {
		t.Fatalf("Ambiguities: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 ambiguous span, got %d", n)
	}
}

func TestTreeCountMatchesTwoGroupings(t *testing.T) {
	f, _ := ambiguousSumForest()
	n, err := f.TreeCount()
	if err != nil {
		t.Fatalf("TreeCount: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 distinct trees, got %d", n)
	}
}

func TestGetTreeReturnsDistinctGroupings(t *testing.T) {
	f, _ := ambiguousSumForest()
	t0, err := f.GetTree(0)
	if err != nil {
		t.Fatalf("GetTree(0): %v", err)
	}
	t1, err := f.GetTree(1)
	if err != nil {
		t.Fatalf("GetTree(1): %v", err)
	}
	if t0.String() == t1.String() {
		t.Fatalf("expected the two ambiguous groupings to render differently, both gave %s", t0.String())
	}
}

func TestGetTreeOutOfRange(t *testing.T) {
	f, _ := ambiguousSumForest()
	if _, err := f.GetTree(2); err == nil {
		t.Fatalf("expected an out-of-range error for index 2 of a 2-tree forest")
	}
}

func TestFirstTreeSucceeds(t *testing.T) {
	f, _ := ambiguousSumForest()
	tree, err := f.FirstTree()
	if err != nil {
		t.Fatalf("FirstTree: %v", err)
	}
	if tree == nil || tree.Symbol != "E" {
		t.Fatalf("expected a root E tree, got %v", tree)
	}
}
