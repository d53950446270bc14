package gss

import "testing"

func TestPushMergesSharedRoot(t *testing.T) {
	r := NewRoot("G", -999)
	s1 := NewStack(r)
	s2 := NewStack(r)
	s1.Push(1, 0, "a", nil)
	s2.Push(1, 0, "a", nil)
	if s1.Peek() != s2.Peek() {
		t.Fatalf("expected two stacks pushing the same (state,pos,lookahead) to merge onto one node")
	}
}

func TestPushForkCreatesMultipleParents(t *testing.T) {
	r := NewRoot("G", -999)
	s1 := NewStack(r)
	s1.Push(1, 0, "a", nil)
	s2 := NewStack(r)
	s2.Push(2, 0, "b", nil)
	top1, top2 := s1.Peek(), s2.Peek()
	s1.Push(3, 1, "c", nil)
	s2.Push(3, 1, "c", nil)
	if s1.Peek() != s2.Peek() {
		t.Fatalf("expected join at (3,1,c)")
	}
	join := s1.Peek()
	if len(join.Parents()) != 2 {
		t.Fatalf("expected 2 parents at join, got %d", len(join.Parents()))
	}
	if join.Parents()[0] != top1 && join.Parents()[1] != top1 {
		t.Fatalf("expected join to have top1 as a parent")
	}
	if join.Parents()[0] != top2 && join.Parents()[1] != top2 {
		t.Fatalf("expected join to have top2 as a parent")
	}
}

func TestPathsOfLength(t *testing.T) {
	r := NewRoot("G", -999)
	s := NewStack(r)
	s.Push(1, 0, "a", "A")
	s.Push(2, 1, "b", "B")
	s.Push(3, 2, "c", "C")
	paths := s.Peek().PathsOfLength(2)
	if len(paths) != 1 {
		t.Fatalf("expected exactly 1 path of length 2 on an unforked stack, got %d", len(paths))
	}
	if len(paths[0]) != 3 {
		t.Fatalf("expected a 3-node path, got %d", len(paths[0]))
	}
}
