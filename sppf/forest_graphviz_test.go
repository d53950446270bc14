package sppf

import (
	"bytes"
	"strings"
	"testing"
)

func TestToGraphVizProducesWellFormedDot(t *testing.T) {
	f, root := ambiguousSumForest()

	var buf bytes.Buffer
	f.ToGraphViz(&buf)
	out := buf.String()

	if !strings.HasPrefix(out, "digraph G {") {
		t.Fatalf("expected DOT output to start with \"digraph G {\", got %q", out[:20])
	}
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), "}") {
		t.Fatalf("expected DOT output to end with a closing brace")
	}
	if !strings.Contains(out, root.String()) {
		t.Fatalf("expected root node %q to appear in DOT output", root.String())
	}
	if !strings.Contains(out, "style=dashed") {
		t.Fatalf("expected at least one or-edge (dashed) in an ambiguous forest")
	}
	if !strings.Contains(out, "rank=max") {
		t.Fatalf("expected terminal symbols pinned to rank=max")
	}
}
