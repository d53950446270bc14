package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCmdVizWritesDotFile(t *testing.T) {
	dotPath := filepath.Join(t.TempDir(), "forest.dot")
	cfg := defaultConfig()
	if err := cmdViz(cfg, []string{"-dot", dotPath, "1+2*3"}); err != nil {
		t.Fatalf("cmdViz: %v", err)
	}
	data, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatalf("reading dot file: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph G {") {
		t.Fatalf("expected forest dot output, got %q", string(data[:20]))
	}
}
