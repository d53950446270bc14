package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCmdCompileWritesDotFile(t *testing.T) {
	dotPath := filepath.Join(t.TempDir(), "cfsm.dot")
	cfg := defaultConfig()
	if err := cmdCompile(cfg, []string{"-dot", dotPath}); err != nil {
		t.Fatalf("cmdCompile: %v", err)
	}
	data, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatalf("reading dot file: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph {") {
		t.Fatalf("expected CFSM dot output, got %q", string(data[:20]))
	}
}

func TestCmdCompileWritesTableFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "table.gob")
	cfg := defaultConfig()
	if err := cmdCompile(cfg, []string{"-out", outPath}); err != nil {
		t.Fatalf("cmdCompile: %v", err)
	}
	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("stat table file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected non-empty table encoding")
	}
}
