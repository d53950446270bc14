package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != defaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".hydrac.toml")
	content := "grammar = \"ambiguous-sum\"\nglr = true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Grammar != "ambiguous-sum" || !cfg.GLR {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Mode != defaultConfig().Mode {
		t.Fatalf("expected unset field to keep its default, got %q", cfg.Mode)
	}
}
