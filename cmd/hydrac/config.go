package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// config holds default CLI flag values read from an optional .hydrac.toml
// in the current directory, the same kind of TOML-file-as-defaults layer
// dekarrin-tunaq's tqw package reads game world data with
// (toml.Unmarshal into a plain struct, no schema registration step).
type config struct {
	Grammar string `toml:"grammar"` // default demo grammar name
	Mode    string `toml:"mode"`    // "lr0" | "slr" | "lalr" | "clr"
	GLR     bool   `toml:"glr"`
	Trace   string `toml:"trace"` // "error" | "info" | "debug"
}

func defaultConfig() config {
	return config{Grammar: "sum", Mode: "lalr", GLR: false, Trace: "error"}
}

// loadConfig reads path if it exists, overlaying any set fields onto the
// built-in defaults. A missing file is not an error — most invocations run
// with no .hydrac.toml at all.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
