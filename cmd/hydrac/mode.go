package main

import (
	"fmt"
	"strings"

	"github.com/parsix/hydra/automaton"
)

func parseMode(s string) (automaton.Mode, error) {
	switch strings.ToLower(s) {
	case "lr0":
		return automaton.LR0, nil
	case "slr":
		return automaton.SLR, nil
	case "lalr", "":
		return automaton.LALR, nil
	case "clr":
		return automaton.CLR, nil
	default:
		return automaton.LALR, fmt.Errorf("unknown mode %q (known: lr0, slr, lalr, clr)", s)
	}
}
