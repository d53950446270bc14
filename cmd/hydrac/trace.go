package main

import (
	"flag"
	"strings"

	"github.com/chzyer/readline"
	"github.com/parsix/hydra/automaton"
	"github.com/parsix/hydra/glr"
	"github.com/parsix/hydra/lrparse"
	"github.com/pterm/pterm"
)

// cmdTrace opens an interactive "read a line, parse it, show the trace"
// loop, the same readline.Instance-driven shape as the teacher's
// Intp.REPL (terex/terexlang/trepl/repl.go), except each line is parsed
// directly against the chosen demo grammar instead of being read as a
// TeREx s-expression first.
func cmdTrace(cfg config, args []string) error {
	fs := flag.NewFlagSet("trace", flag.ContinueOnError)
	grammarName := fs.String("grammar", cfg.Grammar, "demo grammar name")
	modeName := fs.String("mode", cfg.Mode, "lr0|slr|lalr|clr")
	useGLR := fs.Bool("glr", cfg.GLR, "drive with the GLR parser instead of the deterministic one")
	if err := fs.Parse(args); err != nil {
		return err
	}
	applyTraceLevel("debug")

	g, err := demoGrammar(*grammarName)
	if err != nil {
		return err
	}
	mode, err := parseMode(*modeName)
	if err != nil {
		return err
	}
	table, err := automaton.Generate(g, mode, *useGLR)
	if err != nil {
		return err
	}

	repl, err := readline.New("hydrac> ")
	if err != nil {
		return err
	}
	defer repl.Close()

	pterm.Info.Println("Welcome to hydrac trace mode. Quit with <ctrl>D")
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF on <ctrl>D
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		traceOne(table, *useGLR, line)
	}
	pterm.Info.Println("Good bye!")
	return nil
}

func traceOne(table *automaton.Table, useGLR bool, line string) {
	if useGLR {
		parser := glr.New(table.Grammar, table)
		forest, errs := parser.Parse(line)
		for _, e := range errs {
			pterm.Error.Println(e.Error())
		}
		if forest != nil && forest.Root() != nil {
			if tree, err := forest.FirstTree(); err == nil {
				pterm.Println(tree.String())
			}
		}
		return
	}
	parser := lrparse.New(table.Grammar, table)
	node, errs := parser.Parse(line)
	for _, e := range errs {
		pterm.Error.Println(e.Error())
	}
	if node != nil {
		pterm.Println(node.String())
	}
}
