package main

import (
	"flag"
	"strings"

	"github.com/parsix/hydra/automaton"
	"github.com/parsix/hydra/glr"
	"github.com/parsix/hydra/lrparse"
	"github.com/pterm/pterm"
)

// cmdParse builds a demo grammar/table and drives either the deterministic
// lrparse.Parser or the glr.Parser (per -glr) over the given input,
// rendering the resulting tree or reporting errors.
func cmdParse(cfg config, args []string) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	grammarName := fs.String("grammar", cfg.Grammar, "demo grammar name")
	modeName := fs.String("mode", cfg.Mode, "lr0|slr|lalr|clr")
	useGLR := fs.Bool("glr", cfg.GLR, "drive with the GLR parser instead of the deterministic one")
	trace := traceFlag(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}
	applyTraceLevel(*trace)
	input := strings.Join(fs.Args(), " ")

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

	if *useGLR {
		parser := glr.New(g, table)
		forest, errs := parser.Parse(input)
		for _, e := range errs {
			pterm.Error.Println(e.Error())
		}
		if forest == nil || forest.Root() == nil {
			return nil
		}
		ambiguities, err := forest.Ambiguities()
		if err != nil {
			return err
		}
		pterm.Success.Printfln("parsed %q (%d ambiguous fork(s))", input, ambiguities)
		tree, err := forest.FirstTree()
		if err != nil {
			return err
		}
		pterm.Println(tree.String())
		return nil
	}

	parser := lrparse.New(g, table)
	node, errs := parser.Parse(input)
	for _, e := range errs {
		pterm.Error.Println(e.Error())
	}
	if node == nil {
		return nil
	}
	pterm.Success.Printfln("parsed %q", input)
	pterm.Println(node.String())
	return nil
}
