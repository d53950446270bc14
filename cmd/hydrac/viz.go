package main

import (
	"flag"
	"os"
	"strings"

	"github.com/parsix/hydra/automaton"
	"github.com/parsix/hydra/glr"
	"github.com/pterm/pterm"
)

// cmdViz always drives the GLR parser (so that ambiguous demo grammars can
// be shown forking) and renders the resulting forest as a pterm tree,
// reporting the forest's total derivation count alongside it. With -dot it
// instead writes the whole forest to a file in GraphViz format, the way the
// teacher module exposes ToGraphViz for its own SPPF.
func cmdViz(cfg config, args []string) error {
	fs := flag.NewFlagSet("viz", flag.ContinueOnError)
	grammarName := fs.String("grammar", cfg.Grammar, "demo grammar name")
	modeName := fs.String("mode", cfg.Mode, "lr0|slr|lalr|clr")
	dotOut := fs.String("dot", "", "write the forest in GraphViz DOT format to this file instead of rendering a tree")
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
	table, err := automaton.Generate(g, mode, true)
	if err != nil {
		return err
	}

	parser := glr.New(g, table)
	forest, errs := parser.Parse(input)
	for _, e := range errs {
		pterm.Error.Println(e.Error())
	}
	if forest == nil || forest.Root() == nil {
		return nil
	}

	count, err := forest.TreeCount()
	if err != nil {
		return err
	}
	pterm.Info.Printfln("%d distinct derivation(s) for %q", count, input)

	if *dotOut != "" {
		f, err := os.Create(*dotOut)
		if err != nil {
			return err
		}
		defer f.Close()
		forest.ToGraphViz(f)
		pterm.Success.Printfln("wrote %s", *dotOut)
		return nil
	}

	tree, err := forest.FirstTree()
	if err != nil {
		return err
	}
	renderSPPFTree(tree)
	return nil
}
