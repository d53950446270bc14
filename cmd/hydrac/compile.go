package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/parsix/hydra/automaton"
	"github.com/pterm/pterm"
)

// cmdCompile builds a demo grammar's parse table and reports its size and
// any residual conflicts — the "show me the automaton" smoke test.
func cmdCompile(cfg config, args []string) error {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	grammarName := fs.String("grammar", cfg.Grammar, "demo grammar name")
	modeName := fs.String("mode", cfg.Mode, "lr0|slr|lalr|clr")
	glr := fs.Bool("glr", cfg.GLR, "generate a GLR table (keep every conflicting action live)")
	out := fs.String("out", "", "write the generated table's gob encoding to this file")
	dotOut := fs.String("dot", "", "write the CFSM in GraphViz DOT format to this file")
	trace := traceFlag(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}
	applyTraceLevel(*trace)

	g, err := demoGrammar(*grammarName)
	if err != nil {
		return err
	}
	mode, err := parseMode(*modeName)
	if err != nil {
		return err
	}
	table, err := automaton.Generate(g, mode, *glr)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("grammar %q compiled under %s (GLR=%v): %d states, build %s",
		g.Name, mode, *glr, table.NStates(), table.BuildID)

	if len(table.Conflicts) > 0 {
		rows := [][]string{{"kind", "state", "terminal", "detail"}}
		for _, c := range table.Conflicts {
			rows = append(rows, []string{c.Kind.String(), fmt.Sprintf("%d", c.State), c.Terminal, c.Message})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}
	} else {
		pterm.Success.Println("no residual conflicts")
	}

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := table.EncodeTo(f); err != nil {
			return err
		}
		pterm.Info.Printfln("table written to %s", *out)
	}

	if *dotOut != "" {
		f, err := os.Create(*dotOut)
		if err != nil {
			return err
		}
		defer f.Close()
		table.CFSM.ToGraphViz(f)
		pterm.Info.Printfln("CFSM written to %s", *dotOut)
	}
	return nil
}
