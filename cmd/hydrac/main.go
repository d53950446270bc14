// Command hydrac is a thin, informative CLI wrapper over the hydra
// library packages: build a demo grammar, generate its parse table, drive
// a parse, and render the result. It mirrors the way the teacher module
// structures terex/terexlang/trepl as a wrapper over its own library
// packages rather than as a library entry point in its own right — hydrac
// is for manual smoke-testing and demonstration, not part of the core
// toolkit.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
)

func main() {
	gtrace.SyntaxTracer = gologadapter.New()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(".hydrac.toml")
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]
	var runErr error
	switch cmd {
	case "compile":
		runErr = cmdCompile(cfg, args)
	case "parse":
		runErr = cmdParse(cfg, args)
	case "viz":
		runErr = cmdViz(cfg, args)
	case "trace":
		runErr = cmdTrace(cfg, args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}
	if runErr != nil {
		pterm.Error.Println(runErr.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `hydrac: a smoke-test CLI for the hydra parsing toolkit

Usage:
  hydrac compile [-grammar name] [-mode lr0|slr|lalr|clr] [-glr] [-out file] [-dot file]
  hydrac parse   [-grammar name] [-mode ...] [-glr] <input...>
  hydrac viz     [-grammar name] [-dot file] <input...>
  hydrac trace   [-grammar name] [-mode ...] [-glr]

Demo grammars: sum (default, deterministic), ambiguous-sum (forks in GLR).
An optional .hydrac.toml in the working directory overrides the defaults.`)
}

// traceFlag installs the common -trace flag onto fs; once fs.Parse has run,
// applyTraceLevel applies the resulting level globally.
func traceFlag(fs *flag.FlagSet, cfg config) *string {
	return fs.String("trace", cfg.Trace, "trace level: error|info|debug")
}

func applyTraceLevel(levelName string) {
	gtrace.SyntaxTracer.SetTraceLevel(tracing.TraceLevelFromString(levelName))
}
