// Command lox is the CLI driver: argument parsing, file reading, and the
// REPL line loop. Per spec.md §3 this is an external collaborator, not
// part of the interpreter core — but a complete repository still needs
// one, so it is built in the ambient style of the corpus:
// github.com/chzyer/readline for REPL line editing (akashmaji946-go-mix)
// and github.com/fatih/color for diagnostic coloring (both
// sam-decook-lox's own dependency and go-mix's repl package).
package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/sdecook/glox/run"
)

func main() {
	args := os.Args[1:]

	switch {
	case len(args) == 0:
		run.REPL(os.Stdin, os.Stdout)
	case len(args) == 1:
		code := run.File(args[0], os.Stdout)
		os.Exit(code)
	default:
		color.New(color.FgYellow).Fprintln(os.Stdout, "Usage: lox [script]")
		os.Exit(64)
	}
}
