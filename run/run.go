// Package run wires the scanner, parser, resolver, and evaluator into
// the two external entry points spec.md §6 describes: running a file
// once, and an interactive REPL. This orchestration mirrors
// sam-decook-lox/codecrafters/cmd/interpreter.go's Scan/Parse/Evaluate
// pipeline struct, generalized to also run the resolver (the teacher's
// main.go called a lox.Resolve() that its Interpreter never defined) and
// to return structured errors instead of calling os.Exit mid-pipeline.
package run

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/sdecook/glox/ast"
	"github.com/sdecook/glox/interp"
	"github.com/sdecook/glox/lexer"
	"github.com/sdecook/glox/loxerr"
	"github.com/sdecook/glox/parser"
	"github.com/sdecook/glox/resolver"
)

// diagColor renders diagnostics in red when stderr is a terminal
// (github.com/fatih/color auto-detects and falls back to plain text
// otherwise, which keeps golden/diff-style tests comparing raw stdout
// unaffected).
var diagColor = color.New(color.FgRed)

// Source runs one chunk of source text against interpreter it, printing
// any diagnostics to stderr and returning the exit code the CLI should
// use if this were the only thing run (0 success, 65 compile error, 70
// runtime error).
func Source(it *interp.Interpreter, source []byte) int {
	toks, scanErrs := lexer.New(source).Scan()
	if len(scanErrs) > 0 {
		reportAll(scanErrs)
		return 65
	}

	p := parser.New(toks)
	stmts, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		reportAll(parseErrs)
		return 65
	}

	locals, resolveErrs := resolver.New().Resolve(stmts)
	if len(resolveErrs) > 0 {
		reportAll(resolveErrs)
		return 65
	}
	it.SetLocals(locals)

	if err := runStmts(it, stmts); err != nil {
		return 70
	}
	return 0
}

// runStmts recovers from the "unreachable" internal panics the
// evaluator raises for interpreter-bug conditions (e.g. a resolved
// variable missing from its frame), converting them into a SystemError
// report rather than crashing the process — those panics should never
// fire given a correctly resolved program, but a driver is the right
// place to contain them regardless.
func runStmts(it *interp.Interpreter, stmts []ast.Stmt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			diagColor.Fprintf(os.Stderr, "internal error: %v\n", r)
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	err = it.Run(stmts)
	if err != nil {
		if sig, ok := err.(*loxerr.Signal); ok {
			diagColor.Fprintln(os.Stderr, sig.Error())
		} else {
			diagColor.Fprintln(os.Stderr, err.Error())
		}
	}
	return err
}

func reportAll(errs []*loxerr.Signal) {
	for _, e := range errs {
		diagColor.Fprintln(os.Stderr, e.Error())
	}
}

// File reads and runs path once, returning the process exit code:
// 0 on success, 65 for scan/parse/resolve errors, 70 for runtime
// errors, 64 if the file can't be read (command-line misuse).
func File(path string, stdout io.Writer) int {
	source, err := os.ReadFile(path)
	if err != nil {
		diagColor.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return 64
	}
	it := interp.NewWithOutput(stdout)
	return Source(it, source)
}
