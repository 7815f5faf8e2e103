package run

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sdecook/glox/interp"
)

// REPL implements spec.md §6's interactive mode: prompt "> ", one line
// per turn, blank line exits, each line scanned/parsed/resolved/executed
// against a persistent interpreter so variables and functions survive
// across lines — errors are reported but the loop continues.
//
// Line editing is grounded on akashmaji946-go-mix/repl/repl.go's use of
// github.com/chzyer/readline for history and cursor movement; when
// readline can't attach to a real terminal (e.g. piped stdin in tests),
// it falls back to a bare bufio.Scanner loop so both interactive and
// scripted use work.
func REPL(stdin io.Reader, stdout io.Writer) {
	it := interp.NewWithOutput(stdout)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		Stdin:       io.NopCloser(stdin),
		Stdout:      stdout,
		HistoryFile: "",
	})
	if err != nil {
		replFallback(stdin, stdout, it)
		return
	}
	defer rl.Close()

	for {
		line, rerr := rl.Readline()
		if rerr != nil { // EOF (Ctrl+D) or read error
			return
		}
		if strings.TrimSpace(line) == "" {
			return
		}
		Source(it, []byte(line))
	}
}

// replFallback is used when readline cannot take over the terminal
// (notably: stdin is not a TTY, as in tests and piped invocations).
func replFallback(stdin io.Reader, stdout io.Writer, it *interp.Interpreter) {
	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			return
		}
		Source(it, []byte(line))
	}
}

