// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package repl reads RISC-V instruction mnemonics a line at a time,
// shows their encoding, and evaluates them on a processor port.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/term"

	"github.com/ezrec/narvie/display"
	"github.com/ezrec/narvie/port"
	"github.com/ezrec/narvie/riscv"
)

// PROMPT is shown before each line read from a terminal.
const PROMPT = "> "

// Repl is the read-eval-print loop state.
type Repl struct {
	Verbose     bool              // If set, logs each parsed instruction.
	Port        io.ReadWriter     // Processor port. If nil, instructions are only assembled.
	HistoryFile string            // File that entered lines are appended to. May be empty.
	Equate      map[string]string // Map of equates.

	history []string
}

// Run reads lines from in until EOF or a quit command, and writes the
// results to out. Transport errors end the loop and are returned; all
// other errors are reported to out.
func (r *Repl) Run(in io.Reader, out io.Writer) (err error) {
	file, ok := in.(*os.File)
	if ok && term.IsTerminal(int(file.Fd())) {
		return r.runTerminal(file, out)
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		var quit bool
		quit, err = r.Line(scanner.Text(), out)
		if err != nil || quit {
			return
		}
	}

	err = scanner.Err()

	return
}

// runTerminal runs the loop with line editing on a raw mode terminal.
func (r *Repl) runTerminal(file *os.File, out io.Writer) (err error) {
	fd := int(file.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, state)

	terminal := r.newTerminal(file, out)

	for {
		var line string
		line, err = terminal.ReadLine()
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		var quit bool
		quit, err = r.Line(line, terminal)
		if err != nil || quit {
			return
		}
	}
}

// newTerminal creates a line editor over in and out, with mnemonic
// completion and the session history.
func (r *Repl) newTerminal(in io.Reader, out io.Writer) (terminal *term.Terminal) {
	screen := struct {
		io.Reader
		io.Writer
	}{in, out}

	terminal = term.NewTerminal(screen, PROMPT)
	terminal.AutoCompleteCallback = complete
	terminal.History = termHistory{r: r}

	return
}

// complete finishes a mnemonic on a tab, when the prefix is unique.
func complete(line string, pos int, key rune) (newLine string, newPos int, ok bool) {
	if key != '\t' || strings.ContainsAny(line[:pos], " \t") {
		return
	}

	var matches []string
	for name := range riscv.Mnemonics() {
		if strings.HasPrefix(name, line[:pos]) {
			matches = append(matches, name)
		}
	}

	if len(matches) != 1 {
		return
	}

	newLine = matches[0] + " " + line[pos:]
	newPos = len(matches[0]) + 1
	ok = true

	return
}

// Line handles a single line of input.
func (r *Repl) Line(line string, out io.Writer) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	r.remember(line)

	switch strings.ToLower(line) {
	case "quit", "exit":
		quit = true
		return
	case "help":
		r.help(out)
		return
	case "history":
		for n, entry := range r.history {
			fmt.Fprintf(out, "%5d  %v\n", n+1, entry)
		}
		return
	}

	expanded, err := r.expand(line)
	if err != nil {
		fmt.Fprintf(out, "%v\n  %v\n", f("Error parsing instruction mnemonic:"), err)
		err = nil
		return
	}
	if len(expanded) == 0 {
		return
	}

	inst, err := riscv.Parse(expanded)
	if err != nil {
		fmt.Fprintf(out, "%v\n  %v\n", f("Error parsing instruction mnemonic:"), err)
		err = nil
		return
	}

	if r.Verbose {
		log.Printf("repl: %v\n%v", expanded, spew.Sdump(inst))
	}

	err = display.Assembly(out, inst)
	if err != nil || r.Port == nil {
		return
	}

	regs, err := port.Eval(r.Port, inst.Uint32())
	if err != nil {
		var errWrite *port.ErrWrite
		if errors.As(err, &errWrite) {
			fmt.Fprintf(out, "%v\n  %v\n", f("Error writing to serial port:"), errWrite.Err)
		} else {
			fmt.Fprintf(out, "%v\n  %v\n", f("Error reading from serial port:"), err)
		}
		return
	}

	err = display.Registers(out, regs)

	return
}

// help lists the commands and mnemonics.
func (r *Repl) help(out io.Writer) {
	fmt.Fprintln(out, f("Enter an RV32I instruction, such as: addi a0, zero, 5"))
	fmt.Fprintln(out, f("Commands: help, history, quit, exit, .equ NAME VALUE, $(expression)"))
	fmt.Fprintln(out, f("Mnemonics:"))

	names := slices.Collect(riscv.Mnemonics())
	for chunk := range slices.Chunk(names, 8) {
		fmt.Fprintf(out, "  %v\n", strings.Join(chunk, " "))
	}
}
