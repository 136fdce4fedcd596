// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
)

// LoadHistory reads previously entered lines from the history file.
// A missing history file is not an error.
func (r *Repl) LoadHistory() (err error) {
	if len(r.HistoryFile) == 0 {
		return
	}

	inf, err := os.Open(r.HistoryFile)
	if errors.Is(err, fs.ErrNotExist) {
		err = nil
		return
	}
	if err != nil {
		return
	}
	defer inf.Close()

	scanner := bufio.NewScanner(inf)
	for scanner.Scan() {
		if len(scanner.Text()) != 0 {
			r.history = append(r.history, scanner.Text())
		}
	}

	err = scanner.Err()

	return
}

// History returns the entered lines, oldest first.
func (r *Repl) History() []string {
	return slices.Clone(r.history)
}

// termHistory presents the history to a terminal, newest first.
// Lines are recorded by Line, so Add does nothing.
type termHistory struct {
	r *Repl
}

func (h termHistory) Add(string) {}

func (h termHistory) Len() int { return len(h.r.history) }

func (h termHistory) At(idx int) string {
	return h.r.history[len(h.r.history)-1-idx]
}

// remember adds a line to the history, and appends it to the history file.
func (r *Repl) remember(line string) {
	r.history = append(r.history, line)

	if len(r.HistoryFile) == 0 {
		return
	}

	err := appendLine(r.HistoryFile, line)
	if err != nil {
		log.Printf("%v: %v", r.HistoryFile, err)
	}
}

func appendLine(path string, line string) (err error) {
	err = os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return
	}

	ouf, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return
	}

	_, err = ouf.WriteString(line + "\n")
	if err != nil {
		ouf.Close()
		return
	}

	err = ouf.Close()

	return
}
