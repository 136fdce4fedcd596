// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package repl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	parenRegexp = regexp.MustCompile(`\$\([^\$]*\)`)
	wordRegexp  = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\b`)
)

// parenEval does $(...) evaluations over the integer equates.
func (r *Repl) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "narvie"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range r.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Non-integer equates may be register names.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrExpression(expr)
		return
	}

	value, ok = st_int.Int64()
	if !ok {
		err = ErrExpression(expr)
		return
	}

	return
}

// expand applies $(...) evaluations and .equ definitions to a line.
// A line that only defines an equate expands to nothing.
func (r *Repl) expand(line string) (expanded string, err error) {
	if r.Equate == nil {
		r.Equate = map[string]string{}
	}

	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, eval_err := r.parenEval(str[2 : len(str)-1])
		if eval_err != nil {
			if err == nil {
				err = eval_err
			}
			return str
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words := strings.Fields(line)
	if len(words) > 0 && words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := r.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		r.Equate[words[1]] = words[2]
		return
	}

	// Equates replace whole words of the arguments, never the mnemonic.
	expanded = strings.TrimSpace(line)
	split := strings.IndexFunc(expanded, unicode.IsSpace)
	if split < 0 {
		return
	}

	args := wordRegexp.ReplaceAllStringFunc(expanded[split:], func(word string) string {
		equate, ok := r.Equate[word]
		if ok {
			return equate
		}
		return word
	})

	expanded = expanded[:split] + args

	return
}
