// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package repl

import (
	"github.com/ezrec/narvie/translate"
)

var f = translate.From

var (
	ErrEquateSyntax    = translate.Error(".equ syntax")
	ErrEquateDuplicate = translate.Error(".equ duplicated")
)

// ErrExpression is returned when a $(...) expression does not evaluate
// to an integer.
type ErrExpression string

func (err ErrExpression) Error() string {
	return f("expression $(%v) is not an integer", string(err))
}
