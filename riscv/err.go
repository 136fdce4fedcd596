// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package riscv

import (
	"strings"

	"github.com/ezrec/narvie/translate"
)

var f = translate.From

var (
	// Immediate constraint errors
	ErrEvenNumberRequired = translate.Error("even number required")

	// Memory operand errors
	ErrMissingCloseParenthesis   = translate.Error("missing close parenthesis")
	ErrTextAfterCloseParenthesis = translate.Error("text after close parenthesis")
)

// ErrInstructionName is returned for an unknown mnemonic.
type ErrInstructionName string

func (err ErrInstructionName) Error() string {
	return f("'%v' is not an instruction", string(err))
}

// ErrRegisterLiteral is returned for a token that does not name a register.
type ErrRegisterLiteral string

func (err ErrRegisterLiteral) Error() string {
	return f("'%v' is not a register", string(err))
}

// ErrLiteral is returned for a token that is not a numeric literal.
type ErrLiteral string

func (err ErrLiteral) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrFenceArgument is returned for a fence operand that is not an ordered
// subset of "iorw".
type ErrFenceArgument string

func (err ErrFenceArgument) Error() string {
	return f("'%v' is not an ordered subset of 'iorw'", string(err))
}

// ErrOutsideRange is returned when a register index or immediate value
// falls outside the bounds of its kind.
type ErrOutsideRange struct {
	Actual int64
	Min    int64
	Max    int64
}

func (err ErrOutsideRange) Error() string {
	return f("%v is outside the range [%v, %v]", err.Actual, err.Min, err.Max)
}

// ErrArgumentCount is returned when an instruction is given the wrong
// number of arguments.
type ErrArgumentCount struct {
	Actual   int
	Expected []int
}

func (err ErrArgumentCount) Error() string {
	counts := make([]string, len(err.Expected))
	for n, count := range err.Expected {
		counts[n] = f("%d", count)
	}
	return f("%d arguments given, expected %v", err.Actual, strings.Join(counts, f(" or ")))
}

// ErrArgument indicates which argument of an instruction failed to parse.
type ErrArgument struct {
	Index int
	Err   error
}

func (err ErrArgument) Error() string {
	return f("argument %d: %v", err.Index, err.Err)
}

func (err ErrArgument) Unwrap() error {
	return err.Err
}

// ErrPlacement is the panic value raised when a field does not fit its
// mask. It indicates a bug in the encoding tables, never bad input.
type ErrPlacement struct {
	Bits uint64
	Mask uint32
}

func (err ErrPlacement) Error() string {
	return f("placed bits 0x%X do not fit within the mask 0x%08X", err.Bits, err.Mask)
}
