// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package riscv

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the constraint set of an immediate operand.
type Kind interface {
	bounds() (min, max int32, even bool)
	special(token string) (value int32, ok bool)
	help(value int32) string
	placeUnchecked(value int32) uint64
	mask() uint32
}

// Immediate kinds.
type (
	ImmU       struct{} // 20-bit upper immediate of lui and auipc.
	ImmJ       struct{} // 21-bit signed, even, jal offset.
	ImmI       struct{} // 12-bit signed immediate.
	ImmS       struct{} // 12-bit signed store offset.
	ImmB       struct{} // 13-bit signed, even, branch offset.
	ImmShift   struct{} // 5-bit shift amount.
	ImmCsr     struct{} // 12-bit CSR specifier.
	ImmCsrUimm struct{} // 5-bit CSR immediate.
)

func (ImmU) bounds() (int32, int32, bool)       { return 0, (1 << 20) - 1, false }
func (ImmJ) bounds() (int32, int32, bool)       { return -(1 << 20), (1 << 20) - 1, true }
func (ImmI) bounds() (int32, int32, bool)       { return -(1 << 11), (1 << 11) - 1, false }
func (ImmS) bounds() (int32, int32, bool)       { return -(1 << 11), (1 << 11) - 1, false }
func (ImmB) bounds() (int32, int32, bool)       { return -(1 << 12), (1 << 12) - 1, true }
func (ImmShift) bounds() (int32, int32, bool)   { return 0, 31, false }
func (ImmCsr) bounds() (int32, int32, bool)     { return 0, (1 << 12) - 1, false }
func (ImmCsrUimm) bounds() (int32, int32, bool) { return 0, 31, false }

func (ImmU) special(string) (int32, bool)       { return 0, false }
func (ImmJ) special(string) (int32, bool)       { return 0, false }
func (ImmI) special(string) (int32, bool)       { return 0, false }
func (ImmS) special(string) (int32, bool)       { return 0, false }
func (ImmB) special(string) (int32, bool)       { return 0, false }
func (ImmShift) special(string) (int32, bool)   { return 0, false }
func (ImmCsrUimm) special(string) (int32, bool) { return 0, false }

// csrMap holds the named CSR specifiers.
var csrMap = map[string]int32{
	"cycle":    0xC00,
	"time":     0xC01,
	"instret":  0xC02,
	"cycleh":   0xC80,
	"timeh":    0xC81,
	"instreth": 0xC82,
}

func (ImmCsr) special(token string) (value int32, ok bool) {
	value, ok = csrMap[token]
	return
}

func decimal(value int32) string {
	return strconv.FormatInt(int64(value), 10)
}

func (ImmU) help(value int32) string       { return fmt.Sprintf("0x%X", value) }
func (ImmJ) help(value int32) string       { return decimal(value) }
func (ImmI) help(value int32) string       { return decimal(value) }
func (ImmS) help(value int32) string       { return decimal(value) }
func (ImmB) help(value int32) string       { return decimal(value) }
func (ImmShift) help(value int32) string   { return decimal(value) }
func (ImmCsrUimm) help(value int32) string { return decimal(value) }

func (ImmCsr) help(value int32) string {
	for name, csr := range csrMap {
		if csr == value {
			return name
		}
	}
	return fmt.Sprintf("0x%X", value)
}

// Immediate is a constant operand that has been checked against the
// bounds of its kind.
type Immediate[K Kind] struct {
	value int32
}

// Bounds returns the minimum, maximum, and even-only flag of a kind.
func Bounds[K Kind]() (min, max int32, even bool) {
	var kind K
	return kind.bounds()
}

// NewImmediate checks a value against the constraints of its kind.
func NewImmediate[K Kind](value int32) (imm Immediate[K], err error) {
	min, max, even := Bounds[K]()

	switch {
	case value > max, value < min:
		err = ErrOutsideRange{Actual: int64(value), Min: int64(min), Max: int64(max)}
		return
	case even && (value&1) != 0:
		err = ErrEvenNumberRequired
		return
	}

	imm = Immediate[K]{value: value}

	return
}

// ParseImmediate parses a literal, or a kind specific name, into an
// immediate of that kind.
func ParseImmediate[K Kind](token string) (imm Immediate[K], err error) {
	var kind K

	value, ok := kind.special(token)
	if !ok {
		value, err = parseLiteral(token)
		if err != nil {
			return
		}
	}

	return NewImmediate[K](value)
}

// Value returns the signed value of the immediate.
func (imm Immediate[K]) Value() int32 {
	return imm.value
}

// String returns the immediate as it would be written in assembly.
func (imm Immediate[K]) String() string {
	var kind K
	return kind.help(imm.value)
}

// parseLiteral parses an optionally negated hexadecimal (0x), binary (0b),
// or decimal literal.
func parseLiteral(token string) (value int32, err error) {
	negative := false
	numeric := token
	if strings.HasPrefix(numeric, "-") {
		negative = true
		numeric = numeric[1:]
	}

	radix := 10
	switch {
	case strings.HasPrefix(numeric, "0x"):
		radix = 16
		numeric = numeric[2:]
	case strings.HasPrefix(numeric, "0b"):
		radix = 2
		numeric = numeric[2:]
	case len(numeric) > 1 && numeric[0] == '0':
		// Only "0" itself may start with a zero.
		err = ErrLiteral(token)
		return
	}

	// Signs are only accepted before the radix prefix.
	if len(numeric) == 0 || numeric[0] == '+' || numeric[0] == '-' {
		err = ErrLiteral(token)
		return
	}

	v64, perr := strconv.ParseInt(numeric, radix, 64)
	if perr != nil {
		err = ErrLiteral(token)
		return
	}

	if negative {
		v64 = -v64
	}

	if v64 > math.MaxInt32 || v64 < math.MinInt32 {
		err = ErrLiteral(token)
		return
	}

	value = int32(v64)

	return
}

// parseMemory parses an "offset(reg)" memory operand. A bare register has
// a zero offset, as does an empty offset.
func parseMemory[K Kind](token string) (base Register[Rs1], offset Immediate[K], err error) {
	open := strings.IndexByte(token, '(')
	if open < 0 {
		base, err = ParseRegister[Rs1](token)
		return
	}

	end := strings.IndexByte(token, ')')
	if end < 0 {
		err = ErrMissingCloseParenthesis
		return
	}

	if end != len(token)-1 || end < open {
		err = ErrTextAfterCloseParenthesis
		return
	}

	base, err = ParseRegister[Rs1](strings.TrimSpace(token[open+1 : end]))
	if err != nil {
		return
	}

	text := strings.TrimSpace(token[:open])
	if len(text) == 0 {
		return
	}

	offset, err = ParseImmediate[K](text)

	return
}
