// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package riscv

import (
	"fmt"
	"strconv"
)

const (
	GPR_COUNT = 32 // Number of general purpose registers.
)

// Role selects the instruction word field a register is placed into.
type Role interface {
	offset() uint32
}

// Rd is the destination register role, placed at bits 11:7.
type Rd struct{}

// Rs1 is the first source register role, placed at bits 19:15.
type Rs1 struct{}

// Rs2 is the second source register role, placed at bits 24:20.
type Rs2 struct{}

func (Rd) offset() uint32  { return 7 }
func (Rs1) offset() uint32 { return 15 }
func (Rs2) offset() uint32 { return 20 }

// Register is a general purpose register index, tagged with the role it
// was parsed for. A Register[Rd] can not be placed in the rs1 field.
type Register[R Role] struct {
	index uint32
}

// ZERO is the x0 register in any role.
func ZERO[R Role]() Register[R] {
	return Register[R]{}
}

// NewRegister creates a register from a numeric index.
func NewRegister[R Role](index uint32) (reg Register[R], err error) {
	if index >= GPR_COUNT {
		err = ErrOutsideRange{Actual: int64(index), Min: 0, Max: GPR_COUNT - 1}
		return
	}

	reg = Register[R]{index: index}

	return
}

// Index returns the register number, 0 to 31.
func (reg Register[R]) Index() uint32 {
	return reg.index
}

// String returns the register in its numeric xN form.
func (reg Register[R]) String() string {
	return fmt.Sprintf("x%d", reg.index)
}

// abiMap holds the exact ABI aliases.
var abiMap = map[string]uint32{
	"zero": 0,
	"ra":   1,
	"sp":   2,
	"gp":   3,
	"tp":   4,
}

// registerFamily is a prefix-coded register name, such as a0-a7.
type registerFamily struct {
	count uint64
	remap func(n uint32) uint32
}

var familyMap = map[byte]registerFamily{
	'x': {GPR_COUNT, func(n uint32) uint32 { return n }},
	'a': {8, func(n uint32) uint32 { return n + 10 }},
	's': {12, func(n uint32) uint32 {
		if n < 2 {
			return n + 8
		}
		return n + 1
	}},
	't': {8, func(n uint32) uint32 {
		if n < 3 {
			return n + 5
		}
		return n + 25
	}},
}

// resolveRegister maps a register token to its index.
func resolveRegister(token string) (index uint32, err error) {
	index, ok := abiMap[token]
	if ok {
		return
	}

	if len(token) < 2 {
		err = ErrRegisterLiteral(token)
		return
	}

	family, ok := familyMap[token[0]]
	if !ok {
		err = ErrRegisterLiteral(token)
		return
	}

	n, perr := strconv.ParseUint(token[1:], 10, 32)
	if perr != nil {
		err = ErrRegisterLiteral(token)
		return
	}

	if n >= family.count {
		err = ErrOutsideRange{Actual: int64(n), Min: 0, Max: int64(family.count - 1)}
		return
	}

	// t7 remaps past the last register.
	remapped := family.remap(uint32(n))
	if remapped >= GPR_COUNT {
		err = ErrOutsideRange{Actual: int64(remapped), Min: 0, Max: GPR_COUNT - 1}
		return
	}

	index = remapped

	return
}

// ParseRegister resolves an ABI (zero, ra, sp, gp, tp, aN, sN, tN) or
// numeric (xN) register name.
func ParseRegister[R Role](token string) (reg Register[R], err error) {
	index, err := resolveRegister(token)
	if err != nil {
		return
	}

	reg = Register[R]{index: index}

	return
}

// AbiName returns the calling convention name of a register index.
func AbiName(index uint32) string {
	switch {
	case index < 5:
		return [...]string{"zero", "ra", "sp", "gp", "tp"}[index]
	case index < 8:
		return fmt.Sprintf("t%d", index-5)
	case index < 10:
		return fmt.Sprintf("s%d", index-8)
	case index < 18:
		return fmt.Sprintf("a%d", index-10)
	case index < 28:
		return fmt.Sprintf("s%d", index-16)
	case index < GPR_COUNT:
		return fmt.Sprintf("t%d", index-25)
	}

	return fmt.Sprintf("x%d", index)
}
