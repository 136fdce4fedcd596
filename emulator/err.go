// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"github.com/ezrec/narvie/translate"
)

var f = translate.From

var (
	ErrReadOnlyCsr = translate.Error("CSR is read-only")

	errIllegal = translate.Error("illegal instruction")
)

// ErrIllegalInstruction is returned for a word that does not decode to an
// RV32I instruction.
type ErrIllegalInstruction uint32

func (err ErrIllegalInstruction) Error() string {
	return f("illegal instruction 0x%08X", uint32(err))
}

// ErrAddress is returned for a load or store outside of memory.
type ErrAddress struct {
	Address uint32
	Size    int
}

func (err ErrAddress) Error() string {
	return f("%d byte access at 0x%08X is outside of memory", err.Size, err.Address)
}

// ErrRuntime indicates the program counter of a runtime error.
type ErrRuntime struct {
	Pc  uint32
	Err error
}

func (err *ErrRuntime) Error() string {
	return f("pc 0x%08X %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
