// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package port

import (
	"encoding/binary"
	"io"

	"github.com/ezrec/narvie/riscv"
)

// RegisterFile is the general purpose register state sent back by the
// processor after each instruction.
type RegisterFile [riscv.GPR_COUNT]uint32

// Eval sends a single instruction word to the processor, and waits for
// the resulting register file.
func Eval(rw io.ReadWriter, word uint32) (regs RegisterFile, err error) {
	err = binary.Write(rw, binary.LittleEndian, word)
	if err != nil {
		err = &ErrWrite{Err: err}
		return
	}

	err = binary.Read(rw, binary.LittleEndian, &regs)
	if err != nil {
		err = &ErrRead{Err: err}
		return
	}

	return
}
