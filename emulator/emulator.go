// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"encoding/binary"
	"errors"
	"io"
	"log"
	"time"

	"github.com/ezrec/narvie/riscv"
)

const (
	MEMORY_SIZE = 64 * 1024 // Bytes of RAM.

	CSR_CYCLE    = 0xC00
	CSR_TIME     = 0xC01
	CSR_INSTRET  = 0xC02
	CSR_CYCLEH   = 0xC80
	CSR_TIMEH    = 0xC81
	CSR_INSTRETH = 0xC82
)

// Emulator is a simulated RV32I processor.
//
// It executes one instruction word at a time, and keeps its register file,
// memory and CSRs between words.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.

	Regs    [riscv.GPR_COUNT]uint32 // General purpose registers. x0 is always zero.
	Pc      uint32                  // Program counter.
	Memory  []byte                  // Little-endian RAM, starting at address 0.
	Cycle   uint64                  // Words executed, including failed ones.
	Instret uint64                  // Words retired.

	csr   map[uint32]uint32
	start time.Time
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Memory: make([]byte, MEMORY_SIZE),
	}

	emu.Reset()

	return
}

// Reset clears the registers, memory, and counters.
func (emu *Emulator) Reset() {
	emu.Regs = [riscv.GPR_COUNT]uint32{}
	emu.Pc = 0
	clear(emu.Memory)
	emu.Cycle = 0
	emu.Instret = 0
	emu.csr = map[uint32]uint32{}
	emu.start = time.Now()
}

// Registers returns a copy of the register file.
func (emu *Emulator) Registers() [riscv.GPR_COUNT]uint32 {
	return emu.Regs
}

// Serve executes instruction words read from rw, and replies to each with
// the register file, until rw reaches EOF.
//
// Each word is 4 bytes little-endian; each reply is 32 little-endian
// register values. Words that fail to execute leave the registers unchanged.
func (emu *Emulator) Serve(rw io.ReadWriter) (err error) {
	var word uint32
	for {
		err = binary.Read(rw, binary.LittleEndian, &word)
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		exec_err := emu.Execute(word)
		if exec_err != nil && emu.Verbose {
			log.Printf("emulator: %v", exec_err)
		}

		regs := emu.Registers()
		err = binary.Write(rw, binary.LittleEndian, regs[:])
		if err != nil {
			return
		}
	}
}

// Execute a single instruction word at the current program counter.
func (emu *Emulator) Execute(word uint32) (err error) {
	pc := emu.Pc
	defer func() {
		emu.Cycle++
		emu.Regs[0] = 0
		if err != nil {
			err = &ErrRuntime{Pc: pc, Err: err}
			return
		}
		emu.Instret++
	}()

	next := pc + 4

	rd := (word >> 7) & 0x1F
	rs1 := emu.Regs[(word>>15)&0x1F]
	rs2 := emu.Regs[(word>>20)&0x1F]
	funct3 := (word >> 12) & 0x7
	funct7 := word >> 25

	if emu.Verbose {
		log.Printf("emulator: 0x%08X: 0x%08X", pc, word)
	}

	switch riscv.Opcode(word & 0x7F) {
	case riscv.OPCODE_LUI:
		emu.Regs[rd] = immU(word)
	case riscv.OPCODE_AUIPC:
		emu.Regs[rd] = pc + immU(word)
	case riscv.OPCODE_JAL:
		emu.Regs[rd] = next
		next = pc + uint32(immJ(word))
	case riscv.OPCODE_JALR:
		if funct3 != 0 {
			err = ErrIllegalInstruction(word)
			return
		}
		target := (rs1 + uint32(immI(word))) &^ 1
		emu.Regs[rd] = next
		next = target
	case riscv.OPCODE_BRANCH:
		var taken bool
		taken, err = branch(word, funct3, rs1, rs2)
		if err != nil {
			return
		}
		if taken {
			next = pc + uint32(immB(word))
		}
	case riscv.OPCODE_LOAD:
		var value uint32
		value, err = emu.load(funct3, rs1+uint32(immI(word)))
		if err != nil {
			if errors.Is(err, errIllegal) {
				err = ErrIllegalInstruction(word)
			}
			return
		}
		emu.Regs[rd] = value
	case riscv.OPCODE_STORE:
		err = emu.store(funct3, rs1+uint32(immS(word)), rs2)
		if errors.Is(err, errIllegal) {
			err = ErrIllegalInstruction(word)
		}
		if err != nil {
			return
		}
	case riscv.OPCODE_OP_IMM:
		var value uint32
		value, err = aluImm(word, funct3, funct7, rs1)
		if err != nil {
			return
		}
		emu.Regs[rd] = value
	case riscv.OPCODE_OP:
		var value uint32
		value, err = alu(word, funct3, funct7, rs1, rs2)
		if err != nil {
			return
		}
		emu.Regs[rd] = value
	case riscv.OPCODE_MISC_MEM:
		// fence and fence.i order nothing on a single hart.
		if funct3 > 1 {
			err = ErrIllegalInstruction(word)
			return
		}
	case riscv.OPCODE_SYSTEM:
		err = emu.system(word, funct3, rd)
		if err != nil {
			return
		}
	default:
		err = ErrIllegalInstruction(word)
		return
	}

	emu.Pc = next

	return
}

func immI(word uint32) int32 {
	return int32(word) >> 20
}

func immS(word uint32) int32 {
	return (int32(word)>>25)<<5 | int32((word>>7)&0x1F)
}

func immB(word uint32) int32 {
	return (int32(word)>>31)<<12 |
		int32((word>>7)&0x1)<<11 |
		int32((word>>25)&0x3F)<<5 |
		int32((word>>8)&0xF)<<1
}

func immU(word uint32) uint32 {
	return word & 0xFFFFF000
}

func immJ(word uint32) int32 {
	return (int32(word)>>31)<<20 |
		int32((word>>12)&0xFF)<<12 |
		int32((word>>20)&0x1)<<11 |
		int32((word>>21)&0x3FF)<<1
}

func branch(word uint32, funct3 uint32, rs1, rs2 uint32) (taken bool, err error) {
	switch funct3 {
	case 0b000:
		taken = rs1 == rs2
	case 0b001:
		taken = rs1 != rs2
	case 0b100:
		taken = int32(rs1) < int32(rs2)
	case 0b101:
		taken = int32(rs1) >= int32(rs2)
	case 0b110:
		taken = rs1 < rs2
	case 0b111:
		taken = rs1 >= rs2
	default:
		err = ErrIllegalInstruction(word)
	}
	return
}

func aluImm(word uint32, funct3, funct7 uint32, rs1 uint32) (value uint32, err error) {
	imm := uint32(immI(word))
	shamt := (word >> 20) & 0x1F

	switch funct3 {
	case 0b000:
		value = rs1 + imm
	case 0b010:
		value = boolWord(int32(rs1) < int32(imm))
	case 0b011:
		value = boolWord(rs1 < imm)
	case 0b100:
		value = rs1 ^ imm
	case 0b110:
		value = rs1 | imm
	case 0b111:
		value = rs1 & imm
	case 0b001:
		if funct7 != 0 {
			err = ErrIllegalInstruction(word)
			return
		}
		value = rs1 << shamt
	case 0b101:
		switch funct7 {
		case 0b0000000:
			value = rs1 >> shamt
		case 0b0100000:
			value = uint32(int32(rs1) >> shamt)
		default:
			err = ErrIllegalInstruction(word)
		}
	}
	return
}

func alu(word uint32, funct3, funct7 uint32, rs1, rs2 uint32) (value uint32, err error) {
	shamt := rs2 & 0x1F

	switch {
	case funct7 == 0b0000000 && funct3 == 0b000:
		value = rs1 + rs2
	case funct7 == 0b0100000 && funct3 == 0b000:
		value = rs1 - rs2
	case funct7 == 0b0000000 && funct3 == 0b001:
		value = rs1 << shamt
	case funct7 == 0b0000000 && funct3 == 0b010:
		value = boolWord(int32(rs1) < int32(rs2))
	case funct7 == 0b0000000 && funct3 == 0b011:
		value = boolWord(rs1 < rs2)
	case funct7 == 0b0000000 && funct3 == 0b100:
		value = rs1 ^ rs2
	case funct7 == 0b0000000 && funct3 == 0b101:
		value = rs1 >> shamt
	case funct7 == 0b0100000 && funct3 == 0b101:
		value = uint32(int32(rs1) >> shamt)
	case funct7 == 0b0000000 && funct3 == 0b110:
		value = rs1 | rs2
	case funct7 == 0b0000000 && funct3 == 0b111:
		value = rs1 & rs2
	default:
		err = ErrIllegalInstruction(word)
	}
	return
}

func boolWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// access returns the memory slice for a size byte access at address.
func (emu *Emulator) access(address uint32, size int) (mem []byte, err error) {
	if uint64(address)+uint64(size) > uint64(len(emu.Memory)) {
		err = ErrAddress{Address: address, Size: size}
		return
	}
	mem = emu.Memory[address : address+uint32(size)]
	return
}

func (emu *Emulator) load(funct3 uint32, address uint32) (value uint32, err error) {
	var mem []byte
	switch funct3 {
	case 0b000, 0b100:
		mem, err = emu.access(address, 1)
		if err != nil {
			return
		}
		value = uint32(mem[0])
		if funct3 == 0b000 {
			value = uint32(int32(int8(mem[0])))
		}
	case 0b001, 0b101:
		mem, err = emu.access(address, 2)
		if err != nil {
			return
		}
		half := binary.LittleEndian.Uint16(mem)
		value = uint32(half)
		if funct3 == 0b001 {
			value = uint32(int32(int16(half)))
		}
	case 0b010:
		mem, err = emu.access(address, 4)
		if err != nil {
			return
		}
		value = binary.LittleEndian.Uint32(mem)
	default:
		err = errIllegal
	}
	return
}

func (emu *Emulator) store(funct3 uint32, address uint32, value uint32) (err error) {
	var mem []byte
	switch funct3 {
	case 0b000:
		mem, err = emu.access(address, 1)
		if err != nil {
			return
		}
		mem[0] = byte(value)
	case 0b001:
		mem, err = emu.access(address, 2)
		if err != nil {
			return
		}
		binary.LittleEndian.PutUint16(mem, uint16(value))
	case 0b010:
		mem, err = emu.access(address, 4)
		if err != nil {
			return
		}
		binary.LittleEndian.PutUint32(mem, value)
	default:
		err = errIllegal
	}
	return
}

func (emu *Emulator) system(word uint32, funct3 uint32, rd uint32) (err error) {
	csr := word >> 20
	src := (word >> 15) & 0x1F

	if funct3 == 0b000 {
		// ecall and ebreak have no handler to trap to.
		if rd != 0 || src != 0 || csr > 1 {
			err = ErrIllegalInstruction(word)
		}
		return
	}

	operand := src
	if funct3&0b100 == 0 {
		operand = emu.Regs[src]
	}

	old, err := emu.ReadCsr(csr)
	if err != nil {
		return
	}

	value, write := old, false
	switch funct3 & 0b011 {
	case 0b01:
		value, write = operand, true
	case 0b10:
		value, write = old|operand, src != 0
	case 0b11:
		value, write = old&^operand, src != 0
	default:
		err = ErrIllegalInstruction(word)
		return
	}

	if write {
		err = emu.WriteCsr(csr, value)
		if err != nil {
			return
		}
	}

	emu.Regs[rd] = old

	return
}

// ReadCsr returns the value of a control and status register.
func (emu *Emulator) ReadCsr(csr uint32) (value uint32, err error) {
	elapsed := uint64(time.Since(emu.start).Microseconds())

	switch csr {
	case CSR_CYCLE:
		value = uint32(emu.Cycle)
	case CSR_CYCLEH:
		value = uint32(emu.Cycle >> 32)
	case CSR_TIME:
		value = uint32(elapsed)
	case CSR_TIMEH:
		value = uint32(elapsed >> 32)
	case CSR_INSTRET:
		value = uint32(emu.Instret)
	case CSR_INSTRETH:
		value = uint32(emu.Instret >> 32)
	default:
		value = emu.csr[csr]
	}

	return
}

// WriteCsr sets the value of a control and status register.
// CSRs 0xC00 to 0xFFF are read-only.
func (emu *Emulator) WriteCsr(csr uint32, value uint32) (err error) {
	if csr >= 0xC00 {
		err = ErrReadOnlyCsr
		return
	}

	emu.csr[csr] = value

	return
}
