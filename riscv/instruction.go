// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package riscv

import (
	"iter"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/ezrec/narvie/internal"
)

// Major opcodes.
const (
	OPCODE_LUI      = Opcode(0b0110111)
	OPCODE_AUIPC    = Opcode(0b0010111)
	OPCODE_JAL      = Opcode(0b1101111)
	OPCODE_JALR     = Opcode(0b1100111)
	OPCODE_BRANCH   = Opcode(0b1100011)
	OPCODE_LOAD     = Opcode(0b0000011)
	OPCODE_STORE    = Opcode(0b0100011)
	OPCODE_OP_IMM   = Opcode(0b0010011)
	OPCODE_OP       = Opcode(0b0110011)
	OPCODE_MISC_MEM = Opcode(0b0001111)
	OPCODE_SYSTEM   = Opcode(0b1110011)
)

// Op is an RV32I operation.
type Op int

const (
	OP_LUI = Op(iota)
	OP_AUIPC
	OP_JAL
	OP_JALR
	OP_BEQ
	OP_BNE
	OP_BLT
	OP_BGE
	OP_BLTU
	OP_BGEU
	OP_LB
	OP_LH
	OP_LW
	OP_LBU
	OP_LHU
	OP_SB
	OP_SH
	OP_SW
	OP_ADDI
	OP_SLTI
	OP_SLTIU
	OP_XORI
	OP_ORI
	OP_ANDI
	OP_SLLI
	OP_SRLI
	OP_SRAI
	OP_ADD
	OP_SUB
	OP_SLL
	OP_SLT
	OP_SLTU
	OP_XOR
	OP_SRL
	OP_SRA
	OP_OR
	OP_AND
	OP_FENCE
	OP_FENCE_I
	OP_ECALL
	OP_EBREAK
	OP_CSRRW
	OP_CSRRS
	OP_CSRRC
	OP_CSRRWI
	OP_CSRRSI
	OP_CSRRCI
	OP_COUNT // Number of operations.
)

// parseFunc builds the operand tuple of an operation from its arguments.
type parseFunc func(info *OpInfo, args []string) (Args, error)

// OpInfo holds the fixed encoding constants of an operation.
type OpInfo struct {
	Name   string // Mnemonic.
	Format Format // Encoding layout.
	Opcode Opcode
	Funct3 Funct3
	Funct7 Funct7
	Imm    int32 // Fixed immediate of argument-less system instructions.

	parse parseFunc
}

var opTable = [OP_COUNT]OpInfo{
	OP_LUI:   {Name: "lui", Format: FORMAT_U, Opcode: OPCODE_LUI, parse: parseU},
	OP_AUIPC: {Name: "auipc", Format: FORMAT_U, Opcode: OPCODE_AUIPC, parse: parseU},
	OP_JAL:   {Name: "jal", Format: FORMAT_J, Opcode: OPCODE_JAL, parse: parseJ},
	OP_JALR:  {Name: "jalr", Format: FORMAT_I, Opcode: OPCODE_JALR, Funct3: 0b000, parse: parseI},

	OP_BEQ:  {Name: "beq", Format: FORMAT_B, Opcode: OPCODE_BRANCH, Funct3: 0b000, parse: parseB},
	OP_BNE:  {Name: "bne", Format: FORMAT_B, Opcode: OPCODE_BRANCH, Funct3: 0b001, parse: parseB},
	OP_BLT:  {Name: "blt", Format: FORMAT_B, Opcode: OPCODE_BRANCH, Funct3: 0b100, parse: parseB},
	OP_BGE:  {Name: "bge", Format: FORMAT_B, Opcode: OPCODE_BRANCH, Funct3: 0b101, parse: parseB},
	OP_BLTU: {Name: "bltu", Format: FORMAT_B, Opcode: OPCODE_BRANCH, Funct3: 0b110, parse: parseB},
	OP_BGEU: {Name: "bgeu", Format: FORMAT_B, Opcode: OPCODE_BRANCH, Funct3: 0b111, parse: parseB},

	OP_LB:  {Name: "lb", Format: FORMAT_I, Opcode: OPCODE_LOAD, Funct3: 0b000, parse: parseLoad},
	OP_LH:  {Name: "lh", Format: FORMAT_I, Opcode: OPCODE_LOAD, Funct3: 0b001, parse: parseLoad},
	OP_LW:  {Name: "lw", Format: FORMAT_I, Opcode: OPCODE_LOAD, Funct3: 0b010, parse: parseLoad},
	OP_LBU: {Name: "lbu", Format: FORMAT_I, Opcode: OPCODE_LOAD, Funct3: 0b100, parse: parseLoad},
	OP_LHU: {Name: "lhu", Format: FORMAT_I, Opcode: OPCODE_LOAD, Funct3: 0b101, parse: parseLoad},

	OP_SB: {Name: "sb", Format: FORMAT_S, Opcode: OPCODE_STORE, Funct3: 0b000, parse: parseS},
	OP_SH: {Name: "sh", Format: FORMAT_S, Opcode: OPCODE_STORE, Funct3: 0b001, parse: parseS},
	OP_SW: {Name: "sw", Format: FORMAT_S, Opcode: OPCODE_STORE, Funct3: 0b010, parse: parseS},

	OP_ADDI:  {Name: "addi", Format: FORMAT_I, Opcode: OPCODE_OP_IMM, Funct3: 0b000, parse: parseI},
	OP_SLTI:  {Name: "slti", Format: FORMAT_I, Opcode: OPCODE_OP_IMM, Funct3: 0b010, parse: parseI},
	OP_SLTIU: {Name: "sltiu", Format: FORMAT_I, Opcode: OPCODE_OP_IMM, Funct3: 0b011, parse: parseI},
	OP_XORI:  {Name: "xori", Format: FORMAT_I, Opcode: OPCODE_OP_IMM, Funct3: 0b100, parse: parseI},
	OP_ORI:   {Name: "ori", Format: FORMAT_I, Opcode: OPCODE_OP_IMM, Funct3: 0b110, parse: parseI},
	OP_ANDI:  {Name: "andi", Format: FORMAT_I, Opcode: OPCODE_OP_IMM, Funct3: 0b111, parse: parseI},

	OP_SLLI: {Name: "slli", Format: FORMAT_SHIFT, Opcode: OPCODE_OP_IMM, Funct3: 0b001, Funct7: 0b0000000, parse: parseShift},
	OP_SRLI: {Name: "srli", Format: FORMAT_SHIFT, Opcode: OPCODE_OP_IMM, Funct3: 0b101, Funct7: 0b0000000, parse: parseShift},
	OP_SRAI: {Name: "srai", Format: FORMAT_SHIFT, Opcode: OPCODE_OP_IMM, Funct3: 0b101, Funct7: 0b0100000, parse: parseShift},

	OP_ADD:  {Name: "add", Format: FORMAT_R, Opcode: OPCODE_OP, Funct3: 0b000, Funct7: 0b0000000, parse: parseR},
	OP_SUB:  {Name: "sub", Format: FORMAT_R, Opcode: OPCODE_OP, Funct3: 0b000, Funct7: 0b0100000, parse: parseR},
	OP_SLL:  {Name: "sll", Format: FORMAT_R, Opcode: OPCODE_OP, Funct3: 0b001, Funct7: 0b0000000, parse: parseR},
	OP_SLT:  {Name: "slt", Format: FORMAT_R, Opcode: OPCODE_OP, Funct3: 0b010, Funct7: 0b0000000, parse: parseR},
	OP_SLTU: {Name: "sltu", Format: FORMAT_R, Opcode: OPCODE_OP, Funct3: 0b011, Funct7: 0b0000000, parse: parseR},
	OP_XOR:  {Name: "xor", Format: FORMAT_R, Opcode: OPCODE_OP, Funct3: 0b100, Funct7: 0b0000000, parse: parseR},
	OP_SRL:  {Name: "srl", Format: FORMAT_R, Opcode: OPCODE_OP, Funct3: 0b101, Funct7: 0b0000000, parse: parseR},
	OP_SRA:  {Name: "sra", Format: FORMAT_R, Opcode: OPCODE_OP, Funct3: 0b101, Funct7: 0b0100000, parse: parseR},
	OP_OR:   {Name: "or", Format: FORMAT_R, Opcode: OPCODE_OP, Funct3: 0b110, Funct7: 0b0000000, parse: parseR},
	OP_AND:  {Name: "and", Format: FORMAT_R, Opcode: OPCODE_OP, Funct3: 0b111, Funct7: 0b0000000, parse: parseR},

	OP_FENCE:   {Name: "fence", Format: FORMAT_FENCE, Opcode: OPCODE_MISC_MEM, Funct3: 0b000, parse: parseFenceArgs},
	OP_FENCE_I: {Name: "fence.i", Format: FORMAT_I, Opcode: OPCODE_MISC_MEM, Funct3: 0b001, parse: parseSystem},
	OP_ECALL:   {Name: "ecall", Format: FORMAT_I, Opcode: OPCODE_SYSTEM, Funct3: 0b000, Imm: 0, parse: parseSystem},
	OP_EBREAK:  {Name: "ebreak", Format: FORMAT_I, Opcode: OPCODE_SYSTEM, Funct3: 0b000, Imm: 1, parse: parseSystem},

	OP_CSRRW:  {Name: "csrrw", Format: FORMAT_I_CSR, Opcode: OPCODE_SYSTEM, Funct3: 0b001, parse: parseCsr},
	OP_CSRRS:  {Name: "csrrs", Format: FORMAT_I_CSR, Opcode: OPCODE_SYSTEM, Funct3: 0b010, parse: parseCsr},
	OP_CSRRC:  {Name: "csrrc", Format: FORMAT_I_CSR, Opcode: OPCODE_SYSTEM, Funct3: 0b011, parse: parseCsr},
	OP_CSRRWI: {Name: "csrrwi", Format: FORMAT_I_CSRI, Opcode: OPCODE_SYSTEM, Funct3: 0b101, parse: parseCsri},
	OP_CSRRSI: {Name: "csrrsi", Format: FORMAT_I_CSRI, Opcode: OPCODE_SYSTEM, Funct3: 0b110, parse: parseCsri},
	OP_CSRRCI: {Name: "csrrci", Format: FORMAT_I_CSRI, Opcode: OPCODE_SYSTEM, Funct3: 0b111, parse: parseCsri},
}

// mnemonic is an entry of the mnemonic dispatch map.
type mnemonic struct {
	op    Op
	parse parseFunc
}

// pseudoMap holds the pseudo-instructions, which expand to a real operation.
var pseudoMap = map[string]mnemonic{
	"nop": {OP_ADDI, parseNop},
	"li":  {OP_ADDI, parseLi},
}

var mnemonicMap = map[string]mnemonic{}

func init() {
	for op := range OP_COUNT {
		info := &opTable[op]
		mnemonicMap[info.Name] = mnemonic{op: op, parse: info.parse}
	}
	maps.Copy(mnemonicMap, pseudoMap)
}

// Info returns the encoding constants of an operation.
func (op Op) Info() *OpInfo {
	return &opTable[op]
}

// String returns the mnemonic of the operation.
func (op Op) String() string {
	if op < 0 || op >= OP_COUNT {
		return f("Op(%d)", int(op))
	}
	return opTable[op].Name
}

// Mnemonics iterates over all accepted mnemonics, operations first in
// alphabetical order followed by the pseudo-instructions.
func Mnemonics() iter.Seq[string] {
	var names []string
	for op := range OP_COUNT {
		names = append(names, opTable[op].Name)
	}
	slices.Sort(names)

	return internal.IterSeqConcat(slices.Values(names), slices.Values(slices.Sorted(maps.Keys(pseudoMap))))
}

// Instruction is a parsed operation together with its checked operands.
type Instruction struct {
	Op   Op
	Args Args
}

// Parse parses a line of the form "mnemonic arg, arg, ...".
// The mnemonic is matched case-insensitively.
func Parse(line string) (inst Instruction, err error) {
	line = strings.TrimSpace(line)

	name, rest := line, ""
	split := strings.IndexFunc(line, unicode.IsSpace)
	if split >= 0 {
		name, rest = line[:split], strings.TrimSpace(line[split:])
	}
	name = strings.ToLower(name)

	var args []string
	if len(rest) > 0 {
		args = strings.Split(rest, ",")
		for n := range args {
			args[n] = strings.TrimSpace(args[n])
		}
	}

	mn, ok := mnemonicMap[name]
	if !ok {
		err = ErrInstructionName(name)
		return
	}

	operands, err := mn.parse(mn.op.Info(), args)
	if err != nil {
		return
	}

	inst = Instruction{Op: mn.op, Args: operands}

	return
}

// Name returns the mnemonic of the instruction.
func (inst Instruction) Name() string {
	return inst.Op.String()
}

// Format returns the encoding layout of the instruction.
func (inst Instruction) Format() Format {
	return inst.Op.Info().Format
}

// Uint32 returns the encoded instruction word.
func (inst Instruction) Uint32() uint32 {
	return inst.Args.encode(inst.Op.Info())
}

// String returns the instruction in a form accepted by Parse.
func (inst Instruction) String() string {
	args := inst.Args.String()
	if len(args) == 0 {
		return inst.Name()
	}
	return inst.Name() + " " + args
}

func parseU(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 2); err != nil {
		return
	}
	rd, err := argRegister[Rd](args, 0)
	if err != nil {
		return
	}
	imm, err := argImmediate[ImmU](args, 1)
	if err != nil {
		return
	}
	operands = U{Rd: rd, Imm: imm}
	return
}

func parseJ(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 2); err != nil {
		return
	}
	rd, err := argRegister[Rd](args, 0)
	if err != nil {
		return
	}
	imm, err := argImmediate[ImmJ](args, 1)
	if err != nil {
		return
	}
	operands = J{Rd: rd, Imm: imm}
	return
}

func parseI(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 3); err != nil {
		return
	}
	rd, err := argRegister[Rd](args, 0)
	if err != nil {
		return
	}
	rs1, err := argRegister[Rs1](args, 1)
	if err != nil {
		return
	}
	imm, err := argImmediate[ImmI](args, 2)
	if err != nil {
		return
	}
	operands = I{Rd: rd, Rs1: rs1, Imm: imm}
	return
}

func parseLoad(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 2); err != nil {
		return
	}
	rd, err := argRegister[Rd](args, 0)
	if err != nil {
		return
	}
	rs1, imm, err := argMemory[ImmI](args, 1)
	if err != nil {
		return
	}
	operands = Load{Rd: rd, Rs1: rs1, Imm: imm}
	return
}

func parseS(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 2); err != nil {
		return
	}
	rs2, err := argRegister[Rs2](args, 0)
	if err != nil {
		return
	}
	rs1, imm, err := argMemory[ImmS](args, 1)
	if err != nil {
		return
	}
	operands = S{Rs1: rs1, Rs2: rs2, Imm: imm}
	return
}

func parseB(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 3); err != nil {
		return
	}
	rs1, err := argRegister[Rs1](args, 0)
	if err != nil {
		return
	}
	rs2, err := argRegister[Rs2](args, 1)
	if err != nil {
		return
	}
	imm, err := argImmediate[ImmB](args, 2)
	if err != nil {
		return
	}
	operands = B{Rs1: rs1, Rs2: rs2, Imm: imm}
	return
}

func parseR(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 3); err != nil {
		return
	}
	rd, err := argRegister[Rd](args, 0)
	if err != nil {
		return
	}
	rs1, err := argRegister[Rs1](args, 1)
	if err != nil {
		return
	}
	rs2, err := argRegister[Rs2](args, 2)
	if err != nil {
		return
	}
	operands = R{Rd: rd, Rs1: rs1, Rs2: rs2}
	return
}

func parseShift(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 3); err != nil {
		return
	}
	rd, err := argRegister[Rd](args, 0)
	if err != nil {
		return
	}
	rs1, err := argRegister[Rs1](args, 1)
	if err != nil {
		return
	}
	shamt, err := argImmediate[ImmShift](args, 2)
	if err != nil {
		return
	}
	operands = Shift{Rd: rd, Rs1: rs1, Shamt: shamt}
	return
}

func parseFenceArgs(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 0, 2); err != nil {
		return
	}

	all := uint32(FENCE_I | FENCE_O | FENCE_R | FENCE_W)
	if len(args) == 0 {
		operands = Fence{Pred: FenceArg[Pred](all), Succ: FenceArg[Succ](all)}
		return
	}

	var bits [2]uint32
	for n := range bits {
		bits[n], err = parseFence(args[n])
		if err != nil {
			err = ErrArgument{Index: n, Err: err}
			return
		}
	}

	operands = Fence{Pred: FenceArg[Pred](bits[0]), Succ: FenceArg[Succ](bits[1])}
	return
}

func parseCsr(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 3); err != nil {
		return
	}
	rd, err := argRegister[Rd](args, 0)
	if err != nil {
		return
	}
	csr, err := argImmediate[ImmCsr](args, 1)
	if err != nil {
		return
	}
	rs1, err := argRegister[Rs1](args, 2)
	if err != nil {
		return
	}
	operands = Csr{Rd: rd, Csr: csr, Rs1: rs1}
	return
}

func parseCsri(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 3); err != nil {
		return
	}
	rd, err := argRegister[Rd](args, 0)
	if err != nil {
		return
	}
	csr, err := argImmediate[ImmCsr](args, 1)
	if err != nil {
		return
	}
	uimm, err := argImmediate[ImmCsrUimm](args, 2)
	if err != nil {
		return
	}
	operands = Csri{Rd: rd, Csr: csr, Uimm: uimm}
	return
}

func parseSystem(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 0); err != nil {
		return
	}
	imm, err := NewImmediate[ImmI](info.Imm)
	if err != nil {
		return
	}
	operands = System{Imm: imm}
	return
}

// parseNop expands "nop" to "addi x0,x0,0".
func parseNop(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 0); err != nil {
		return
	}
	operands = I{}
	return
}

// parseLi expands "li rd,imm" to "addi rd,x0,imm".
func parseLi(info *OpInfo, args []string) (operands Args, err error) {
	if err = argCount(args, 2); err != nil {
		return
	}
	rd, err := argRegister[Rd](args, 0)
	if err != nil {
		return
	}
	imm, err := argImmediate[ImmI](args, 1)
	if err != nil {
		return
	}
	operands = I{Rd: rd, Rs1: ZERO[Rs1](), Imm: imm}
	return
}
