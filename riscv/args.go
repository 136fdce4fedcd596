// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package riscv

import (
	"fmt"
	"slices"
	"strings"
)

// Args is the operand tuple of one instruction format.
type Args interface {
	fmt.Stringer
	encode(info *OpInfo) uint32
}

// U is the operand tuple of lui and auipc.
type U struct {
	Rd  Register[Rd]
	Imm Immediate[ImmU]
}

// J is the operand tuple of jal.
type J struct {
	Rd  Register[Rd]
	Imm Immediate[ImmJ]
}

// I is the operand tuple of register-immediate instructions and jalr.
type I struct {
	Rd  Register[Rd]
	Rs1 Register[Rs1]
	Imm Immediate[ImmI]
}

// Load is an I format tuple written as "rd,offset(rs1)".
type Load struct {
	Rd  Register[Rd]
	Rs1 Register[Rs1]
	Imm Immediate[ImmI]
}

// S is the operand tuple of stores, written as "rs2,offset(rs1)".
type S struct {
	Rs1 Register[Rs1]
	Rs2 Register[Rs2]
	Imm Immediate[ImmS]
}

// B is the operand tuple of conditional branches.
type B struct {
	Rs1 Register[Rs1]
	Rs2 Register[Rs2]
	Imm Immediate[ImmB]
}

// R is the operand tuple of register-register instructions.
type R struct {
	Rd  Register[Rd]
	Rs1 Register[Rs1]
	Rs2 Register[Rs2]
}

// Shift is the operand tuple of immediate shifts.
type Shift struct {
	Rd    Register[Rd]
	Rs1   Register[Rs1]
	Shamt Immediate[ImmShift]
}

// Fence is the operand tuple of fence. rd and rs1 are always x0.
type Fence struct {
	Pred FenceArg[Pred]
	Succ FenceArg[Succ]
	Fm   Fm
}

// Csr is the operand tuple of the register CSR instructions.
type Csr struct {
	Rd  Register[Rd]
	Csr Immediate[ImmCsr]
	Rs1 Register[Rs1]
}

// Csri is the operand tuple of the immediate CSR instructions.
type Csri struct {
	Rd   Register[Rd]
	Csr  Immediate[ImmCsr]
	Uimm Immediate[ImmCsrUimm]
}

// System is the operand tuple of ecall, ebreak and fence.i, which take no
// arguments. The immediate is fixed by the instruction.
type System struct {
	Imm Immediate[ImmI]
}

func (args U) encode(info *OpInfo) uint32 {
	return info.Opcode.Place() | args.Rd.Place() | args.Imm.Place()
}

func (args J) encode(info *OpInfo) uint32 {
	return info.Opcode.Place() | args.Rd.Place() | args.Imm.Place()
}

func (args I) encode(info *OpInfo) uint32 {
	return info.Opcode.Place() | args.Rd.Place() | info.Funct3.Place() |
		args.Rs1.Place() | args.Imm.Place()
}

func (args Load) encode(info *OpInfo) uint32 {
	return I(args).encode(info)
}

func (args S) encode(info *OpInfo) uint32 {
	return info.Opcode.Place() | info.Funct3.Place() |
		args.Rs1.Place() | args.Rs2.Place() | args.Imm.Place()
}

func (args B) encode(info *OpInfo) uint32 {
	return info.Opcode.Place() | info.Funct3.Place() |
		args.Rs1.Place() | args.Rs2.Place() | args.Imm.Place()
}

func (args R) encode(info *OpInfo) uint32 {
	return info.Opcode.Place() | args.Rd.Place() | info.Funct3.Place() |
		args.Rs1.Place() | args.Rs2.Place() | info.Funct7.Place()
}

func (args Shift) encode(info *OpInfo) uint32 {
	return info.Opcode.Place() | args.Rd.Place() | info.Funct3.Place() |
		args.Rs1.Place() | args.Shamt.Place() | info.Funct7.Place()
}

func (args Fence) encode(info *OpInfo) uint32 {
	return info.Opcode.Place() | ZERO[Rd]().Place() | info.Funct3.Place() |
		ZERO[Rs1]().Place() | args.Succ.Place() | args.Pred.Place() | args.Fm.Place()
}

func (args Csr) encode(info *OpInfo) uint32 {
	return info.Opcode.Place() | args.Rd.Place() | info.Funct3.Place() |
		args.Rs1.Place() | args.Csr.Place()
}

func (args Csri) encode(info *OpInfo) uint32 {
	return info.Opcode.Place() | args.Rd.Place() | info.Funct3.Place() |
		args.Uimm.Place() | args.Csr.Place()
}

func (args System) encode(info *OpInfo) uint32 {
	return I{Imm: args.Imm}.encode(info)
}

func (args U) String() string {
	return fmt.Sprintf("%v,%v", args.Rd, args.Imm)
}

func (args J) String() string {
	return fmt.Sprintf("%v,%v", args.Rd, args.Imm)
}

func (args I) String() string {
	return fmt.Sprintf("%v,%v,%v", args.Rd, args.Rs1, args.Imm)
}

func (args Load) String() string {
	return fmt.Sprintf("%v,%v(%v)", args.Rd, args.Imm, args.Rs1)
}

func (args S) String() string {
	return fmt.Sprintf("%v,%v(%v)", args.Rs2, args.Imm, args.Rs1)
}

func (args B) String() string {
	return fmt.Sprintf("%v,%v,%v", args.Rs1, args.Rs2, args.Imm)
}

func (args R) String() string {
	return fmt.Sprintf("%v,%v,%v", args.Rd, args.Rs1, args.Rs2)
}

func (args Shift) String() string {
	return fmt.Sprintf("%v,%v,%v", args.Rd, args.Rs1, args.Shamt)
}

func (args Fence) String() string {
	return fmt.Sprintf("%v,%v", fenceString(uint32(args.Pred)), fenceString(uint32(args.Succ)))
}

func (args Csr) String() string {
	return fmt.Sprintf("%v,%v,%v", args.Rd, args.Csr, args.Rs1)
}

func (args Csri) String() string {
	return fmt.Sprintf("%v,%v,%v", args.Rd, args.Csr, args.Uimm)
}

func (args System) String() string {
	return ""
}

// fenceBits are the fence access characters in canonical order.
var fenceBits = []struct {
	char byte
	bit  uint32
}{
	{'i', FENCE_I},
	{'o', FENCE_O},
	{'r', FENCE_R},
	{'w', FENCE_W},
}

// parseFence parses an ordered subset of "iorw".
func parseFence(token string) (bits uint32, err error) {
	rest := token
	for _, fb := range fenceBits {
		if len(rest) > 0 && rest[0] == fb.char {
			bits |= fb.bit
			rest = rest[1:]
		}
	}

	if len(rest) != 0 {
		err = ErrFenceArgument(token)
		return
	}

	return
}

// fenceString formats fence access bits as an ordered subset of "iorw".
func fenceString(bits uint32) string {
	var sb strings.Builder
	for _, fb := range fenceBits {
		if bits&fb.bit != 0 {
			sb.WriteByte(fb.char)
		}
	}
	return sb.String()
}

// argCount checks the number of arguments against the accepted counts.
func argCount(args []string, expected ...int) (err error) {
	if !slices.Contains(expected, len(args)) {
		err = ErrArgumentCount{Actual: len(args), Expected: expected}
	}
	return
}

// argRegister parses the n'th argument as a register.
func argRegister[R Role](args []string, n int) (reg Register[R], err error) {
	reg, err = ParseRegister[R](args[n])
	if err != nil {
		err = ErrArgument{Index: n, Err: err}
	}
	return
}

// argImmediate parses the n'th argument as an immediate.
func argImmediate[K Kind](args []string, n int) (imm Immediate[K], err error) {
	imm, err = ParseImmediate[K](args[n])
	if err != nil {
		err = ErrArgument{Index: n, Err: err}
	}
	return
}

// argMemory parses the n'th argument as an "offset(reg)" memory operand.
func argMemory[K Kind](args []string, n int) (base Register[Rs1], offset Immediate[K], err error) {
	base, offset, err = parseMemory[K](args[n])
	if err != nil {
		err = ErrArgument{Index: n, Err: err}
	}
	return
}
