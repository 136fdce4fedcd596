// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package riscv

import (
	"log"
)

// Placeable is a field of an instruction word.
type Placeable interface {
	Mask() uint32  // Bits of the instruction word the field occupies.
	Place() uint32 // Field value, shifted into position.
}

// place checks that a field's bits are within its mask. The bits are
// shifted in 64 bits so that nothing is lost past bit 31.
func place(bits uint64, mask uint32) uint32 {
	if bits & ^uint64(mask) != 0 {
		log.Panic(ErrPlacement{Bits: bits, Mask: mask})
	}
	return uint32(bits)
}

// Opcode is the 7-bit major opcode.
type Opcode uint32

func (op Opcode) Mask() uint32  { return 0x7F }
func (op Opcode) Place() uint32 { return place(uint64(op), op.Mask()) }

// Funct3 is the 3-bit minor opcode at bits 14:12.
type Funct3 uint32

func (fn Funct3) Mask() uint32  { return 0x7 << 12 }
func (fn Funct3) Place() uint32 { return place(uint64(fn)<<12, fn.Mask()) }

// Funct7 is the 7-bit minor opcode at bits 31:25.
type Funct7 uint32

func (fn Funct7) Mask() uint32  { return 0x7F << 25 }
func (fn Funct7) Place() uint32 { return place(uint64(fn)<<25, fn.Mask()) }

// Fm is the 4-bit fence mode at bits 31:28.
type Fm uint32

func (fm Fm) Mask() uint32  { return 0xF << 28 }
func (fm Fm) Place() uint32 { return place(uint64(fm)<<28, fm.Mask()) }

// FenceOrder selects the fence ordering field.
type FenceOrder interface {
	offset() uint32
}

// Pred is the fence predecessor set, at bits 27:24.
type Pred struct{}

// Succ is the fence successor set, at bits 23:20.
type Succ struct{}

func (Pred) offset() uint32 { return 24 }
func (Succ) offset() uint32 { return 20 }

// Fence access bits, in canonical order.
const (
	FENCE_I = 0b1000 // Device input.
	FENCE_O = 0b0100 // Device output.
	FENCE_R = 0b0010 // Memory reads.
	FENCE_W = 0b0001 // Memory writes.
)

// FenceArg is a 4-bit set of fence access bits.
type FenceArg[O FenceOrder] uint32

func (arg FenceArg[O]) Mask() uint32 {
	var order O
	return 0xF << order.offset()
}

func (arg FenceArg[O]) Place() uint32 {
	var order O
	return place(uint64(arg)<<order.offset(), arg.Mask())
}

func (reg Register[R]) Mask() uint32 {
	var role R
	return 0x1F << role.offset()
}

func (reg Register[R]) Place() uint32 {
	var role R
	return place(uint64(reg.index)<<role.offset(), reg.Mask())
}

func (imm Immediate[K]) Mask() uint32 {
	var kind K
	return kind.mask()
}

func (imm Immediate[K]) Place() uint32 {
	var kind K
	return place(kind.placeUnchecked(imm.value), kind.mask())
}

func (ImmU) mask() uint32 { return 0xFFFFF000 }
func (ImmU) placeUnchecked(value int32) uint64 {
	return uint64(uint32(value)&0xFFFFF) << 12
}

func (ImmI) mask() uint32 { return 0xFFF00000 }
func (ImmI) placeUnchecked(value int32) uint64 {
	return uint64(uint32(value)&0xFFF) << 20
}

func (ImmS) mask() uint32 { return 0xFE000F80 }
func (ImmS) placeUnchecked(value int32) uint64 {
	imm := uint64(uint32(value))
	return 0 |
		((imm & 0b1111_1110_0000) << 20) | // imm[11:5] -> inst[31:25]
		((imm & 0b0000_0001_1111) << 7) // imm[4:0] -> inst[11:7]
}

func (ImmB) mask() uint32 { return 0xFE000F80 }
func (ImmB) placeUnchecked(value int32) uint64 {
	imm := uint64(uint32(value))
	return 0 |
		((imm & 0b1_0000_0000_0000) << 19) | // imm[12] -> inst[31]
		((imm & 0b0_0111_1110_0000) << 20) | // imm[10:5] -> inst[30:25]
		((imm & 0b0_0000_0001_1110) << 7) | // imm[4:1] -> inst[11:8]
		((imm & 0b0_1000_0000_0000) >> 4) // imm[11] -> inst[7]
}

func (ImmJ) mask() uint32 { return 0xFFFFF000 }
func (ImmJ) placeUnchecked(value int32) uint64 {
	imm := uint64(uint32(value))
	return 0 |
		((imm & 0x100000) << 11) | // imm[20] -> inst[31]
		((imm & 0x0007FE) << 20) | // imm[10:1] -> inst[30:21]
		((imm & 0x000800) << 9) | // imm[11] -> inst[20]
		((imm & 0x0FF000) << 0) // imm[19:12] -> inst[19:12]
}

func (ImmShift) mask() uint32 { return 0x1F << 20 }
func (ImmShift) placeUnchecked(value int32) uint64 {
	return uint64(uint32(value)) << 20
}

func (ImmCsr) mask() uint32 { return 0xFFF << 20 }
func (ImmCsr) placeUnchecked(value int32) uint64 {
	return uint64(uint32(value)) << 20
}

// The CSR immediate occupies the rs1 field.
func (ImmCsrUimm) mask() uint32 { return 0x1F << 15 }
func (ImmCsrUimm) placeUnchecked(value int32) uint64 {
	return uint64(uint32(value)) << 15
}
