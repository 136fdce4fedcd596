// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package riscv

import (
	"fmt"
	"log"
)

// Format is an instruction encoding layout.
type Format int

//go:generate go tool stringer -linecomment -type=Format
const (
	FORMAT_U      = Format(0) // U
	FORMAT_J      = Format(1) // J
	FORMAT_I      = Format(2) // I
	FORMAT_I_CSR  = Format(3) // I-CSR
	FORMAT_I_CSRI = Format(4) // I-CSRI
	FORMAT_B      = Format(5) // B
	FORMAT_R      = Format(6) // R
	FORMAT_S      = Format(7) // S
	FORMAT_SHIFT  = Format(8) // Shift
	FORMAT_FENCE  = Format(9) // Fence
)

// layout is the column breakdown of a format.
type layout struct {
	headers []string
	widths  []int
}

var layoutMap = map[Format]layout{
	FORMAT_U: {
		[]string{"imm[31:12]", "rd", "opcode"},
		[]int{20, 5, 7},
	},
	FORMAT_J: {
		[]string{"imm[20|10:1|11|19:12]", "rd", "opcode"},
		[]int{20, 5, 7},
	},
	FORMAT_I: {
		[]string{"imm[11:0]", "rs1", "funct3", "rd", "opcode"},
		[]int{12, 5, 3, 5, 7},
	},
	FORMAT_I_CSR: {
		[]string{"csr", "rs1", "funct3", "rd", "opcode"},
		[]int{12, 5, 3, 5, 7},
	},
	FORMAT_I_CSRI: {
		[]string{"csr", "uimm[4:0]", "funct3", "rd", "opcode"},
		[]int{12, 5, 3, 5, 7},
	},
	FORMAT_B: {
		[]string{"imm[12|10:5]", "rs2", "rs1", "funct3", "imm[4:1|11]", "opcode"},
		[]int{7, 5, 5, 3, 5, 7},
	},
	FORMAT_R: {
		[]string{"funct7", "rs2", "rs1", "funct3", "rd", "opcode"},
		[]int{7, 5, 5, 3, 5, 7},
	},
	FORMAT_S: {
		[]string{"imm[11:5]", "rs2", "rs1", "funct3", "imm[4:0]", "opcode"},
		[]int{7, 5, 5, 3, 5, 7},
	},
	FORMAT_SHIFT: {
		[]string{"funct7", "shamt", "rs1", "funct3", "rd", "opcode"},
		[]int{7, 5, 5, 3, 5, 7},
	},
	FORMAT_FENCE: {
		[]string{"fm", "pred", "succ", "rs1", "funct3", "rd", "opcode"},
		[]int{4, 4, 4, 5, 3, 5, 7},
	},
}

// Headers returns the column labels of the format, most significant first.
func (format Format) Headers() []string {
	return layoutMap[format].headers
}

// Widths returns the bit widths of each column, most significant first.
func (format Format) Widths() []int {
	return layoutMap[format].widths
}

// Field is one labelled slice of an instruction word.
type Field struct {
	Header string // Column label, such as "rd" or "imm[11:0]".
	Bits   string // Binary digits of the slice.
}

// Breakdown slices an instruction word into the labelled fields of its format.
func Breakdown(inst Instruction) (fields []Field) {
	format := inst.Format()
	headers := format.Headers()
	widths := format.Widths()

	total := 0
	for _, width := range widths {
		total += width
	}
	if total != 32 || len(headers) != len(widths) {
		log.Panicf("format %v: widths %v do not cover 32 bits", format, widths)
	}

	binary := fmt.Sprintf("%032b", inst.Uint32())
	for n, width := range widths {
		fields = append(fields, Field{Header: headers[n], Bits: binary[:width]})
		binary = binary[width:]
	}

	return
}
