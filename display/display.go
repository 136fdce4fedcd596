// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package display renders instructions and register files as text tables.
package display

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ezrec/narvie/port"
	"github.com/ezrec/narvie/riscv"
)

// Breakdown renders the labelled bit fields of an instruction as two lines,
// headers above bits, with columns separated by a bar.
func Breakdown(inst riscv.Instruction) (lines [2]string) {
	fields := riscv.Breakdown(inst)

	var headers, bits []string
	for _, field := range fields {
		width := max(utf8.RuneCountInString(field.Header), len(field.Bits))
		headers = append(headers, text.AlignCenter.Apply(field.Header, width))
		bits = append(bits, text.AlignCenter.Apply(field.Bits, width))
	}

	lines[0] = strings.Join(headers, " │ ")
	lines[1] = strings.Join(bits, " │ ")

	return
}

// AssemblyTable is the mnemonic, hexadecimal, and binary breakdown of an
// instruction. The breakdown lines are already padded, so that column is
// left aligned to keep its bars lined up.
func AssemblyTable(inst riscv.Instruction) (tw table.Writer) {
	breakdown := Breakdown(inst)

	tw = newTable([]string{"Mnemonic", "Hexadecimal", "Binary"},
		text.AlignCenter, text.AlignCenter, text.AlignLeft)
	tw.AppendRow(table.Row{
		"\n" + inst.String(),
		fmt.Sprintf("\n%08X", inst.Uint32()),
		breakdown[0] + "\n" + breakdown[1],
	})

	return
}

// Assembly writes the assembly table of an instruction.
func Assembly(w io.Writer, inst riscv.Instruction) (err error) {
	_, err = writeLines(w, Lines(AssemblyTable(inst)))
	return
}

// REGISTER_COLUMNS is the number of side-by-side register tables.
const REGISTER_COLUMNS = 2

// RegisterLines renders a register file as side-by-side tables of
// name, ABI name, and value.
func RegisterLines(regs port.RegisterFile) (lines []string) {
	rows := riscv.GPR_COUNT / REGISTER_COLUMNS

	for column := range REGISTER_COLUMNS {
		tw := newTable([]string{"Name", "ABI", "Value"})
		for n := range rows {
			index := uint32(column*rows + n)
			tw.AppendRow(table.Row{
				fmt.Sprintf("x%d", index),
				riscv.AbiName(index),
				fmt.Sprintf("0x%08X", regs[index]),
			})
		}

		for n, line := range Lines(tw) {
			if column == 0 {
				lines = append(lines, line)
			} else {
				lines[n] += " " + line
			}
		}
	}

	return
}

// Registers writes the register file tables.
func Registers(w io.Writer, regs port.RegisterFile) (err error) {
	_, err = writeLines(w, RegisterLines(regs))
	return
}
