package riscv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLayout(t *testing.T) {
	assert := assert.New(t)

	for format := FORMAT_U; format <= FORMAT_FENCE; format++ {
		total := 0
		for _, width := range format.Widths() {
			total += width
		}
		assert.Equal(32, total, format.String())
		assert.Equal(len(format.Widths()), len(format.Headers()), format.String())
		assert.Equal("opcode", format.Headers()[len(format.Headers())-1], format.String())
	}

	assert.Equal("I-CSR", FORMAT_I_CSR.String())
	assert.Equal("Fence", FORMAT_FENCE.String())
	assert.Equal("Format(10)", Format(10).String())
}

func TestBreakdown(t *testing.T) {
	assert := assert.New(t)

	inst, err := Parse("addi a0,zero,5")
	if !assert.NoError(err) {
		return
	}

	expected := []Field{
		{"imm[11:0]", "000000000101"},
		{"rs1", "00000"},
		{"funct3", "000"},
		{"rd", "01010"},
		{"opcode", "0010011"},
	}
	assert.Equal(expected, Breakdown(inst))

	inst, err = Parse("fence io,rw")
	if !assert.NoError(err) {
		return
	}

	var bits []string
	for _, field := range Breakdown(inst) {
		bits = append(bits, field.Bits)
	}
	assert.Equal("0000 1100 0011 00000 000 00000 0001111", strings.Join(bits, " "))
}

func TestOpFormats(t *testing.T) {
	assert := assert.New(t)

	for op := range OP_COUNT {
		info := op.Info()
		assert.NotEmpty(info.Name)
		assert.NotNil(info.parse, info.Name)
		assert.NotPanics(func() {
			info.Opcode.Place()
			info.Funct3.Place()
			info.Funct7.Place()
		}, info.Name)
	}
}
