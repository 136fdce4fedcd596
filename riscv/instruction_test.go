package riscv

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGolden(t *testing.T) {
	table := []struct {
		line   string
		word   uint32
		format Format
	}{
		{"lui x0,0", 0x00000037, FORMAT_U},
		{"auipc x0,0", 0x00000017, FORMAT_U},
		{"jal x0,0", 0x0000006F, FORMAT_J},
		{"jalr x0,x0,0", 0x00000067, FORMAT_I},
		{"beq x0,x0,0", 0x00000063, FORMAT_B},
		{"bne x0,x0,0", 0x00001063, FORMAT_B},
		{"blt x0,x0,0", 0x00004063, FORMAT_B},
		{"bge x0,x0,0", 0x00005063, FORMAT_B},
		{"bltu x0,x0,0", 0x00006063, FORMAT_B},
		{"bgeu x0,x0,0", 0x00007063, FORMAT_B},
		{"lb x0,0(x0)", 0x00000003, FORMAT_I},
		{"lh x0,0(x0)", 0x00001003, FORMAT_I},
		{"lw x0,0(x0)", 0x00002003, FORMAT_I},
		{"lbu x0,0(x0)", 0x00004003, FORMAT_I},
		{"lhu x0,0(x0)", 0x00005003, FORMAT_I},
		{"sb x0,0(x0)", 0x00000023, FORMAT_S},
		{"sh x0,0(x0)", 0x00001023, FORMAT_S},
		{"sw x0,0(x0)", 0x00002023, FORMAT_S},
		{"addi x0,x0,0", 0x00000013, FORMAT_I},
		{"slti x0,x0,0", 0x00002013, FORMAT_I},
		{"sltiu x0,x0,0", 0x00003013, FORMAT_I},
		{"xori x0,x0,0", 0x00004013, FORMAT_I},
		{"ori x0,x0,0", 0x00006013, FORMAT_I},
		{"andi x0,x0,0", 0x00007013, FORMAT_I},
		{"slli x0,x0,0", 0x00001013, FORMAT_SHIFT},
		{"srli x0,x0,0", 0x00005013, FORMAT_SHIFT},
		{"srai x0,x0,0", 0x40005013, FORMAT_SHIFT},
		{"add x0,x0,x0", 0x00000033, FORMAT_R},
		{"sub x0,x0,x0", 0x40000033, FORMAT_R},
		{"sll x0,x0,x0", 0x00001033, FORMAT_R},
		{"slt x0,x0,x0", 0x00002033, FORMAT_R},
		{"sltu x0,x0,x0", 0x00003033, FORMAT_R},
		{"xor x0,x0,x0", 0x00004033, FORMAT_R},
		{"srl x0,x0,x0", 0x00005033, FORMAT_R},
		{"sra x0,x0,x0", 0x40005033, FORMAT_R},
		{"or x0,x0,x0", 0x00006033, FORMAT_R},
		{"and x0,x0,x0", 0x00007033, FORMAT_R},
		{"fence", 0x0FF0000F, FORMAT_FENCE},
		{"fence.i", 0x0000100F, FORMAT_I},
		{"ecall", 0x00000073, FORMAT_I},
		{"ebreak", 0x00100073, FORMAT_I},
		{"csrrw x0,0,x0", 0x00001073, FORMAT_I_CSR},
		{"csrrs x0,0,x0", 0x00002073, FORMAT_I_CSR},
		{"csrrc x0,0,x0", 0x00003073, FORMAT_I_CSR},
		{"csrrwi x0,0,0", 0x00005073, FORMAT_I_CSRI},
		{"csrrsi x0,0,0", 0x00006073, FORMAT_I_CSRI},
		{"csrrci x0,0,0", 0x00007073, FORMAT_I_CSRI},

		{"addi a0,zero,5", 0x00500513, FORMAT_I},
		{"lui x1,0x1", 0x000010B7, FORMAT_U},
		{"jal x0,4", 0x0040006F, FORMAT_J},
		{"sw a0,4(sp)", 0x00A12223, FORMAT_S},
		{"li t0,100", 0x06400293, FORMAT_I},
		{"nop", 0x00000013, FORMAT_I},
		{"fence io,rw", 0x0C30000F, FORMAT_FENCE},
		{"addi sp,sp,-16", 0xFF010113, FORMAT_I},
		{"beq x0,x0,-4", 0xFE000EE3, FORMAT_B},
		{"jal ra,-8", 0xFF9FF0EF, FORMAT_J},
		{"lw a0,8(sp)", 0x00812503, FORMAT_I},
		{"slli a0,a0,3", 0x00351513, FORMAT_SHIFT},
		{"srai a0,a0,3", 0x40355513, FORMAT_SHIFT},
		{"csrrs a0,cycle,zero", 0xC0002573, FORMAT_I_CSR},
		{"csrrwi x0,0x340,5", 0x3402D073, FORMAT_I_CSRI},
		{"sub a0,a1,a2", 0x40C58533, FORMAT_R},
	}

	for _, entry := range table {
		t.Run(entry.line, func(t *testing.T) {
			assert := assert.New(t)

			inst, err := Parse(entry.line)
			if !assert.NoError(err) {
				return
			}
			assert.Equal(fmt.Sprintf("0x%08X", entry.word), fmt.Sprintf("0x%08X", inst.Uint32()))
			assert.Equal(entry.format, inst.Format())
		})
	}
}

func TestParseSpelling(t *testing.T) {
	assert := assert.New(t)

	table := []string{
		"ADDI a0, zero, 5",
		"  addi\ta0 ,zero,   5  ",
		"Addi x10,x0,0x5",
		"addi a0,x0,0b101",
	}

	for _, line := range table {
		inst, err := Parse(line)
		if assert.NoError(err, line) {
			assert.Equal(uint32(0x00500513), inst.Uint32(), line)
		}
	}
}

func TestParseMemoryOperand(t *testing.T) {
	assert := assert.New(t)

	table := map[string]uint32{
		"lw a0,(sp)":      0x00012503,
		"lw a0,sp":        0x00012503,
		"lw a0,8( sp )":   0x00812503,
		"lw a0, 8 (sp)":   0x00812503,
		"sw a0,-4(s0)":    0xFEA42E23,
		"lb x1,-2048(x2)": 0x80010083,
	}

	for line, word := range table {
		inst, err := Parse(line)
		if assert.NoError(err, line) {
			assert.Equal(fmt.Sprintf("0x%08X", word), fmt.Sprintf("0x%08X", inst.Uint32()), line)
		}
	}

	_, err := Parse("lw a0,8(sp")
	assert.ErrorIs(err, ErrMissingCloseParenthesis)

	_, err = Parse("lw a0,8(sp)x")
	assert.ErrorIs(err, ErrTextAfterCloseParenthesis)

	var errArg ErrArgument
	if assert.ErrorAs(err, &errArg) {
		assert.Equal(1, errArg.Index)
	}
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("frobnicate x0")
	assert.Equal(ErrInstructionName("frobnicate"), err)

	_, err = Parse("")
	assert.Equal(ErrInstructionName(""), err)

	_, err = Parse("addi x0")
	var errCount ErrArgumentCount
	if assert.ErrorAs(err, &errCount) {
		assert.Equal(1, errCount.Actual)
		assert.Equal([]int{3}, errCount.Expected)
	}

	_, err = Parse("fence rw")
	if assert.ErrorAs(err, &errCount) {
		assert.Equal(1, errCount.Actual)
		assert.Equal([]int{0, 2}, errCount.Expected)
	}

	_, err = Parse("ecall x0")
	assert.ErrorAs(err, &errCount)

	_, err = Parse("addi x0,x0,2048")
	var errRange ErrOutsideRange
	if assert.ErrorAs(err, &errRange) {
		assert.Equal(int64(2048), errRange.Actual)
		assert.Equal(int64(-2048), errRange.Min)
		assert.Equal(int64(2047), errRange.Max)
	}

	var errArg ErrArgument
	if assert.ErrorAs(err, &errArg) {
		assert.Equal(2, errArg.Index)
	}

	_, err = Parse("beq x0,x0,3")
	assert.ErrorIs(err, ErrEvenNumberRequired)

	_, err = Parse("jal x0,1")
	assert.ErrorIs(err, ErrEvenNumberRequired)

	_, err = Parse("addi x0,x0,five")
	assert.ErrorIs(err, ErrLiteral("five"))

	_, err = Parse("add x0,x0,y1")
	assert.ErrorIs(err, ErrRegisterLiteral("y1"))

	_, err = Parse("slli x0,x0,32")
	assert.ErrorAs(err, &errRange)

	_, err = Parse("csrrs a0,mcycle,zero")
	assert.ErrorIs(err, ErrLiteral("mcycle"))
}

func TestParseFence(t *testing.T) {
	assert := assert.New(t)

	table := map[string]uint32{
		"fence iorw,iorw": 0x0FF0000F,
		"fence rw,rw":     0x0330000F,
		"fence i,o":       0x0840000F,
		"fence w,r":       0x0120000F,
		"fence ,":         0x0000000F,
	}

	for line, word := range table {
		inst, err := Parse(line)
		if assert.NoError(err, line) {
			assert.Equal(fmt.Sprintf("0x%08X", word), fmt.Sprintf("0x%08X", inst.Uint32()), line)
		}
	}

	_, err := Parse("fence wr,oi")
	assert.ErrorIs(err, ErrFenceArgument("wr"))
	var errArg ErrArgument
	if assert.ErrorAs(err, &errArg) {
		assert.Equal(0, errArg.Index)
	}

	_, err = Parse("fence rw,x")
	assert.ErrorIs(err, ErrFenceArgument("x"))
	if assert.ErrorAs(err, &errArg) {
		assert.Equal(1, errArg.Index)
	}

	_, err = Parse("fence ii,rw")
	assert.ErrorIs(err, ErrFenceArgument("ii"))
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	table := map[string]string{
		"addi a0,zero,5":      "addi x10,x0,5",
		"lui x1,0x1":          "lui x1,0x1",
		"jal x0,4":            "jal x0,4",
		"sw a0,4(sp)":         "sw x10,4(x2)",
		"lw a0,(sp)":          "lw x10,0(x2)",
		"li t0,100":           "addi x5,x0,100",
		"nop":                 "addi x0,x0,0",
		"fence":               "fence iorw,iorw",
		"fence io,rw":         "fence io,rw",
		"ecall":               "ecall",
		"ebreak":              "ebreak",
		"fence.i":             "fence.i",
		"csrrs a0,cycle,zero": "csrrs x10,cycle,x0",
		"csrrwi x0,0x340,5":   "csrrwi x0,0x340,5",
		"beq a0,a1,-4":        "beq x10,x11,-4",
		"srai a0,a0,3":        "srai x10,x10,3",
		"sub a0,a1,a2":        "sub x10,x11,x12",
	}

	for line, text := range table {
		inst, err := Parse(line)
		if !assert.NoError(err, line) {
			continue
		}
		assert.Equal(text, inst.String(), line)

		again, err := Parse(inst.String())
		if assert.NoError(err, line) {
			assert.Equal(inst.Uint32(), again.Uint32(), line)
		}
	}
}

func TestMnemonics(t *testing.T) {
	assert := assert.New(t)

	names := slices.Collect(Mnemonics())
	assert.Equal(int(OP_COUNT)+len(pseudoMap), len(names))
	assert.Contains(names, "addi")
	assert.Contains(names, "fence.i")
	assert.Contains(names, "csrrci")
	assert.Contains(names, "li")
	assert.Contains(names, "nop")

	for op := range OP_COUNT {
		assert.Equal(op, mnemonicMap[op.String()].op)
	}

	assert.Equal("Op(99)", Op(99).String())
}

func TestParseConcurrent(t *testing.T) {
	assert := assert.New(t)

	lines := []string{"addi a0,zero,5", "sw a0,4(sp)", "fence io,rw", "csrrs a0,cycle,zero"}
	words := []uint32{0x00500513, 0x00A12223, 0x0C30000F, 0xC0002573}

	var wg sync.WaitGroup
	results := make([][]uint32, 8)
	for n := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				for _, line := range lines {
					inst, err := Parse(line)
					if err != nil {
						return
					}
					results[n] = append(results[n], inst.Uint32())
				}
			}
		}()
	}
	wg.Wait()

	for _, result := range results {
		if assert.Equal(400, len(result)) {
			for n, word := range result {
				assert.Equal(words[n%len(words)], word)
			}
		}
	}
}

func FuzzParse(f *testing.F) {
	for op := range OP_COUNT {
		f.Add(op.String())
	}
	f.Add("addi a0,zero,5")
	f.Add("sw a0,-4(sp)")
	f.Add("fence io,rw")
	f.Add("csrrwi x0,cycle,31")
	f.Add("lw a0,8(sp")

	f.Fuzz(func(t *testing.T, line string) {
		inst, err := Parse(line)
		if err != nil {
			var errName ErrInstructionName
			var errCount ErrArgumentCount
			var errArg ErrArgument
			if !errors.As(err, &errName) && !errors.As(err, &errCount) && !errors.As(err, &errArg) {
				t.Fatalf("%q: unexpected error type %T", line, err)
			}
			return
		}

		again, err := Parse(inst.String())
		if err != nil {
			t.Fatalf("%q: %v does not reparse: %v", line, inst, err)
		}
		if again.Uint32() != inst.Uint32() {
			t.Fatalf("%q: 0x%08X reparsed as 0x%08X", line, inst.Uint32(), again.Uint32())
		}
	})
}
