// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package riscv implements the RV32I mnemonic encoder for the narvie system.
//
// A line of assembly such as "addi a0,zero,5" is parsed into an Instruction,
// whose operands have already been checked against their register and
// immediate constraints. The Instruction then places its fields into the
// canonical 32-bit instruction word, and describes its format so that the
// word can be broken down into labelled bit fields for display.
//
// Everything in this package is pure: package tables are never modified
// after initialization, and every function may be called concurrently.
package riscv
