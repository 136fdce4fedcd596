// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package port connects to an RV32I processor that evaluates single
// instruction words.
//
// The processor may be reached through a serial port, a TCP socket, or an
// in-process simulation. All speak the same protocol: the host writes one
// little-endian 32-bit instruction word, and the processor replies with its
// 32 general purpose registers as little-endian 32-bit values.
package port
