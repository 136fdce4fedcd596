// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package port

import (
	"io"
	"log"
	"net"

	"github.com/ezrec/narvie/emulator"
)

// NewSimulator runs an emulated processor in the background, and returns
// the host end of its port. Closing the port stops the emulator.
func NewSimulator(emu *emulator.Emulator) io.ReadWriteCloser {
	host, target := net.Pipe()

	go func() {
		defer target.Close()
		err := emu.Serve(target)
		if err != nil && emu.Verbose {
			log.Printf("simulator: %v", err)
		}
	}()

	return host
}
