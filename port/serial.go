// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package port

import (
	"io"
	"slices"
	"time"

	"go.bug.st/serial"
)

// BAUD_RATES are the serial port speeds that may be selected.
var BAUD_RATES = []int{
	1200, 2400, 4800, 9600, 19200, 38400, 57600,
	115200, 230400, 460800, 921600, 1000000,
}

// SERIAL_TIMEOUT is the read timeout of a serial port.
const SERIAL_TIMEOUT = 500 * time.Millisecond

// serialPort reports a read timeout as io.EOF.
type serialPort struct {
	serial.Port
}

func (sp *serialPort) Read(data []byte) (n int, err error) {
	n, err = sp.Port.Read(data)
	if n == 0 && err == nil && len(data) != 0 {
		err = io.EOF
	}
	return
}

// OpenSerial opens a serial port at 8N1 with no flow control.
//
// A read that sees no data for SERIAL_TIMEOUT returns io.EOF.
func OpenSerial(address string, baud int) (rw io.ReadWriteCloser, err error) {
	if !slices.Contains(BAUD_RATES, baud) {
		err = ErrBaudRate(baud)
		return
	}

	sp, err := serial.Open(address, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return
	}

	err = sp.SetReadTimeout(SERIAL_TIMEOUT)
	if err != nil {
		sp.Close()
		return
	}

	rw = &serialPort{Port: sp}

	return
}

// AvailableSerial lists the serial ports present on this machine.
func AvailableSerial() (ports []string) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil
	}

	slices.Sort(ports)

	return
}
