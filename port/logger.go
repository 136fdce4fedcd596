// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package port

import (
	"io"
)

// Logger copies every byte read from a port to a log.
type Logger struct {
	Port io.ReadWriteCloser // Port being logged.
	Log  io.Writer          // Destination of the bytes read. May be nil.
}

// Read from the port, and copy what was read to the log.
func (lg *Logger) Read(buff []byte) (n int, err error) {
	n, err = lg.Port.Read(buff)
	if n > 0 && lg.Log != nil {
		_, log_err := lg.Log.Write(buff[:n])
		if err == nil {
			err = log_err
		}
	}
	return
}

// Write to the port.
func (lg *Logger) Write(buff []byte) (n int, err error) {
	return lg.Port.Write(buff)
}

// Close the port. The log is left open.
func (lg *Logger) Close() error {
	return lg.Port.Close()
}
