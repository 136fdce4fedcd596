// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package port

import (
	"github.com/ezrec/narvie/translate"
)

var f = translate.From

// ErrBaudRate is returned for a baud rate the serial driver can not set.
type ErrBaudRate int

func (err ErrBaudRate) Error() string {
	return f("unsupported baud rate %d", int(err))
}

// ErrWrite is returned when the instruction word could not be sent.
type ErrWrite struct {
	Err error
}

func (err *ErrWrite) Error() string {
	return f("port write: %v", err.Err)
}

func (err *ErrWrite) Unwrap() error {
	return err.Err
}

// ErrRead is returned when the register file could not be received.
type ErrRead struct {
	Err error
}

func (err *ErrRead) Error() string {
	return f("port read: %v", err.Err)
}

func (err *ErrRead) Unwrap() error {
	return err.Err
}
