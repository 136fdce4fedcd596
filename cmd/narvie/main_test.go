package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/narvie/emulator"
	"github.com/ezrec/narvie/port"
	"github.com/ezrec/narvie/repl"
)

type closeOrder struct {
	name  string
	order *[]string
}

func (co *closeOrder) Close() error {
	*co.order = append(*co.order, co.name)
	return nil
}

func TestRunAndClose(t *testing.T) {
	assert := assert.New(t)

	sim := port.NewSimulator(emulator.NewEmulator())
	sim.Close()

	var order []string
	closers := []io.Closer{
		&closeOrder{name: "port", order: &order},
		&closeOrder{name: "log", order: &order},
	}

	rpl := &repl.Repl{Port: sim}
	err := runAndClose(rpl, strings.NewReader("nop\n"), &bytes.Buffer{}, closers)
	var errWrite *port.ErrWrite
	assert.ErrorAs(err, &errWrite)
	assert.Equal([]string{"log", "port"}, order)

	order = nil
	err = runAndClose(&repl.Repl{}, strings.NewReader("nop\n"), &bytes.Buffer{}, closers)
	assert.NoError(err)
	assert.Equal([]string{"log", "port"}, order)
}
