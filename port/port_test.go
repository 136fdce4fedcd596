package port

import (
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.bug.st/serial"

	"github.com/ezrec/narvie/emulator"
	"github.com/ezrec/narvie/riscv"
)

type pipe struct {
	io.Reader
	io.Writer
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func word(t *testing.T, line string) uint32 {
	inst, err := riscv.Parse(line)
	if err != nil {
		t.Fatalf("%v: %v", line, err)
	}
	return inst.Uint32()
}

func TestEval(t *testing.T) {
	assert := assert.New(t)

	var reply RegisterFile
	reply[10] = 5
	reply[31] = 0xDEADBEEF

	input := &bytes.Buffer{}
	binary.Write(input, binary.LittleEndian, reply)
	output := &bytes.Buffer{}

	regs, err := Eval(pipe{input, output}, 0x00500513)
	assert.NoError(err)
	assert.Equal(reply, regs)
	assert.Equal([]byte{0x13, 0x05, 0x50, 0x00}, output.Bytes())
}

func TestEvalErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Eval(pipe{bytes.NewReader(make([]byte, 10)), &bytes.Buffer{}}, 0)
	var errRead *ErrRead
	assert.ErrorAs(err, &errRead)
	assert.ErrorIs(err, io.ErrUnexpectedEOF)

	_, err = Eval(pipe{bytes.NewReader(nil), &bytes.Buffer{}}, 0)
	assert.ErrorAs(err, &errRead)
	assert.ErrorIs(err, io.EOF)

	_, err = Eval(pipe{bytes.NewReader(nil), failWriter{}}, 0)
	var errWrite *ErrWrite
	assert.ErrorAs(err, &errWrite)
	assert.ErrorIs(err, io.ErrClosedPipe)
}

func TestSimulator(t *testing.T) {
	assert := assert.New(t)

	sim := NewSimulator(emulator.NewEmulator())
	defer sim.Close()

	regs, err := Eval(sim, word(t, "li a0,5"))
	assert.NoError(err)
	assert.Equal(uint32(5), regs[10])

	regs, err = Eval(sim, word(t, "slli a1,a0,2"))
	assert.NoError(err)
	assert.Equal(uint32(5), regs[10])
	assert.Equal(uint32(20), regs[11])

	// Illegal words leave the registers unchanged.
	regs, err = Eval(sim, 0)
	assert.NoError(err)
	assert.Equal(uint32(20), regs[11])
}

func TestSimulatorClosed(t *testing.T) {
	assert := assert.New(t)

	sim := NewSimulator(emulator.NewEmulator())
	assert.NoError(sim.Close())

	_, err := Eval(sim, 0x13)
	var errWrite *ErrWrite
	assert.ErrorAs(err, &errWrite)
}

func TestLogger(t *testing.T) {
	assert := assert.New(t)

	log := &bytes.Buffer{}
	lg := &Logger{Port: NewSimulator(emulator.NewEmulator()), Log: log}
	defer lg.Close()

	regs, err := Eval(lg, word(t, "li a0,-1"))
	assert.NoError(err)
	assert.Equal(uint32(0xFFFFFFFF), regs[10])

	var logged RegisterFile
	assert.Equal(binary.Size(logged), log.Len())
	err = binary.Read(log, binary.LittleEndian, &logged)
	assert.NoError(err)
	assert.Equal(regs, logged)

	quiet := &Logger{Port: NewSimulator(emulator.NewEmulator())}
	defer quiet.Close()
	_, err = Eval(quiet, word(t, "nop"))
	assert.NoError(err)
}

func TestDialTcp(t *testing.T) {
	assert := assert.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("no local tcp: %v", err)
	}
	defer listener.Close()

	served := make(chan error, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			served <- err
			return
		}
		defer conn.Close()
		served <- emulator.NewEmulator().Serve(conn)
	}()

	_, port_text, err := net.SplitHostPort(listener.Addr().String())
	assert.NoError(err)
	port, err := strconv.Atoi(port_text)
	assert.NoError(err)

	conn, err := DialTcp(port)
	if !assert.NoError(err) {
		return
	}

	regs, err := Eval(conn, word(t, "lui a0,0x12345"))
	assert.NoError(err)
	assert.Equal(uint32(0x12345000), regs[10])

	assert.NoError(conn.Close())
	assert.NoError(<-served)
}

type idlePort struct {
	reads int
}

func (ip *idlePort) Read(data []byte) (n int, err error) {
	ip.reads++
	return
}

func (ip *idlePort) Write(data []byte) (n int, err error) { return len(data), nil }
func (ip *idlePort) Close() error                         { return nil }

func (ip *idlePort) SetMode(*serial.Mode) error                           { return nil }
func (ip *idlePort) Drain() error                                         { return nil }
func (ip *idlePort) ResetInputBuffer() error                              { return nil }
func (ip *idlePort) ResetOutputBuffer() error                             { return nil }
func (ip *idlePort) SetDTR(bool) error                                    { return nil }
func (ip *idlePort) SetRTS(bool) error                                    { return nil }
func (ip *idlePort) GetModemStatusBits() (*serial.ModemStatusBits, error) { return nil, nil }
func (ip *idlePort) SetReadTimeout(time.Duration) error                   { return nil }
func (ip *idlePort) Break(time.Duration) error                            { return nil }

func TestSerialTimeout(t *testing.T) {
	assert := assert.New(t)

	idle := &idlePort{}
	_, err := Eval(&serialPort{Port: idle}, 0x00000013)

	var errRead *ErrRead
	assert.ErrorAs(err, &errRead)
	assert.ErrorIs(err, io.EOF)
	assert.Equal(1, idle.reads)
}

func TestAvailableSerial(t *testing.T) {
	assert := assert.New(t)

	ports := AvailableSerial()
	for _, port := range ports {
		assert.NotEmpty(port)
	}
}

func TestOpenSerialErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := OpenSerial("/dev/null", 12345)
	assert.Equal(ErrBaudRate(12345), err)

	_, err = OpenSerial("/nonexistent/tty", 9600)
	assert.Error(err)
}
