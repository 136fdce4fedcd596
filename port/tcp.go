// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package port

import (
	"io"
	"net"
	"strconv"
)

// DialTcp connects to a processor listening on a local TCP port.
func DialTcp(port int) (rw io.ReadWriteCloser, err error) {
	conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return
	}

	rw = conn

	return
}
