package wsio

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when reading from or writing to a closed stream.
var ErrClosed = errors.New("wsio: stream closed")

// ConnectError is returned when establishing the connection fails.
type ConnectError struct {
	Addr  string
	Cause error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("wsio: connect %s: %v", e.Addr, e.Cause)
}

func (e *ConnectError) Unwrap() error { return e.Cause }

// SendError is returned when transmitting data over the connection fails.
type SendError struct {
	Cause error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("wsio: send: %v", e.Cause)
}

func (e *SendError) Unwrap() error { return e.Cause }

// TransportError is reported by reads once the connection has failed and
// all data received before the failure has been consumed.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("wsio: transport: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }
