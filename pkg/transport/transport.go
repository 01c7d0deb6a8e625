package transport

import "errors"

// Common errors.
var (
	// ErrNotOpen is returned when sending before the connection is established.
	ErrNotOpen = errors.New("transport: not open")

	// ErrClosed is returned when operating on a closed transport.
	ErrClosed = errors.New("transport: closed")
)

// Events receives connection lifecycle notifications. Any handler may be nil.
//
// An Opener delivers events in order: Open at most once, then zero or more
// Message calls, then exactly one terminal event, either Closed (orderly
// shutdown by either side) or Error (connection failure). No events follow
// the terminal one. Handlers are invoked from the transport's internal
// goroutine and must not block longer than the caller can afford to stall
// inbound traffic.
type Events struct {
	// Open fires once the connection is established and ready for traffic.
	Open func()

	// Message fires for each inbound binary message. The slice is owned by
	// the handler after the call returns.
	Message func(data []byte)

	// Error fires when the connection fails. Terminal.
	Error func(err error)

	// Closed fires when the connection shuts down cleanly. Terminal.
	Closed func()
}

func (ev Events) fireOpen() {
	if ev.Open != nil {
		ev.Open()
	}
}

func (ev Events) fireMessage(data []byte) {
	if ev.Message != nil {
		ev.Message(data)
	}
}

func (ev Events) fireError(err error) {
	if ev.Error != nil {
		ev.Error(err)
	}
}

func (ev Events) fireClosed() {
	if ev.Closed != nil {
		ev.Closed()
	}
}

// Transport is an established message connection.
type Transport interface {
	// Send transmits one binary message. It returns ErrNotOpen before the
	// Open event and ErrClosed after a terminal event or Close.
	Send(data []byte) error

	// Close shuts the connection down. The Closed event fires if no
	// terminal event was delivered yet. Close is idempotent.
	Close() error
}

// Opener establishes message connections.
type Opener interface {
	// Open starts connecting to url and reports the outcome through ev.
	// The returned error covers only failures detected synchronously,
	// such as a malformed url; asynchronous failures arrive as an Error
	// event. The returned Transport is usable immediately for Close and,
	// after the Open event, for Send.
	Open(url string, ev Events) (Transport, error)
}
