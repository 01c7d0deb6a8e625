package wsio

import (
	"sync/atomic"

	"github.com/streamgear/wsio/pkg/transport"
)

// Writer is the write half of a stream. Each Write maps to one message on
// the wire; there is no outbound buffering.
type Writer struct {
	tr     transport.Transport
	h      *halves
	closed atomic.Bool
}

// Write sends p as a single message. It reports len(p) on success and a
// *SendError on any failure; partial writes do not occur.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed.Load() {
		return 0, &SendError{Cause: ErrClosed}
	}
	if err := w.tr.Send(p); err != nil {
		return 0, &SendError{Cause: err}
	}
	return len(p), nil
}

// Flush is a no-op: writes are handed to the transport immediately.
func (w *Writer) Flush() error {
	return nil
}

// Close shuts the connection down. The peer observes a clean close and the
// read half, once drained, reports io.EOF. Close is idempotent and always
// returns nil; teardown is best effort.
func (w *Writer) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}
	w.h.closeWrite()
	return nil
}
