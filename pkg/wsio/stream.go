package wsio

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/streamgear/wsio/pkg/buffer"
	"github.com/streamgear/wsio/pkg/transport"
)

const (
	// DefaultQueueSize is the default capacity of the inbound chunk queue.
	DefaultQueueSize = 4

	// DefaultConnectTimeout is the default limit on connection establishment.
	DefaultConnectTimeout = 30 * time.Second
)

// Config is the configuration for a stream connection.
type Config struct {
	// QueueSize is the capacity of the inbound chunk queue. While the
	// queue is full the transport read loop stalls, which backpressures
	// the peer. Default is DefaultQueueSize.
	QueueSize int

	// ConnectTimeout bounds connection establishment, in addition to the
	// caller's context. Default is DefaultConnectTimeout.
	ConnectTimeout time.Duration

	// TLSConfig is the TLS configuration for wss:// connections.
	// If nil, a default configuration is used.
	TLSConfig *tls.Config

	// Subprotocols lists the WebSocket subprotocols to request (optional).
	Subprotocols []string

	// Header is sent with the handshake request (optional).
	Header http.Header

	// Opener establishes the underlying connection. If nil, a WebSocket
	// dialer built from the fields above is used.
	Opener transport.Opener
}

// setDefaults sets default values for the config.
func (c *Config) setDefaults() {
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.Opener == nil {
		c.Opener = &transport.Dialer{
			HandshakeTimeout: c.ConnectTimeout,
			TLSConfig:        c.TLSConfig,
			Subprotocols:     c.Subprotocols,
			Header:           c.Header,
		}
	}
}

// Dial connects to a plain WebSocket endpoint at addr (host:port, with an
// optional path) and returns a connected stream.
func Dial(ctx context.Context, addr string) (*Stream, error) {
	return DialConfig(ctx, "ws://"+addr, Config{})
}

// DialTLS is Dial over TLS.
func DialTLS(ctx context.Context, addr string) (*Stream, error) {
	return DialConfig(ctx, "wss://"+addr, Config{})
}

// DialConfig connects to rawURL with an explicit configuration. A rawURL
// without a scheme is treated as ws://rawURL. DialConfig returns once the
// connection is established; on timeout, cancellation, or connection
// failure it returns a *ConnectError.
func DialConfig(ctx context.Context, rawURL string, config Config) (*Stream, error) {
	config.setDefaults()
	if !strings.Contains(rawURL, "://") {
		rawURL = "ws://" + rawURL
	}

	q := buffer.NewChunks(config.QueueSize)

	var (
		ready    = make(chan struct{})
		failed   = make(chan error, 1)
		openOnce sync.Once
	)
	ev := transport.Events{
		Open: func() {
			openOnce.Do(func() { close(ready) })
		},
		Message: func(data []byte) {
			// Blocks while the queue is full, stalling the transport
			// read loop. A put error means the read half is gone and
			// the chunk is no longer wanted.
			_ = q.Put(data)
		},
		Error: func(err error) {
			q.Terminate(&TransportError{Cause: err})
			select {
			case failed <- err:
			default:
			}
		},
		Closed: func() {
			q.Terminate(nil)
		},
	}

	tr, err := config.Opener.Open(rawURL, ev)
	if err != nil {
		return nil, &ConnectError{Addr: rawURL, Cause: err}
	}

	connectCtx, cancel := context.WithTimeout(ctx, config.ConnectTimeout)
	defer cancel()

	// Prefer ready when it has already fired: a connection that was
	// established and then failed is still handed to the caller, whose
	// reads drain any received data before reporting the failure.
	select {
	case <-ready:
	default:
		select {
		case <-ready:
		case err := <-failed:
			tr.Close()
			return nil, &ConnectError{Addr: rawURL, Cause: err}
		case <-connectCtx.Done():
			tr.Close()
			return nil, &ConnectError{Addr: rawURL, Cause: connectCtx.Err()}
		}
	}

	h := &halves{tr: tr}
	return &Stream{
		r: &Reader{q: q, h: h},
		w: &Writer{tr: tr, h: h},
	}, nil
}

// halves tracks which stream halves are still open. The transport is torn
// down by Writer.Close and, when the writer is already gone, by the final
// Reader.Close.
type halves struct {
	tr transport.Transport

	mu          sync.Mutex
	readClosed  bool
	writeClosed bool
}

func (h *halves) closeRead() {
	h.mu.Lock()
	h.readClosed = true
	teardown := h.writeClosed
	h.mu.Unlock()
	if teardown {
		h.tr.Close()
	}
}

func (h *halves) closeWrite() {
	h.mu.Lock()
	h.writeClosed = true
	h.mu.Unlock()
	h.tr.Close()
}

// Stream is a connected byte stream over a message transport.
type Stream struct {
	r *Reader
	w *Writer
}

// Read implements io.Reader. See [Reader.Read].
func (s *Stream) Read(p []byte) (int, error) { return s.r.Read(p) }

// Write implements io.Writer. See [Writer.Write].
func (s *Stream) Write(p []byte) (int, error) { return s.w.Write(p) }

// Close closes both halves and tears the connection down.
func (s *Stream) Close() error {
	s.w.Close()
	return s.r.Close()
}

// Split hands out the two halves for independent use, typically from
// separate goroutines. The Stream must not be used after Split.
func (s *Stream) Split() (*Reader, *Writer) {
	return s.r, s.w
}

var _ io.ReadWriteCloser = (*Stream)(nil)
