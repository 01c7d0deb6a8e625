package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// closeWriteTimeout bounds the best-effort close frame written on Close.
const closeWriteTimeout = 5 * time.Second

// Dialer opens WebSocket transports. The zero value is ready to use.
type Dialer struct {
	// HandshakeTimeout bounds the WebSocket handshake. Zero means no
	// limit; callers typically bound the whole connect by closing the
	// transport instead.
	HandshakeTimeout time.Duration

	// TLSConfig is used for wss:// connections. Nil means defaults.
	TLSConfig *tls.Config

	// Subprotocols lists the requested subprotocols, if any.
	Subprotocols []string

	// Header is sent with the handshake request, if non-nil.
	Header http.Header
}

// Open starts a WebSocket connection to rawURL. Only ws:// and wss://
// schemes are accepted. The dial itself runs in the background; its
// outcome arrives as an Open or Error event.
func (d *Dialer) Open(rawURL string, ev Events) (Transport, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("transport: parse url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("transport: unsupported scheme %q", u.Scheme)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &wsTransport{ev: ev, cancel: cancel}

	wd := &websocket.Dialer{
		HandshakeTimeout: d.HandshakeTimeout,
		TLSClientConfig:  d.TLSConfig,
		Subprotocols:     d.Subprotocols,
	}
	slog.Debug("transport: dialing", "url", rawURL)
	go t.run(ctx, wd, rawURL, d.Header)

	return t, nil
}

// wsTransport is a WebSocket-backed Transport. All events fire from the
// single goroutine started in run, so the terminal event is delivered
// exactly once.
type wsTransport struct {
	ev     Events
	cancel context.CancelFunc

	mu     sync.Mutex
	conn   *websocket.Conn
	open   bool
	closed bool

	writeMu sync.Mutex // serializes data frames
}

func (t *wsTransport) run(ctx context.Context, d *websocket.Dialer, rawURL string, header http.Header) {
	conn, resp, err := d.DialContext(ctx, rawURL, header)
	if err != nil {
		t.mu.Lock()
		wasClosed := t.closed
		t.closed = true
		t.mu.Unlock()
		if wasClosed {
			t.ev.fireClosed()
			return
		}
		if resp != nil {
			err = fmt.Errorf("transport: dial: %w (http status %d)", err, resp.StatusCode)
		} else {
			err = fmt.Errorf("transport: dial: %w", err)
		}
		t.ev.fireError(err)
		return
	}

	t.mu.Lock()
	if t.closed {
		// Close raced the handshake.
		t.mu.Unlock()
		conn.Close()
		t.ev.fireClosed()
		return
	}
	t.conn = conn
	t.open = true
	t.mu.Unlock()

	slog.Debug("transport: connected", "url", rawURL)
	t.ev.fireOpen()
	t.readPump(conn)
}

func (t *wsTransport) readPump(conn *websocket.Conn) {
	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			t.mu.Lock()
			wasClosed := t.closed
			t.closed = true
			t.mu.Unlock()
			conn.Close()
			if wasClosed || isCleanClose(err) {
				slog.Debug("transport: closed")
				t.ev.fireClosed()
			} else {
				t.ev.fireError(fmt.Errorf("transport: read: %w", err))
			}
			return
		}
		if typ != websocket.BinaryMessage {
			continue
		}
		t.ev.fireMessage(data)
	}
}

// isCleanClose reports whether a read error represents an orderly shutdown
// by the peer rather than a connection failure.
func isCleanClose(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

func (t *wsTransport) Send(data []byte) error {
	t.mu.Lock()
	conn, open, closed := t.conn, t.open, t.closed
	t.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if !open {
		return ErrNotOpen
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return fmt.Errorf("transport: send: %w", err)
	}
	return nil
}

func (t *wsTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	conn := t.conn
	t.mu.Unlock()

	// Abort an in-flight dial, if any.
	t.cancel()

	if conn == nil {
		return nil
	}
	// Best effort: tell the peer before tearing down. WriteControl is
	// safe concurrently with WriteMessage.
	deadline := time.Now().Add(closeWriteTimeout)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return conn.Close()
}

var (
	_ Opener    = (*Dialer)(nil)
	_ Transport = (*wsTransport)(nil)
)
