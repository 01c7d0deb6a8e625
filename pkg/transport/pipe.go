package transport

import (
	"errors"
	"sync"
)

// PipeTransport is one end of an in-memory transport pair. It is mainly
// useful for tests and in-process wiring where no network is involved.
type PipeTransport struct {
	// Rechunk optionally splits each sent payload into several inbound
	// messages on the peer, for exercising message boundaries. Nil
	// delivers each payload as a single message.
	Rechunk func(data []byte) [][]byte

	peer *PipeTransport

	mu     sync.Mutex
	ev     Events
	bound  bool
	closed bool

	deliverMu sync.Mutex // keeps deliveries to the peer in send order
}

// Pipe returns two connected in-memory transports. Each end must be bound
// with Open before it can send or receive.
func Pipe() (a, b *PipeTransport) {
	a = &PipeTransport{}
	b = &PipeTransport{}
	a.peer, b.peer = b, a
	return a, b
}

// Open binds ev to this end and fires its Open event immediately. The url
// is ignored. An end can be bound only once.
func (p *PipeTransport) Open(_ string, ev Events) (Transport, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	if p.bound {
		p.mu.Unlock()
		return nil, errors.New("transport: pipe end already bound")
	}
	p.bound = true
	p.ev = ev
	p.mu.Unlock()

	ev.fireOpen()
	return p, nil
}

// Send delivers one message to the peer. The data is copied, so the caller
// may reuse the slice. Messages sent after the peer closed are dropped.
func (p *PipeTransport) Send(data []byte) error {
	p.mu.Lock()
	closed, bound := p.closed, p.bound
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if !bound {
		return ErrNotOpen
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()
	if p.Rechunk != nil {
		for _, piece := range p.Rechunk(buf) {
			p.peer.deliver(piece)
		}
		return nil
	}
	p.peer.deliver(buf)
	return nil
}

func (p *PipeTransport) deliver(data []byte) {
	p.mu.Lock()
	ev := p.ev
	live := p.bound && !p.closed
	p.mu.Unlock()
	if live {
		ev.fireMessage(data)
	}
}

// Close shuts down both ends. Each bound end receives a Closed event once.
func (p *PipeTransport) Close() error {
	p.closeSide()
	p.peer.closeSide()
	return nil
}

// Fail simulates a connection failure: each bound end receives err as an
// Error event.
func (p *PipeTransport) Fail(err error) {
	p.failSide(err)
	p.peer.failSide(err)
}

func (p *PipeTransport) closeSide() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	ev := p.ev
	bound := p.bound
	p.mu.Unlock()
	if bound {
		ev.fireClosed()
	}
}

func (p *PipeTransport) failSide(err error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	ev := p.ev
	bound := p.bound
	p.mu.Unlock()
	if bound {
		ev.fireError(err)
	}
}

var (
	_ Opener    = (*PipeTransport)(nil)
	_ Transport = (*PipeTransport)(nil)
)
