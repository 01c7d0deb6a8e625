package wsio

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/streamgear/wsio/pkg/buffer"
)

// Reader is the read half of a stream. It drains the inbound chunk queue
// and carries the unconsumed remainder of the last chunk across calls, so
// message boundaries on the wire never show through to callers.
//
// A Reader is owned by a single goroutine; it is not safe for concurrent
// readers.
type Reader struct {
	q      *buffer.Chunks
	h      *halves
	carry  []byte
	closed atomic.Bool
}

// Read copies buffered bytes into p. With nothing buffered it blocks until
// a chunk arrives, the peer finishes, or the connection fails. A chunk
// larger than p is returned across several reads; a smaller one yields a
// short read. After the peer is done and all data is drained, Read returns
// io.EOF for a clean shutdown or a *TransportError for a failure.
func (r *Reader) Read(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	// Zero-length chunks are skipped here; returning (0, nil) would
	// violate the io.Reader contract.
	for len(r.carry) == 0 {
		chunk, err := r.q.Get()
		if err != nil {
			return 0, err
		}
		r.carry = chunk
	}
	n := copy(p, r.carry)
	if n == len(r.carry) {
		r.carry = nil
	} else {
		r.carry = r.carry[n:]
	}
	return n, nil
}

// Peek returns the buffered unread bytes without consuming them, dequeuing
// one chunk when nothing is buffered. It blocks exactly as Read does. The
// returned slice stays valid until the next Read, Discard, or ReadBytes
// call; repeated peeks return the same bytes.
func (r *Reader) Peek() ([]byte, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	for len(r.carry) == 0 {
		chunk, err := r.q.Get()
		if err != nil {
			return nil, err
		}
		r.carry = chunk
	}
	return r.carry, nil
}

// Discard consumes the first n bytes previously returned by Peek. It
// panics if n is negative or exceeds the buffered count; callers must only
// discard what they have peeked.
func (r *Reader) Discard(n int) {
	if n < 0 || n > len(r.carry) {
		panic(fmt.Sprintf("wsio: Discard(%d) with %d bytes buffered", n, len(r.carry)))
	}
	if n == len(r.carry) {
		r.carry = nil
		return
	}
	r.carry = r.carry[n:]
}

// ReadBytes reads until the first occurrence of delim, returning the bytes
// up to and including the delimiter. If the stream ends first, it returns
// the bytes read so far together with the terminal error.
func (r *Reader) ReadBytes(delim byte) ([]byte, error) {
	var out []byte
	for {
		buf, err := r.Peek()
		if err != nil {
			return out, err
		}
		if i := bytes.IndexByte(buf, delim); i >= 0 {
			out = append(out, buf[:i+1]...)
			r.Discard(i + 1)
			return out, nil
		}
		out = append(out, buf...)
		r.Discard(len(buf))
	}
}

// Close releases the read half. Buffered and future inbound data is
// discarded and pending reads fail with ErrClosed. The write half stays
// usable; the connection itself is torn down once both halves are closed.
// Close is idempotent and always returns nil.
func (r *Reader) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	r.q.CloseWithError(ErrClosed)
	r.h.closeRead()
	return nil
}
