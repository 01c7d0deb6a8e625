package buffer

import (
	"fmt"
	"io"
	"sync"
)

// Chunks is a thread-safe fixed-capacity FIFO queue of byte chunks. It is
// the bridge between an event-driven producer (a transport delivering one
// chunk per message event) and a pull-based consumer: Put blocks while the
// queue is full, Get blocks while it is empty, giving predictable memory
// usage and flow control in both directions.
//
// The queue distinguishes four states. While open it either has chunks
// (Get returns immediately) or is empty (Get blocks until the next Put).
// Terminate marks the producer side as permanently done: buffered chunks
// are still drained, after which Get reports io.EOF for a clean
// termination or the recorded error for a failed one. CloseWithError is
// the hard teardown: buffered chunks are discarded and every operation
// fails immediately.
type Chunks struct {
	cond *sync.Cond

	mu         sync.Mutex
	buf        [][]byte
	head, tail int64
	done       bool
	doneErr    error
	closeErr   error
}

// NewChunks creates a queue holding at most capacity chunks.
// The capacity is fixed for the queue's lifetime and must be at least 1.
func NewChunks(capacity int) *Chunks {
	if capacity < 1 {
		panic("buffer: chunk queue capacity must be at least 1")
	}
	q := &Chunks{
		buf: make([][]byte, capacity),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Put appends one chunk to the queue, blocking while the queue is full.
// The queue takes ownership of chunk; the caller must not modify it after
// Put returns.
//
// Put fails once the queue has been terminated or closed. A blocked Put is
// unblocked by Get, Terminate, and CloseWithError.
func (q *Chunks) Put(chunk []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closeErr != nil {
		return fmt.Errorf("buffer: put to closed queue: %w", q.closeErr)
	}
	if q.done {
		return fmt.Errorf("buffer: put to closed queue: %w", io.ErrClosedPipe)
	}

	capacity := int64(len(q.buf))
	for q.tail-q.head == capacity {
		q.cond.Wait()
		if q.closeErr != nil {
			return fmt.Errorf("buffer: put to closed queue: %w", q.closeErr)
		}
		if q.done {
			return fmt.Errorf("buffer: put to closed queue: %w", io.ErrClosedPipe)
		}
	}

	q.buf[q.tail%capacity] = chunk
	q.tail++
	q.cond.Signal()
	return nil
}

// Get removes and returns the oldest chunk, blocking while the queue is
// empty and still open. Chunks come out in the exact order they were Put.
//
// Once the queue has been terminated and drained, Get returns io.EOF for
// a clean termination or the error recorded by Terminate. After
// CloseWithError, Get fails immediately regardless of buffered chunks.
func (q *Chunks) Get() ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closeErr != nil {
		return nil, fmt.Errorf("buffer: get from closed queue: %w", q.closeErr)
	}

	for q.head == q.tail {
		if q.done {
			if q.doneErr != nil {
				return nil, q.doneErr
			}
			return nil, io.EOF
		}
		q.cond.Wait()
		if q.closeErr != nil {
			return nil, fmt.Errorf("buffer: get from closed queue: %w", q.closeErr)
		}
	}

	i := q.head % int64(len(q.buf))
	chunk := q.buf[i]
	q.buf[i] = nil
	q.head++
	q.cond.Signal()
	return chunk, nil
}

// Terminate marks the producer side as permanently done. Buffered chunks
// remain readable; once they are drained, Get reports io.EOF if err is
// nil, or err itself otherwise. Subsequent Puts fail.
//
// Terminate is idempotent and the first call wins: later calls (and calls
// after CloseWithError) are ignored. All blocked operations are woken.
func (q *Chunks) Terminate(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.done || q.closeErr != nil {
		return
	}
	q.done = true
	q.doneErr = err
	q.cond.Broadcast()
}

// CloseWithError tears the queue down: buffered chunks are discarded and
// all pending and future operations fail with the given error. If err is
// nil, io.ErrClosedPipe is used. Idempotent; returns nil if the queue was
// already closed.
func (q *Chunks) CloseWithError(err error) error {
	if err == nil {
		err = io.ErrClosedPipe
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closeErr != nil {
		return nil
	}
	q.closeErr = err
	for i := range q.buf {
		q.buf[i] = nil
	}
	q.head = 0
	q.tail = 0
	q.cond.Broadcast()
	return nil
}

// Close is CloseWithError(io.ErrClosedPipe). It implements io.Closer.
func (q *Chunks) Close() error {
	return q.CloseWithError(io.ErrClosedPipe)
}

// Len returns the number of chunks currently buffered.
func (q *Chunks) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int(q.tail - q.head)
}

// Cap returns the queue's fixed capacity.
func (q *Chunks) Cap() int {
	return len(q.buf)
}
