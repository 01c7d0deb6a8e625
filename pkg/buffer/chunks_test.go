package buffer

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strconv"
	"testing"
	"time"
)

func TestChunks(t *testing.T) {
	t.Run("capacity=1", func(t *testing.T) {
		q := NewChunks(1)
		producerErr := make(chan error, 1)
		go func() {
			for i := byte(1); i <= 3; i++ {
				if err := q.Put([]byte{i}); err != nil {
					producerErr <- fmt.Errorf("put %d with error: %w", i, err)
					return
				}
			}
			q.Terminate(nil)

			if err := q.Put([]byte{4}); err == nil {
				producerErr <- errors.New("put after terminate expected error, but got nil")
				return
			}
			producerErr <- nil
		}()

		for i := byte(1); i <= 3; i++ {
			chunk, err := q.Get()
			if err != nil {
				t.Fatalf("get with error: %v", err)
			}
			if !bytes.Equal(chunk, []byte{i}) {
				t.Fatalf("got=%v, want=[%d]", chunk, i)
			}
		}
		if _, err := q.Get(); !errors.Is(err, io.EOF) {
			t.Errorf("get after drain: err=%v, want io.EOF", err)
		}
		if err := <-producerErr; err != nil {
			t.Fatal(err)
		}
	})

	t.Run("capacity=2", func(t *testing.T) {
		q := NewChunks(2)
		if q.Cap() != 2 {
			t.Fatalf("cap=%d, want 2", q.Cap())
		}
		producerErr := make(chan error, 1)
		go func() {
			for i := byte(1); i <= 5; i++ {
				if err := q.Put([]byte{i, i}); err != nil {
					producerErr <- fmt.Errorf("put %d with error: %w", i, err)
					return
				}
			}
			q.Terminate(nil)
			producerErr <- nil
		}()

		for i := byte(1); i <= 5; i++ {
			chunk, err := q.Get()
			if err != nil {
				t.Fatalf("get with error: %v", err)
			}
			if !bytes.Equal(chunk, []byte{i, i}) {
				t.Fatalf("got=%v, want=[%d %d]", chunk, i, i)
			}
		}
		if _, err := q.Get(); !errors.Is(err, io.EOF) {
			t.Errorf("get after drain: err=%v, want io.EOF", err)
		}
		if err := <-producerErr; err != nil {
			t.Fatal(err)
		}
	})

	for i := 1; i <= 64; i *= 2 {
		capacity := i
		t.Run("large.capacity="+strconv.Itoa(i), func(t *testing.T) {
			q := NewChunks(capacity)

			data := make([]byte, 10240)
			rand.Read(data)
			go func() {
				for i := 0; i < len(data); {
					n := int(data[i])%251 + 1
					if i+n > len(data) {
						n = len(data) - i
					}
					if err := q.Put(data[i : i+n]); err != nil {
						q.CloseWithError(err)
						return
					}
					i += n
				}
				q.Terminate(nil)
			}()

			var got []byte
			for {
				chunk, err := q.Get()
				if err != nil {
					if errors.Is(err, io.EOF) {
						break
					}
					t.Fatalf("get with error: %v", err)
				}
				got = append(got, chunk...)
			}
			if !bytes.Equal(got, data) {
				t.Fatalf("drained %d bytes, want %d, content mismatch", len(got), len(data))
			}
		})
	}
}

func TestChunksOrdering(t *testing.T) {
	q := NewChunks(8)
	for i := byte(0); i < 8; i++ {
		if err := q.Put([]byte{i}); err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
	}
	if q.Len() != 8 {
		t.Fatalf("len=%d, want 8", q.Len())
	}
	for i := byte(0); i < 8; i++ {
		chunk, err := q.Get()
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if chunk[0] != i {
			t.Fatalf("got chunk %d at position %d", chunk[0], i)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("len=%d after drain, want 0", q.Len())
	}
}

func TestChunksTerminate(t *testing.T) {
	t.Run("clean termination drains then EOF", func(t *testing.T) {
		q := NewChunks(4)
		q.Put([]byte{1})
		q.Put([]byte{2})
		q.Terminate(nil)

		for i := byte(1); i <= 2; i++ {
			chunk, err := q.Get()
			if err != nil {
				t.Fatalf("get with error: %v", err)
			}
			if chunk[0] != i {
				t.Fatalf("got=%v, want=[%d]", chunk, i)
			}
		}
		for n := 0; n < 2; n++ {
			if _, err := q.Get(); !errors.Is(err, io.EOF) {
				t.Fatalf("get after drain: err=%v, want io.EOF", err)
			}
		}
	})

	t.Run("failed termination drains then error", func(t *testing.T) {
		boom := errors.New("boom")
		q := NewChunks(4)
		q.Put([]byte{1})
		q.Terminate(boom)

		chunk, err := q.Get()
		if err != nil {
			t.Fatalf("get with error: %v", err)
		}
		if chunk[0] != 1 {
			t.Fatalf("got=%v, want=[1]", chunk)
		}
		if _, err := q.Get(); !errors.Is(err, boom) {
			t.Fatalf("get after drain: err=%v, want boom", err)
		}
	})

	t.Run("first terminate wins", func(t *testing.T) {
		first := errors.New("first")
		q := NewChunks(4)
		q.Terminate(first)
		q.Terminate(errors.New("second"))
		q.Terminate(nil)

		if _, err := q.Get(); !errors.Is(err, first) {
			t.Fatalf("get: err=%v, want first", err)
		}
	})

	t.Run("unblocks waiting get", func(t *testing.T) {
		q := NewChunks(4)
		got := make(chan error, 1)
		go func() {
			_, err := q.Get()
			got <- err
		}()

		time.Sleep(10 * time.Millisecond)
		q.Terminate(nil)

		select {
		case err := <-got:
			if !errors.Is(err, io.EOF) {
				t.Fatalf("get: err=%v, want io.EOF", err)
			}
		case <-time.After(time.Second):
			t.Fatal("get still blocked after terminate")
		}
	})
}

func TestChunksClose(t *testing.T) {
	t.Run("fails fast despite buffered chunks", func(t *testing.T) {
		boom := errors.New("boom")
		q := NewChunks(4)
		q.Put([]byte{1})
		q.CloseWithError(boom)

		if _, err := q.Get(); !errors.Is(err, boom) {
			t.Fatalf("get: err=%v, want boom", err)
		}
		if err := q.Put([]byte{2}); !errors.Is(err, boom) {
			t.Fatalf("put: err=%v, want boom", err)
		}
		if q.Len() != 0 {
			t.Fatalf("len=%d after close, want 0", q.Len())
		}
	})

	t.Run("nil error defaults to ErrClosedPipe", func(t *testing.T) {
		q := NewChunks(1)
		q.CloseWithError(nil)
		if _, err := q.Get(); !errors.Is(err, io.ErrClosedPipe) {
			t.Fatalf("get: err=%v, want io.ErrClosedPipe", err)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		first := errors.New("first")
		q := NewChunks(1)
		if err := q.CloseWithError(first); err != nil {
			t.Fatalf("close: %v", err)
		}
		if err := q.CloseWithError(errors.New("second")); err != nil {
			t.Fatalf("second close: %v", err)
		}
		if _, err := q.Get(); !errors.Is(err, first) {
			t.Fatalf("get: err=%v, want first", err)
		}
	})

	t.Run("terminate after close is ignored", func(t *testing.T) {
		q := NewChunks(1)
		q.Close()
		q.Terminate(nil)
		if _, err := q.Get(); !errors.Is(err, io.ErrClosedPipe) {
			t.Fatalf("get: err=%v, want io.ErrClosedPipe", err)
		}
	})
}

func TestChunksBackpressure(t *testing.T) {
	q := NewChunks(2)
	q.Put([]byte{1})
	q.Put([]byte{2})

	done := make(chan error, 1)
	go func() {
		done <- q.Put([]byte{3})
	}()

	// The third put must suspend, not drop or grow the queue.
	select {
	case err := <-done:
		t.Fatalf("put beyond capacity returned early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	if q.Len() != 2 {
		t.Fatalf("len=%d while producer blocked, want 2", q.Len())
	}

	chunk, err := q.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if chunk[0] != 1 {
		t.Fatalf("got=%v, want=[1]", chunk)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("put after space freed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("put still blocked after space freed")
	}

	// Nothing lost: the remaining chunks come out in order.
	for i := byte(2); i <= 3; i++ {
		chunk, err := q.Get()
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if chunk[0] != i {
			t.Fatalf("got=%v, want=[%d]", chunk, i)
		}
	}
}

func TestChunksCloseUnblocksPut(t *testing.T) {
	q := NewChunks(1)
	q.Put([]byte{1})

	done := make(chan error, 1)
	go func() {
		done <- q.Put([]byte{2})
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case err := <-done:
		if !errors.Is(err, io.ErrClosedPipe) {
			t.Fatalf("put: err=%v, want io.ErrClosedPipe", err)
		}
	case <-time.After(time.Second):
		t.Fatal("put still blocked after close")
	}
}

func BenchmarkChunks(b *testing.B) {
	q := NewChunks(4)
	chunk := make([]byte, 256)
	rand.Read(chunk)
	go func() {
		for {
			if err := q.Put(chunk); err != nil {
				return
			}
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := q.Get(); err != nil {
			b.Fatalf("get: %v", err)
		}
	}
	q.Close()
}
