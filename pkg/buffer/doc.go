// Package buffer provides a bounded, thread-safe chunk queue for streaming
// data between producers and consumers.
//
// Chunks is a fixed-capacity FIFO of byte slices. Producers call Put, which
// blocks while the queue is full, and consumers call Get, which blocks while
// the queue is empty. Chunk boundaries are preserved: each Get returns exactly
// one slice previously passed to Put.
//
// A queue shuts down in one of two ways:
//
//   - Terminate marks the producing side finished. Buffered chunks remain
//     readable; once drained, Get reports io.EOF (or the error passed to
//     Terminate).
//
//   - CloseWithError abandons the queue. Buffered chunks are discarded and
//     every pending or future Put and Get fails immediately.
//
// Example usage:
//
//	q := buffer.NewChunks(4)
//
//	go func() {
//		q.Put([]byte("hello"))
//		q.Terminate(nil)
//	}()
//
//	for {
//		chunk, err := q.Get()
//		if err != nil {
//			break // io.EOF after the last chunk
//		}
//		process(chunk)
//	}
package buffer
