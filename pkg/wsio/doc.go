// Package wsio turns a message-oriented WebSocket connection into an
// ordinary byte stream.
//
// Inbound messages are queued as chunks and drained through a [Reader]
// that hides message boundaries behind the io.Reader contract, carrying
// partial chunks across calls. Outbound writes go through a [Writer] that
// maps each Write to one message on the wire. [Dial] returns a connected
// [Stream] bundling both halves; [Stream.Split] hands them out for use
// from separate goroutines.
//
// The inbound queue is bounded. While it is full the connection's read
// loop stalls, so a slow consumer backpressures the peer instead of
// growing memory.
//
// A clean shutdown by the peer surfaces as io.EOF once all received data
// has been read; a connection failure surfaces as a *TransportError in the
// same way. Reads never drop data that arrived before the shutdown.
//
// # Example
//
//	stream, err := wsio.Dial(ctx, "localhost:8000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r, w := stream.Split()
//
//	go func() {
//	    w.Write([]byte("hello"))
//	    w.Close()
//	}()
//
//	buf := make([]byte, 1024)
//	for {
//	    n, err := r.Read(buf)
//	    if err != nil {
//	        break // io.EOF after the peer closes
//	    }
//	    process(buf[:n])
//	}
package wsio
