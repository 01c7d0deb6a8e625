// Package transport defines a small event-driven connection abstraction
// over message-oriented transports, plus two implementations: a WebSocket
// dialer backed by gorilla/websocket and an in-memory pipe for tests.
//
// An [Opener] starts a connection and reports its lifecycle through
// [Events]: Open once when ready, Message per inbound binary message, then
// exactly one terminal event, Closed or Error. A [Transport] carries
// outbound messages with Send and tears the connection down with Close.
//
// # Example
//
//	d := &transport.Dialer{HandshakeTimeout: 10 * time.Second}
//	tr, err := d.Open("ws://localhost:8000/", transport.Events{
//	    Open:    func() { log.Println("connected") },
//	    Message: func(data []byte) { log.Printf("got %d bytes", len(data)) },
//	    Error:   func(err error) { log.Println("failed:", err) },
//	    Closed:  func() { log.Println("closed") },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tr.Close()
package transport
