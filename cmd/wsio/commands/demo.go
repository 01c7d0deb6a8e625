package commands

import (
	"fmt"
	"net"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/streamgear/wsio/pkg/cli"
	"github.com/streamgear/wsio/pkg/wsio"
)

// demoCmd exercises the stream API against an in-process echo server.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a self-contained send/receive demonstration",
	Long: `Start an in-process echo server, connect to it, and walk through the
two basic usage patterns: delimited reads with ReadBytes and plain
buffered reads. Useful as a smoke test and as living documentation.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("demo listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", handleEcho)
	server := &http.Server{Handler: mux}
	go server.Serve(ln)
	defer server.Close()

	addr := ln.Addr().String()
	cli.PrintSuccess("echo server on %s", addr)

	if err := demoDelimited(cmd, addr); err != nil {
		return err
	}
	return demoBuffered(cmd, addr)
}

// demoDelimited sends ']'-terminated records and reads them back one
// record at a time, regardless of how the transport chunked them.
func demoDelimited(cmd *cobra.Command, addr string) error {
	fmt.Println("--- delimited reads ---")

	stream, err := wsio.Dial(cmd.Context(), addr)
	if err != nil {
		return err
	}
	defer stream.Close()
	r, w := stream.Split()

	records := [][]byte{
		{0, 1, 2, 3, ']'},
		{42, 34, ']'},
		{0, 0, 1, 2, ']'},
	}
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return err
		}
	}

	for range records {
		line, err := r.ReadBytes(']')
		if err != nil {
			return err
		}
		fmt.Printf("Received: %v\n", line)
	}
	return nil
}

// demoBuffered sends undelimited chunks and reads whatever arrives.
func demoBuffered(cmd *cobra.Command, addr string) error {
	fmt.Println("--- buffered reads ---")

	stream, err := wsio.Dial(cmd.Context(), addr)
	if err != nil {
		return err
	}
	defer stream.Close()
	r, w := stream.Split()

	chunks := [][]byte{
		{0, 1, 2, 3},
		{42, 34},
		{0, 0, 1, 2},
	}
	for _, chunk := range chunks {
		if _, err := w.Write(chunk); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	buf := make([]byte, 1024)
	for range chunks {
		n, err := r.Read(buf)
		if err != nil {
			return err
		}
		fmt.Printf("Received: %v\n", buf[:n])
	}
	return nil
}
