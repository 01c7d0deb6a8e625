package commands

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/streamgear/wsio/pkg/cli"
	"github.com/streamgear/wsio/pkg/wsio"
)

var (
	pipeTLS       bool
	pipeQueueSize int
	pipeTimeout   time.Duration
	pipeHeaders   []string
)

// pipeCmd bridges stdin/stdout with a WebSocket endpoint.
var pipeCmd = &cobra.Command{
	Use:   "pipe [address]",
	Short: "Bridge stdin/stdout with a WebSocket endpoint",
	Long: `Connect to a WebSocket endpoint and bridge the connection with
stdin and stdout: stdin is sent to the peer, inbound data is written to
stdout. Status lines go to stderr so the output can be piped.

The address is host:port with an optional path. Without an address the
selected context is used.

Examples:
  # Connect and chat with an echo server
  wsio echo :8000 &
  wsio pipe localhost:8000

  # Use the current context, send a file
  wsio pipe < data.bin > response.bin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPipe,
}

func init() {
	rootCmd.AddCommand(pipeCmd)

	pipeCmd.Flags().BoolVar(&pipeTLS, "tls", false, "connect with TLS (wss://)")
	pipeCmd.Flags().IntVar(&pipeQueueSize, "queue-size", 0, "inbound queue capacity in chunks")
	pipeCmd.Flags().DurationVar(&pipeTimeout, "timeout", 0, "connect timeout")
	pipeCmd.Flags().StringArrayVarP(&pipeHeaders, "header", "H", nil, "handshake header (key: value), repeatable")
}

// resolveDial builds the target URL and stream config from the positional
// address, the selected context, and flags. Flags override context values.
func resolveDial(args []string) (string, wsio.Config, error) {
	var config wsio.Config
	var url string

	if len(args) > 0 {
		url = args[0]
		if !strings.Contains(url, "://") {
			scheme := "ws"
			if pipeTLS {
				scheme = "wss"
			}
			url = scheme + "://" + url
		}
	} else {
		cfg, err := getConfig()
		if err != nil {
			return "", config, err
		}
		ctx, err := cfg.ResolveContext(contextName)
		if err != nil {
			return "", config, fmt.Errorf("no address given: %w", err)
		}
		url = ctx.URL()
		config.QueueSize = ctx.QueueSize
		if ctx.Timeout > 0 {
			config.ConnectTimeout = time.Duration(ctx.Timeout) * time.Second
		}
		for key, value := range ctx.Headers {
			if config.Header == nil {
				config.Header = http.Header{}
			}
			config.Header.Set(key, value)
		}
	}

	if pipeQueueSize > 0 {
		config.QueueSize = pipeQueueSize
	}
	if pipeTimeout > 0 {
		config.ConnectTimeout = pipeTimeout
	}
	for _, h := range pipeHeaders {
		key, value, ok := strings.Cut(h, ":")
		if !ok {
			return "", config, fmt.Errorf("invalid header %q (want key: value)", h)
		}
		if config.Header == nil {
			config.Header = http.Header{}
		}
		config.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	return url, config, nil
}

type pumpResult struct {
	n   int64
	err error
}

func runPipe(cmd *cobra.Command, args []string) error {
	url, config, err := resolveDial(args)
	if err != nil {
		return err
	}

	start := time.Now()
	stream, err := wsio.DialConfig(cmd.Context(), url, config)
	if err != nil {
		return err
	}
	defer stream.Close()
	cli.PrintSuccess("connected to %s in %s", url, cli.FormatDuration(time.Since(start)))

	r, w := stream.Split()

	recvDone := make(chan pumpResult, 1)
	go func() {
		n, err := io.Copy(os.Stdout, r)
		recvDone <- pumpResult{n, err}
	}()

	sendDone := make(chan pumpResult, 1)
	go func() {
		n, err := io.Copy(w, os.Stdin)
		if err == nil {
			// Stdin is exhausted; tell the peer we are done writing.
			err = w.Close()
		}
		sendDone <- pumpResult{n, err}
	}()

	// The connection is over when the read half terminates: the peer
	// closed, the transport failed, or our own close completed.
	recv := <-recvDone
	cli.PrintStatus("received %s in %s", cli.FormatBytes(recv.n), cli.FormatDuration(time.Since(start)))

	select {
	case send := <-sendDone:
		if send.err != nil && !errors.Is(send.err, wsio.ErrClosed) {
			cli.PrintError("send: %v", send.err)
		} else {
			cli.PrintStatus("sent %s", cli.FormatBytes(send.n))
		}
	default:
		// Stdin is still open; the process exits without waiting on it.
	}

	return recv.err
}
