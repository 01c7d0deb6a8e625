package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/streamgear/wsio/pkg/cli"
)

var echoPath string

// echoCmd runs a WebSocket echo server, mostly for testing pipe and demo.
var echoCmd = &cobra.Command{
	Use:   "echo <listen-addr>",
	Short: "Run a WebSocket echo server",
	Long: `Listen for WebSocket connections and echo every binary message back
to its sender. Text frames are ignored.

Examples:
  wsio echo :8000
  wsio echo localhost:8000 --path /stream`,
	Args: cobra.ExactArgs(1),
	RunE: runEcho,
}

func init() {
	rootCmd.AddCommand(echoCmd)

	echoCmd.Flags().StringVar(&echoPath, "path", "/", "HTTP path to serve the endpoint on")
}

var echoUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func handleEcho(w http.ResponseWriter, r *http.Request) {
	conn, err := echoUpgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	id := uuid.NewString()[:8]
	log := slog.With("conn", id, "remote", r.RemoteAddr)
	log.Info("connection opened")

	var messages, bytes int64
	start := time.Now()
	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if typ != websocket.BinaryMessage {
			log.Debug("ignoring non-binary frame", "type", typ)
			continue
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			log.Error("echo write failed", "error", err)
			break
		}
		messages++
		bytes += int64(len(data))
	}

	conn.Close()
	log.Info("connection closed",
		"messages", messages,
		"bytes", bytes,
		"duration", time.Since(start).Round(time.Millisecond))
}

func runEcho(cmd *cobra.Command, args []string) error {
	addr := args[0]
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	mux := http.NewServeMux()
	mux.HandleFunc(echoPath, handleEcho)

	server := &http.Server{Addr: addr, Handler: mux}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cli.PrintStatus("shutting down")
		server.Shutdown(context.Background())
	}()

	cli.PrintSuccess("echo server listening on %s%s", addr, echoPath)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("echo server: %w", err)
	}
	return nil
}
