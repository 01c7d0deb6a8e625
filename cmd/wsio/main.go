// wsio is a CLI tool for piping byte streams over WebSocket connections.
//
// Usage:
//
//	wsio pipe localhost:8000        # Bridge stdin/stdout with an endpoint
//	wsio pipe -c staging            # Connect using a named context
//	wsio echo :8000                 # Run an echo server
//	wsio demo                       # Run the read/write demo end to end
//	wsio config context list        # List all contexts
//	wsio config context use dev     # Switch to dev context
//
// Configuration is stored in ~/.wsio/config.yaml
package main

import (
	"os"

	"github.com/streamgear/wsio/cmd/wsio/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
