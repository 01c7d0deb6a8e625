package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/streamgear/wsio/pkg/cli"
)

var (
	cfgFile      string
	contextName  string
	verbose      bool
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wsio",
	Short: "Byte streams over WebSocket",
	Long: `wsio pipes byte streams over WebSocket connections.

It connects to an endpoint and bridges the connection with stdin and
stdout, hiding the message framing behind an ordinary byte stream. An
echo server is included for testing.

Configuration is stored in ~/.wsio/config.yaml and supports multiple
contexts, allowing you to switch between different endpoints.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging, initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.wsio/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context to use (default is current context)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// configErr stores the config load error for deferred reporting.
var configErr error

func initConfig() {
	globalConfig, configErr = cli.LoadConfigWithPath(cfgFile)
}

// initLogging routes logs to stderr, keeping stdout clean for stream data.
func initLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// getConfig returns the global configuration, loading it lazily if the
// initial load failed or has not happened yet.
func getConfig() (*cli.Config, error) {
	if globalConfig == nil {
		if configErr != nil {
			return nil, fmt.Errorf("wsio config: %w", configErr)
		}
		var err error
		globalConfig, err = cli.LoadConfigWithPath(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("wsio config: %w", err)
		}
	}
	return globalConfig, nil
}
