package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/streamgear/wsio/pkg/cli"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage wsio configuration.

Configuration is stored in ~/.wsio/config.yaml`,
}

// contextCmd represents the context subcommand
var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage contexts",
	Long:  `Manage wsio contexts for different endpoints.`,
}

// contextListCmd lists all contexts
var contextListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		names := cfg.ListContexts()
		if len(names) == 0 {
			fmt.Println("No contexts configured.")
			fmt.Println("\nCreate one with:")
			fmt.Println("  wsio config context set dev --addr=localhost:8000")
			return nil
		}

		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tURL")

		for _, name := range names {
			ctx, _ := cfg.GetContext(name)

			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}

			fmt.Fprintf(w, "%s\t%s\t%s\n", current, name, ctx.URL())
		}
		w.Flush()

		return nil
	},
}

// contextUseCmd switches the current context
var contextUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch to a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		name := args[0]
		if err := cfg.UseContext(name); err != nil {
			return err
		}
		fmt.Printf("Switched to context %q\n", name)
		return nil
	},
}

// contextSetCmd creates or updates a context
var contextSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update a context",
	Long: `Create or update a context with the specified settings.

Examples:
  # Create a new context
  wsio config context set dev --addr=localhost:8000

  # Update an existing context
  wsio config context set dev --addr=localhost:9000 --queue-size=16

  # TLS endpoint with a handshake header
  wsio config context set prod --addr=stream.example.com:443 --tls \
    --header="Authorization: Bearer token"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		name := args[0]
		ctx, err := cfg.GetContext(name)
		if err != nil {
			ctx = &cli.Context{Name: name}
		}

		if cmd.Flags().Changed("addr") {
			ctx.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("tls") {
			ctx.TLS, _ = cmd.Flags().GetBool("tls")
		}
		if cmd.Flags().Changed("queue-size") {
			ctx.QueueSize, _ = cmd.Flags().GetInt("queue-size")
		}
		if cmd.Flags().Changed("timeout") {
			ctx.Timeout, _ = cmd.Flags().GetInt("timeout")
		}
		if cmd.Flags().Changed("header") {
			headers, _ := cmd.Flags().GetStringArray("header")
			for _, h := range headers {
				key, value, ok := strings.Cut(h, ":")
				if !ok {
					return fmt.Errorf("invalid header %q (want key: value)", h)
				}
				if ctx.Headers == nil {
					ctx.Headers = map[string]string{}
				}
				ctx.Headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}
		}

		if ctx.Addr == "" {
			return fmt.Errorf("context %q has no address, set one with --addr", name)
		}

		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}

		fmt.Printf("Context %q saved\n", name)
		return nil
	},
}

// contextDeleteCmd deletes a context
var contextDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		name := args[0]
		if err := cfg.DeleteContext(name); err != nil {
			return err
		}
		fmt.Printf("Context %q deleted\n", name)
		return nil
	},
}

// contextShowCmd shows the current context details
var contextShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show context details",
	Long:  `Show details of a context. If no name is provided, shows the current context.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		var ctx *cli.Context
		var name string

		if len(args) > 0 {
			name = args[0]
			ctx, err = cfg.GetContext(name)
		} else {
			if cfg.CurrentContext == "" {
				return fmt.Errorf("no current context set. Use 'wsio config context use <name>' to set one")
			}
			name = cfg.CurrentContext
			ctx, err = cfg.GetCurrentContext()
		}
		if err != nil {
			return err
		}

		if format, _ := cmd.Flags().GetString("output"); format != "" {
			return cli.Output(ctx, cli.OutputOptions{Format: cli.OutputFormat(format)})
		}

		fmt.Printf("Context: %s", name)
		if name == cfg.CurrentContext {
			fmt.Print(" (current)")
		}
		fmt.Println()
		fmt.Println(strings.Repeat("-", 40))
		fmt.Printf("URL:          %s\n", ctx.URL())
		fmt.Printf("Queue Size:   %s\n", intOrDefault(ctx.QueueSize))
		fmt.Printf("Timeout:      %s\n", timeoutOrDefault(ctx.Timeout))
		fmt.Printf("Headers:      %s\n", headersSummary(ctx.Headers))
		fmt.Println()
		fmt.Printf("Config file: %s\n", cfg.Path())

		return nil
	},
}

// contextCurrentCmd shows the current context name
var contextCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show current context name",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		if cfg.CurrentContext == "" {
			fmt.Println("No current context set")
			return nil
		}
		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

func intOrDefault(v int) string {
	if v == 0 {
		return "(default)"
	}
	return fmt.Sprintf("%d", v)
}

func timeoutOrDefault(seconds int) string {
	if seconds == 0 {
		return "(default)"
	}
	return fmt.Sprintf("%ds", seconds)
}

func headersSummary(headers map[string]string) string {
	if len(headers) == 0 {
		return "(none)"
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+headers[k])
	}
	return strings.Join(parts, ", ")
}

func init() {
	configCmd.AddCommand(contextCmd)

	contextCmd.AddCommand(contextListCmd)
	contextCmd.AddCommand(contextUseCmd)
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextDeleteCmd)
	contextCmd.AddCommand(contextShowCmd)
	contextCmd.AddCommand(contextCurrentCmd)

	contextSetCmd.Flags().String("addr", "", "endpoint address (host:port with optional path)")
	contextSetCmd.Flags().Bool("tls", false, "connect with TLS (wss://)")
	contextSetCmd.Flags().Int("queue-size", 0, "inbound queue capacity in chunks")
	contextSetCmd.Flags().Int("timeout", 0, "connect timeout in seconds")
	contextSetCmd.Flags().StringArray("header", nil, "handshake header (key: value), repeatable")

	contextShowCmd.Flags().StringP("output", "o", "", "output format (json, yaml)")

	rootCmd.AddCommand(configCmd)
}
