// Package cli provides common utilities for the wsio command-line tool.
//
// This package includes:
//   - Configuration management (named connection contexts)
//   - Output formatting (JSON, YAML, raw)
//   - Terminal styling (lipgloss themes for status lines)
//
// Configuration is stored in ~/.wsio/config.yaml, supporting multiple
// contexts similar to kubectl.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig()
//
//	// Resolve a context by name, falling back to the current one
//	ctx, err := cfg.ResolveContext("")
//
//	// Output result
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	})
package cli
