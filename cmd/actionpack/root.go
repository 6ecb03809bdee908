package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "actionpack",
		Short: "actionpack dispatches declarative actions against YAML or JSON state",
		Long: `actionpack loads an action manifest, applies one action to a state document
and prints the next state. Effects the action emits, such as chained actions,
are performed before the command returns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all commands)
	root.PersistentFlags().BoolP("verbose", "v", false, "Log dispatch cycles to stderr")
	root.PersistentFlags().String("dir", filepath.Join(".actionpack", "sessions"), "Directory holding persistent sessions")
	root.PersistentFlags().String("format", "", "Output format: yaml or json")
	root.PersistentFlags().StringSlice("redact", nil, "Mask values of keys matching these patterns in persistent sessions")

	root.AddCommand(newRunCmd(), newGraphCmd(), newPathCmd(), newSessionCmd(), newVersionCmd())
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
