package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/actionpack/internal/codec"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage persistent sessions",
		Long:  `List, inspect, and remove sessions stored under --dir by "run --session".`,
	}
	cmd.AddCommand(newSessionLsCmd(), newSessionInspectCmd(), newSessionRmCmd())
	return cmd
}

func newSessionLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List all stored sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sessionStore(cmd)
			if err != nil {
				return err
			}
			sessions, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(w, "No sessions found.")
				return nil
			}
			for _, s := range sessions {
				fmt.Fprintln(w, "- "+s)
			}
			return nil
		},
	}
}

func newSessionInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <session-id>",
		Short: "Print the state of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sessionStore(cmd)
			if err != nil {
				return err
			}
			state, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load session %q: %w", args[0], err)
			}
			format, err := outputFormat(cmd, "")
			if err != nil {
				return err
			}
			data, err := codec.Marshal(state, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newSessionRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <session-id>...",
		Short: "Remove one or more sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sessionStore(cmd)
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := store.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("failed to remove %q: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", id)
			}
			return nil
		},
	}
}
