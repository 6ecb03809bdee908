package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/actionpack"
	"github.com/aretw0/actionpack/internal/adapters/file"
	"github.com/aretw0/actionpack/internal/codec"
	"github.com/aretw0/actionpack/internal/compiler"
	"github.com/aretw0/actionpack/internal/logging"
	"github.com/aretw0/actionpack/pkg/adapters/memory"
	"github.com/aretw0/actionpack/pkg/observability"
	"github.com/aretw0/actionpack/pkg/ports"
	"github.com/aretw0/actionpack/pkg/runner"
)

type runOptions struct {
	actions string
	state   string
	props   string
	out     string
	session string
	diff    bool
	metrics bool
}

func newRunCmd() *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run <action>",
		Short: "Dispatch an action against a state",
		Long: `Loads the action manifest, seeds the state from --state (or the stored
session), dispatches the action with --props and writes the next state.`,
		Example: `  actionpack run --state s.yaml --actions a.yaml incr --props '{by: 3}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, args[0], o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.actions, "actions", "a", "", "Action manifest (YAML or JSON)")
	f.StringVarP(&o.state, "state", "s", "", "Initial state file (YAML or JSON)")
	f.StringVarP(&o.props, "props", "p", "", "Props as a YAML document")
	f.StringVarP(&o.out, "out", "o", "", "Write the next state to this file instead of stdout")
	f.StringVar(&o.session, "session", "", "Persist state in the named session under --dir")
	f.BoolVar(&o.diff, "diff", false, "Print the changed paths and a diff to stderr")
	f.BoolVar(&o.metrics, "metrics", false, "Print dispatch metrics to stderr in Prometheus text format")
	_ = cmd.MarkFlagRequired("actions")
	return cmd
}

func runAction(cmd *cobra.Command, name string, o runOptions) error {
	ctx := cmd.Context()
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := logging.ForVerbosity(verbose)

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}
	pack := actionpack.New(actionpack.WithLogger(logger), actionpack.WithHooks(metrics.Hooks()))

	manifest, err := loadManifest(o.actions)
	if err != nil {
		return err
	}
	middleware, err := compiler.Compile(manifest, pack)
	if err != nil {
		return err
	}

	props, err := codec.Unmarshal([]byte(o.props), codec.YAML)
	if err != nil {
		return fmt.Errorf("invalid --props: %w", err)
	}

	var store ports.StateStore = memory.NewStore()
	sessionID := runner.DefaultSessionID
	if o.session != "" {
		if store, err = sessionStore(cmd); err != nil {
			return err
		}
		sessionID = o.session
	}

	r := runner.NewRunner(pack.WithMiddleware(middleware...),
		runner.WithStore(store),
		runner.WithSessionID(sessionID),
		runner.WithLogger(logger),
	)

	if o.state != "" {
		state, err := readState(o.state)
		if err != nil {
			return err
		}
		if err := r.Seed(ctx, state); err != nil {
			return err
		}
	}

	prev, err := r.State(ctx)
	if err != nil {
		return err
	}
	if err := r.Run(ctx, name, props); err != nil {
		return err
	}
	next, err := r.State(ctx)
	if err != nil {
		return err
	}

	format, err := outputFormat(cmd, o.out)
	if err != nil {
		return err
	}
	data, err := codec.Marshal(next, format)
	if err != nil {
		return err
	}
	if o.out != "" {
		if err := file.WriteAtomic(o.out, data); err != nil {
			return fmt.Errorf("failed to write %s: %w", o.out, err)
		}
	} else if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return err
	}

	if o.diff {
		printDiff(cmd.ErrOrStderr(), prev, next)
	}
	if o.metrics {
		return writeMetrics(cmd.ErrOrStderr(), reg)
	}
	return nil
}
