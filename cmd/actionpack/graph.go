package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/actionpack/internal/presentation/graph"
)

func newGraphCmd() *cobra.Command {
	var actions, highlight string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the action chains as a Mermaid diagram",
		Long:  `Reads the action manifest and outputs a Mermaid diagram (graph TD) of its actions and the chains between them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := loadManifest(actions)
			if err != nil {
				return err
			}

			var overlay *graph.Overlay
			if highlight != "" {
				overlay = &graph.Overlay{Current: highlight}
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(manifest, overlay))
			return nil
		},
	}
	cmd.Flags().StringVarP(&actions, "actions", "a", "", "Action manifest (YAML or JSON)")
	cmd.Flags().StringVar(&highlight, "highlight", "", "Action to highlight")
	_ = cmd.MarkFlagRequired("actions")
	return cmd
}
