package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/actionpack/pkg/composable"
)

func newPathCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "path <path>",
		Short: "Print the keys a path compiles to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := composable.Split(args[0])
			if strict {
				var err error
				if p, err = composable.CompilePath(args[0]); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if len(p) == 0 {
				fmt.Fprintln(w, "(root)")
				return nil
			}
			for i, k := range p {
				kind := "field"
				if k.Kind() == composable.IndexKey {
					kind = "index"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", i, kind, k.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject malformed paths instead of tokenising leniently")
	return cmd
}
