package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <junction.yaml>",
		Short: "Check a junction's records and topology without generating rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runValidate(ctx, g, args[0])
		},
	}
}

func runValidate(ctx context.Context, g *globalOptions, path string) error {
	j, err := g.load(path)
	if err != nil {
		return err
	}
	c, err := g.compiler()
	if err != nil {
		return err
	}

	vr, err := c.Validate(ctx, j.Graph)
	if err != nil {
		return err
	}
	if err := vr.Err(); err != nil {
		fmt.Fprintf(g.stdout, "%s: %d violation(s)\n", j.Name, len(vr.Violations))
		printViolations(g.stdout, vr.Violations)
		return err
	}
	fmt.Fprintf(g.stdout, "%s: ok (%d stages, %d transitions)\n",
		j.Name, len(j.Graph.StageIDs()), len(j.Graph.Transitions()))
	return nil
}
