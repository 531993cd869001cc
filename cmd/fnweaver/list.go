package main

import (
	"github.com/spf13/cobra"

	"github.com/drblury/fnweaver/manifest"
)

func newListCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Assemble the tree and print the deployment manifest as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.assemble()
			if err != nil {
				return err
			}
			return manifest.Build(a.Exports(), a.Routes()).WriteJSON(cmd.OutOrStdout())
		},
	}
}
