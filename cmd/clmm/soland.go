package main

import "github.com/spf13/cobra"

func newSolandCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soland",
		Short: "Soland-related operations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "A test command for Soland operations",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			a.println("Soland test command executed.")
		},
	})
	return cmd
}
