package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteAllCmd(root *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every persona stored by the service",
		Long: `Delete every persona stored by the generation service.

This cannot be undone, so --yes is required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete all personas without --yes")
			}
			msg, err := root.client().DeleteAll(cmd.Context())
			if err != nil {
				return userError(err)
			}
			if msg == "" {
				msg = "All personas deleted."
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}
