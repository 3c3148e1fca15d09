package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategorizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categorize DESCRIPTION...",
		Short: "Classify receipt lines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.categorizer()
			if err != nil {
				return err
			}
			for _, desc := range args {
				fmt.Fprintf(a.out, "%-10s %s\n", cat.Categorize(desc), desc)
			}
			return nil
		},
	}
}
