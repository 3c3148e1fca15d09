package cli

import (
	"errors"
	"fmt"

	"github.com/mmynk/splitchamp/internal/calculator"
	"github.com/mmynk/splitchamp/internal/models"
	"github.com/spf13/cobra"
)

// errDiscrepancy makes check exit non-zero without printing a second message.
var errDiscrepancy = errors.New("itemized expenses do not add up")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Compare itemized expenses with their receipt totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSession(args[0])
			if err != nil {
				return err
			}

			var bad int
			for _, e := range s.Expenses() {
				if e.SplitMethod != models.SplitItemized {
					continue
				}
				diff := calculator.ItemizationDiscrepancy(&e)
				label := e.Description
				if label == "" {
					label = e.ID
				}
				switch {
				case diff.IsZero():
					fmt.Fprintf(a.out, "ok      %s\n", label)
				case diff.IsPositive():
					bad++
					fmt.Fprintf(a.out, "short   %s: items are %s below the total\n", label, diff.StringFixed(2))
				default:
					bad++
					fmt.Fprintf(a.out, "over    %s: items are %s above the total\n", label, diff.Neg().StringFixed(2))
				}
			}

			if bad > 0 {
				a.log.Warn("Discrepancies found", "expenses", bad)
				return errDiscrepancy
			}
			return nil
		},
	}
}
