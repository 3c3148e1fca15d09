package cli

import (
	"fmt"

	"github.com/mmynk/splitchamp/internal/calculator"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newTipCmd(a *app) *cobra.Command {
	var subtotal, tax, percent, fixed string

	cmd := &cobra.Command{
		Use:   "tip",
		Short: "Suggest a tip and the resulting bill total",
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]decimal.Decimal, 3)
			for i, raw := range []string{subtotal, tax, percent} {
				d, err := decimal.NewFromString(raw)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", raw, err)
				}
				values[i] = d
			}

			var fixedTip *decimal.Decimal
			if fixed != "" {
				d, err := decimal.NewFromString(fixed)
				if err != nil {
					return fmt.Errorf("invalid fixed tip %q: %w", fixed, err)
				}
				fixedTip = &d
			}

			tip, err := calculator.SuggestTip(values[0], values[1], values[2], fixedTip)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Tip:   %s\nTotal: %s\n", tip.Tip.StringFixed(2), tip.Total.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVarP(&subtotal, "subtotal", "s", "", "Bill amount before tax and tip")
	cmd.Flags().StringVarP(&tax, "tax", "t", "0", "Tax on the bill")
	cmd.Flags().StringVarP(&percent, "percent", "p", "18", "Tip percentage of the subtotal")
	cmd.Flags().StringVarP(&fixed, "fixed", "f", "", "Fixed tip amount, overrides --percent")
	_ = cmd.MarkFlagRequired("subtotal")
	return cmd
}
