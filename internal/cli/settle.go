package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/mmynk/splitchamp/internal/calculator"
	"github.com/mmynk/splitchamp/internal/models"
	"github.com/spf13/cobra"
)

func newSettleCmd(a *app) *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "settle FILE",
		Short: "Print balances and the transfers that settle a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSession(args[0])
			if err != nil {
				return err
			}
			if policy != "" {
				p := models.UnassignedPolicy(policy)
				if !p.Valid() {
					return fmt.Errorf("unknown policy %q", policy)
				}
				s.SetPolicy(p)
			}

			name := names(s.Participants())
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)

			fmt.Fprintln(w, "PARTICIPANT\tPAID\tOWED\tNET")
			for _, b := range s.Balances() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					name(b.ParticipantID),
					calculator.RoundCents(b.TotalPaid).StringFixed(2),
					calculator.RoundCents(b.TotalOwed).StringFixed(2),
					calculator.RoundCents(b.NetBalance).StringFixed(2),
				)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			transfers := s.Transfers()
			fmt.Fprintln(a.out)
			if len(transfers) == 0 {
				fmt.Fprintln(a.out, "All settled up.")
				return nil
			}
			for _, t := range transfers {
				fmt.Fprintf(a.out, "%s pays %s %s\n", name(t.From), name(t.To), t.Amount.StringFixed(2))
			}

			totals := s.Totals()
			fmt.Fprintf(a.out, "\nSpent %s, %s changes hands in %d transfers.\n",
				calculator.RoundCents(totals.Spent).StringFixed(2),
				totals.ToSettle.StringFixed(2),
				len(transfers),
			)
			if n := len(s.UnassignedItems()); n > 0 {
				fmt.Fprintf(a.out, "%d items are not assigned to anyone (policy %s).\n", n, s.Policy())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&policy, "policy", "p", "", "Override the unassigned item policy (share_with_everyone, leave_unassigned)")
	return cmd
}
