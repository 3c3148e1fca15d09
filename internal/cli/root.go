// Package cli implements splitctl, the offline command line front end of the
// settlement engine.
package cli

import (
	"io"
	"log/slog"

	"github.com/mmynk/splitchamp/internal/categorizer"
	"github.com/mmynk/splitchamp/pkg/logging"
	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand.
type app struct {
	out        io.Writer
	log        *slog.Logger
	verbose    bool
	vocabulary string
}

// NewRootCmd builds the splitctl command tree. Results are written to out and
// diagnostics to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out}

	cmd := &cobra.Command{
		Use:           "splitctl",
		Short:         "Settle shared bills from the command line",
		Long:          `splitctl computes balances and the payments that settle a session stored as YAML or JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.log = logging.New(errOut, level)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&a.vocabulary, "vocabulary", "", "YAML file with extra category keywords")

	cmd.AddCommand(
		newSettleCmd(a),
		newCheckCmd(a),
		newCategorizeCmd(a),
		newTipCmd(a),
	)
	return cmd
}

// categorizer returns the categorizer selected by --vocabulary.
func (a *app) categorizer() (*categorizer.Categorizer, error) {
	if a.vocabulary == "" {
		return categorizer.Default, nil
	}
	vocab, err := categorizer.LoadVocabulary(a.vocabulary)
	if err != nil {
		return nil, err
	}
	a.log.Debug("Vocabulary loaded", "path", a.vocabulary)
	return categorizer.New(vocab), nil
}
