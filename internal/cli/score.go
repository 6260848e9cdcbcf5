package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finscore/internal/app"
)

var (
	scoreInput   string
	scoreAccount string
	scoreFrom    string
	scoreTo      string
	scoreNotify  bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a ledger and print the loan decision",
	RunE: func(cmd *cobra.Command, args []string) error {
		if scoreInput == "" && scoreAccount == "" {
			return fmt.Errorf("either --input or --account must be provided")
		}

		opts := app.ScoreOptions{
			InputPath: scoreInput,
			Account:   scoreAccount,
			Notify:    scoreNotify,
		}

		if scoreFrom != "" {
			from, err := time.Parse(time.RFC3339, scoreFrom)
			if err != nil {
				return fmt.Errorf("invalid --from value: %w", err)
			}
			opts.From = &from
		}

		if scoreTo != "" {
			to, err := time.Parse(time.RFC3339, scoreTo)
			if err != nil {
				return fmt.Errorf("invalid --to value: %w", err)
			}
			opts.To = &to
		}

		return getApp().Score(cmd.Context(), opts)
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreInput, "input", "", "Path to a structured ledger CSV")
	scoreCmd.Flags().StringVar(&scoreAccount, "account", "", "Account id to load from the database")
	scoreCmd.Flags().StringVar(&scoreFrom, "from", "", "Window start (RFC3339, inclusive; database mode only)")
	scoreCmd.Flags().StringVar(&scoreTo, "to", "", "Window end (RFC3339, exclusive; database mode only)")
	scoreCmd.Flags().BoolVar(&scoreNotify, "notify", false, "Dispatch the decision to the configured notification channel")
}
