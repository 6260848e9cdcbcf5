package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"finscore/internal/app"
)

var (
	showAccount string
	showLimit   int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display recent stored transactions for an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showAccount == "" {
			return fmt.Errorf("--account must be provided")
		}
		if showLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}

		opts := app.ShowOptions{
			Account: showAccount,
			Limit:   showLimit,
		}

		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().StringVar(&showAccount, "account", "", "Account id to display")
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Number of transactions to display")
}
