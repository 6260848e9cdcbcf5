package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"finscore/internal/app"
)

var (
	importInput   string
	importAccount string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a structured ledger CSV into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if importInput == "" {
			return fmt.Errorf("--input must be provided")
		}
		if importAccount == "" {
			return fmt.Errorf("--account must be provided")
		}

		opts := app.ImportOptions{
			InputPath: importInput,
			Account:   importAccount,
		}

		return getApp().Import(cmd.Context(), opts)
	},
}

func init() {
	importCmd.Flags().StringVar(&importInput, "input", "", "Path to a structured ledger CSV")
	importCmd.Flags().StringVar(&importAccount, "account", "", "Account id to import the ledger under")
}
