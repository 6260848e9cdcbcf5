package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finscore/internal/app"
)

var (
	exportAccount  string
	exportFrom     string
	exportTo       string
	exportCSVPath  string
	exportBalances string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored ledger window as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportAccount == "" {
			return fmt.Errorf("--account must be provided")
		}

		opts := app.ExportOptions{
			Account:      exportAccount,
			CSVPath:      exportCSVPath,
			BalancesPath: exportBalances,
		}

		if exportFrom != "" {
			from, err := time.Parse(time.RFC3339, exportFrom)
			if err != nil {
				return fmt.Errorf("invalid --from value: %w", err)
			}
			opts.From = &from
		}

		if exportTo != "" {
			to, err := time.Parse(time.RFC3339, exportTo)
			if err != nil {
				return fmt.Errorf("invalid --to value: %w", err)
			}
			opts.To = &to
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportAccount, "account", "", "Account id to export")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Start timestamp (RFC3339, inclusive)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "End timestamp (RFC3339, exclusive)")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write the ledger CSV")
	exportCmd.Flags().StringVar(&exportBalances, "balances", "", "Path to write the daily balance series CSV")
}
