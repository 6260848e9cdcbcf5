package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"finscore/internal/app"
)

var (
	simulateProfile string
	simulateDays    int
	simulateSeed    int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "生成合成账本并演练一次完整评分",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateDays <= 0 {
			return errors.New("--days 必须大于 0")
		}

		opts := app.SimulateOptions{
			Profile: simulateProfile,
			Days:    simulateDays,
			Seed:    simulateSeed,
		}

		return getApp().Simulate(cmd.Context(), opts)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateProfile, "profile", "steady", "Synthetic profile: steady or risky")
	simulateCmd.Flags().IntVar(&simulateDays, "days", 30, "Number of days to generate")
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 1, "Deterministic generation seed")
}
