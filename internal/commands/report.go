package commands

import (
	"github.com/spf13/cobra"

	"github.com/bankfold/bankfold/internal/ledger"
	"github.com/bankfold/bankfold/internal/report"
)

func newReportCommand(configPath *string) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the spending summary from the global aggregate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cutoff, err := cfg.Cutoff()
			if err != nil {
				return err
			}

			svc := ledger.NewService(cfg.DataDir)
			txns, err := svc.Load(svc.AggregatePath())
			if err != nil {
				return err
			}

			summary := report.Build(txns, cutoff)
			report.Render(cmd.OutOrStdout(), summary, month)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "limit the category breakdown to one month (YYYY-MM)")

	return cmd
}
