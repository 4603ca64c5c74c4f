package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bankfold/bankfold/internal/extract"
	"github.com/bankfold/bankfold/internal/ledger"
	"github.com/bankfold/bankfold/internal/normalize"
)

func newCheckCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every ledger and the global aggregate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			svc := ledger.NewService(cfg.DataDir)
			registry := normalize.DefaultRegistry(extract.NewScriptExtractor())

			violations := 0
			for _, n := range registry.All() {
				path := svc.SourcePath(n.Bank(), n.Subdir())
				violations += checkLedger(cmd, svc, path, false)
			}
			violations += checkLedger(cmd, svc, svc.AggregatePath(), true)

			if violations > 0 {
				return fmt.Errorf("%d invariant violation(s)", violations)
			}
			cmd.Println("All ledgers valid")
			return nil
		},
	}
}

func checkLedger(cmd *cobra.Command, svc *ledger.Service, path string, withID bool) int {
	txns, err := svc.Load(path)
	if err != nil {
		cmd.PrintErrf("%s: %v\n", path, err)
		return 1
	}
	if txns == nil {
		return 0
	}

	errs := ledger.Validate(txns, withID)
	for _, e := range errs {
		cmd.PrintErrf("%s: %v\n", path, e)
	}
	return len(errs)
}
