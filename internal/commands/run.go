package commands

import (
	"github.com/spf13/cobra"

	"github.com/bankfold/bankfold/internal/extract"
	"github.com/bankfold/bankfold/internal/logging"
	"github.com/bankfold/bankfold/internal/normalize"
	"github.com/bankfold/bankfold/internal/pipeline"
)

func newRunCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Ingest all source directories and rebuild the global aggregate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			log := logging.New()
			registry := normalize.DefaultRegistry(extract.NewScriptExtractor())
			runner := pipeline.NewRunner(cfg, registry, log)

			log.Info().Str("data_dir", cfg.DataDir).Msg("starting ingestion run")
			if err := runner.Run(); err != nil {
				return err
			}
			log.Info().Msg("ingestion run complete")
			return nil
		},
	}
}
