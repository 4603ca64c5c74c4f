package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bankfold/bankfold/internal/config"
	"github.com/bankfold/bankfold/internal/extract"
	"github.com/bankfold/bankfold/internal/gitops"
	"github.com/bankfold/bankfold/internal/normalize"
)

func newInitCommand(configPath *string) *cobra.Command {
	var withGit bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold the data directory and default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(*configPath, withGit)
		},
	}

	cmd.Flags().BoolVar(&withGit, "git", false, "initialize a git repository in the data directory")

	return cmd
}

// runInit is idempotent: existing directories and config are left alone.
func runInit(configPath string, withGit bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		if err := config.Save(configPath, cfg); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", configPath)
	}

	registry := normalize.DefaultRegistry(extract.NewScriptExtractor())
	for _, n := range registry.All() {
		dir := filepath.Join(cfg.DataDir, string(n.Bank()), n.Subdir())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(cfg.DataDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating logs directory: %w", err)
	}

	gitignore := "logs/\n"
	ignorePath := filepath.Join(cfg.DataDir, ".gitignore")
	if _, statErr := os.Stat(ignorePath); os.IsNotExist(statErr) {
		if err := os.WriteFile(ignorePath, []byte(gitignore), 0o644); err != nil {
			return fmt.Errorf("writing .gitignore: %w", err)
		}
	}

	if withGit && !gitops.IsRepo(cfg.DataDir) {
		if err := gitops.Init(cfg.DataDir); err != nil {
			return err
		}
	}

	fmt.Printf("Initialized data directory at %s\n", cfg.DataDir)
	return nil
}
