package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "bankfold.yaml"

// Config represents the top-level bankfold.yaml configuration.
type Config struct {
	DataDir string    `yaml:"data_dir"`
	Report  Report    `yaml:"report"`
	IDs     IDs       `yaml:"ids"`
	Git     GitConfig `yaml:"git"`
}

// Report controls the spending report over the global aggregate.
type Report struct {
	// CutoffDate excludes rows dated before it, "YYYY-MM-DD".
	CutoffDate string `yaml:"cutoff_date"`
}

// IDs controls row identifier generation.
type IDs struct {
	// Scheme is "random" or "deterministic".
	Scheme string `yaml:"scheme"`
}

// GitConfig controls optional git integration for the data directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a bankfold.yaml file from disk. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DataDir: "data",
		Report: Report{
			CutoffDate: "2025-04-01",
		},
		IDs: IDs{
			Scheme: "random",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "bankfold",
			AuthorEmail: "bankfold@localhost",
		},
	}
}

// Cutoff parses the report cutoff date.
func (c *Config) Cutoff() (time.Time, error) {
	d, err := time.Parse("2006-01-02", c.Report.CutoffDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing report cutoff %q: %w", c.Report.CutoffDate, err)
	}
	return d, nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir must not be empty")
	}
	switch c.IDs.Scheme {
	case "random", "deterministic":
	default:
		return fmt.Errorf("config: ids.scheme must be random or deterministic, got %q", c.IDs.Scheme)
	}
	if _, err := c.Cutoff(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
