// Package pipeline orchestrates a full ingestion run: for every
// registered source, scan its input directory, normalize each file,
// stamp row IDs, merge into the source ledger, then rebuild the global
// aggregate. Runs are synchronous and idempotent; concurrent runs are
// unsupported (single writer at a time).
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bankfold/bankfold/internal/aggregate"
	"github.com/bankfold/bankfold/internal/config"
	"github.com/bankfold/bankfold/internal/gitops"
	"github.com/bankfold/bankfold/internal/id"
	"github.com/bankfold/bankfold/internal/ledger"
	"github.com/bankfold/bankfold/internal/normalize"
	"github.com/bankfold/bankfold/internal/runlog"
)

// Runner executes the ingestion pipeline.
type Runner struct {
	cfg      *config.Config
	registry *normalize.Registry
	ledgers  *ledger.Service
	log      zerolog.Logger
	now      func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(cfg *config.Config, registry *normalize.Registry, log zerolog.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		registry: registry,
		ledgers:  ledger.NewService(cfg.DataDir),
		log:      log,
		now:      time.Now,
	}
}

// Run processes every source in registration order, then rebuilds the
// global aggregate. Per-file failures are isolated: they abort only that
// file's contribution. A ledger I/O failure aborts its source. All
// failures are joined into the returned error.
func (r *Runner) Run() error {
	var errs []error
	var entries []runlog.Entry

	for _, n := range r.registry.All() {
		if err := r.runSource(n, &entries); err != nil {
			r.log.Error().Err(err).Str("source", n.Source()).Msg("source run failed")
			errs = append(errs, fmt.Errorf("source %s: %w", n.Source(), err))
		}
	}

	paths := make([]string, 0, len(r.registry.All()))
	for _, n := range r.registry.All() {
		paths = append(paths, r.ledgers.SourcePath(n.Bank(), n.Subdir()))
	}
	total, err := aggregate.Build(r.ledgers, paths, r.ledgers.AggregatePath())
	if err != nil {
		r.log.Error().Err(err).Msg("building global aggregate failed")
		errs = append(errs, fmt.Errorf("aggregate: %w", err))
	} else {
		r.log.Info().Int("rows", total).Str("path", r.ledgers.AggregatePath()).Msg("global aggregate written")
	}

	if err := runlog.Append(r.cfg.DataDir, entries); err != nil {
		errs = append(errs, fmt.Errorf("run log: %w", err))
	}

	if len(errs) == 0 && r.cfg.Git.AutoCommit && gitops.IsRepo(r.cfg.DataDir) {
		hash, err := gitops.CommitAll(r.cfg.DataDir, "bankfold: ingestion run", r.cfg.Git.AuthorName, r.cfg.Git.AuthorEmail)
		if err != nil {
			errs = append(errs, fmt.Errorf("git commit: %w", err))
		} else if hash != "" {
			r.log.Info().Str("commit", hash).Msg("data directory committed")
		}
	}

	return errors.Join(errs...)
}

// runSource ingests every matching file in one source's input directory.
func (r *Runner) runSource(n normalize.Normalizer, entries *[]runlog.Entry) error {
	log := r.log.With().Str("source", n.Source()).Logger()

	dir := filepath.Join(r.cfg.DataDir, string(n.Bank()), n.Subdir())
	created, err := ensureDir(dir)
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("dir", dir).Msg("input directory created, nothing to process yet")
		return nil
	}

	files, err := scanFiles(dir, n.Extension())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn().Str("dir", dir).Msg("no input files found")
		return nil
	}

	ledgerPath := r.ledgers.SourcePath(n.Bank(), n.Subdir())
	policy := policyFor(n)

	var fileErrs []error
	for _, file := range files {
		entry := runlog.Entry{Timestamp: r.now(), Source: n.Source(), File: file.Name}

		txns, err := n.Normalize(file)
		if err != nil {
			log.Error().Err(err).Str("file", file.Name).Msg("normalization failed")
			entry.Status = runlog.StatusFailed
			entry.Detail = err.Error()
			*entries = append(*entries, entry)
			fileErrs = append(fileErrs, fmt.Errorf("%s: %w", file.Name, err))
			continue
		}
		entry.Rows = len(txns)

		if len(txns) == 0 {
			log.Warn().Str("file", file.Name).Msg("file yielded no rows")
			entry.Status = runlog.StatusEmpty
			*entries = append(*entries, entry)
			continue
		}

		id.Assign(txns, id.Scheme(r.cfg.IDs.Scheme))

		added, err := r.ledgers.MergeFile(ledgerPath, txns, policy)
		if err != nil {
			// A ledger that cannot be read or rewritten must not be
			// clobbered with partial data; stop this source.
			entry.Status = runlog.StatusFailed
			entry.Detail = err.Error()
			*entries = append(*entries, entry)
			return errors.Join(append(fileErrs, err)...)
		}

		entry.Added = added
		entry.Status = runlog.StatusMerged
		*entries = append(*entries, entry)
		log.Info().Str("file", file.Name).Int("rows", len(txns)).Int("added", added).Msg("file merged")
	}

	return errors.Join(fileErrs...)
}

// policyFor selects the merge policy by source kind: statement sources
// keep plain dedup; activity sources add new-only growth and payment
// exclusion.
func policyFor(n normalize.Normalizer) ledger.Policy {
	if strings.EqualFold(n.Extension(), ".pdf") {
		return ledger.StatementPolicy
	}
	return ledger.ActivityPolicy
}

// ensureDir creates dir if missing. Reports whether it was created.
func ensureDir(dir string) (bool, error) {
	if _, err := os.Stat(dir); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("creating input dir %s: %w", dir, err)
	}
	return true, nil
}

// scanFiles returns the files in dir whose extension matches ext,
// case-insensitively, in name order.
func scanFiles(dir, ext string) ([]normalize.FileInfo, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input dir %s: %w", dir, err)
	}

	var files []normalize.FileInfo
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		files = append(files, normalize.FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
		})
	}
	return files, nil
}
