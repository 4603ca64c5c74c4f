package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bankfold/bankfold/internal/model"
)

// LedgerFileName is the per-source ledger file name.
const LedgerFileName = "aggregate.tsv"

// AggregateFileName is the global aggregate file name under the data dir.
const AggregateFileName = "global_aggregate.tsv"

// Service reads and rewrites ledger files under a data directory. Ledger
// files are small (personal transaction volume), so every merge rewrites
// the whole file. Concurrent runs are unsupported: single writer at a
// time is assumed.
type Service struct {
	dataDir string
}

// NewService creates a ledger Service rooted at dataDir.
func NewService(dataDir string) *Service {
	return &Service{dataDir: dataDir}
}

// SourcePath returns the ledger path for one source.
func (s *Service) SourcePath(bank model.Bank, subdir string) string {
	return filepath.Join(s.dataDir, string(bank), subdir, LedgerFileName)
}

// AggregatePath returns the global aggregate path.
func (s *Service) AggregatePath() string {
	return filepath.Join(s.dataDir, AggregateFileName)
}

// Load reads a ledger file. A missing file is an empty ledger; an
// unreadable or malformed file is an error; the caller must not
// overwrite historical data it could not read.
func (s *Service) Load(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return txns, nil
}

// Save rewrites a ledger file in full, creating parent directories.
func (s *Service) Save(path string, txns []model.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ledger %s: %w", path, err)
	}

	if err := WriteTransactions(f, txns); err != nil {
		f.Close()
		return fmt.Errorf("writing ledger %s: %w", path, err)
	}
	return f.Close()
}

// MergeFile folds batch into the ledger at path and rewrites it. Returns
// the number of rows the merge added.
func (s *Service) MergeFile(path string, batch []model.Transaction, p Policy) (int, error) {
	existing, err := s.Load(path)
	if err != nil {
		return 0, err
	}

	merged := Merge(existing, batch, p)
	if len(merged) == len(existing) {
		// Nothing new; skip the rewrite.
		return 0, nil
	}

	if err := s.Save(path, merged); err != nil {
		return 0, err
	}
	return len(merged) - len(existing), nil
}
