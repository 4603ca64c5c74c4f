// Package aggregate folds every per-source ledger into the single global
// aggregate the dashboard reads.
package aggregate

import (
	"fmt"

	"github.com/bankfold/bankfold/internal/ledger"
	"github.com/bankfold/bankfold/internal/model"
)

// Build reads every path in sourcePaths (missing ledgers count as empty),
// folds them into the aggregate at aggregatePath deduplicated on
// (Date, Description, ID), and rewrites it sorted by (Date, Description).
func Build(svc *ledger.Service, sourcePaths []string, aggregatePath string) (int, error) {
	var all []model.Transaction
	for _, path := range sourcePaths {
		txns, err := svc.Load(path)
		if err != nil {
			return 0, fmt.Errorf("loading source ledger: %w", err)
		}
		all = append(all, txns...)
	}

	existing, err := svc.Load(aggregatePath)
	if err != nil {
		return 0, fmt.Errorf("loading aggregate: %w", err)
	}

	merged := ledger.Merge(existing, all, ledger.AggregatePolicy)
	if err := svc.Save(aggregatePath, merged); err != nil {
		return 0, err
	}
	return len(merged), nil
}
