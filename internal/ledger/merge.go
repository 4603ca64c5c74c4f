package ledger

import (
	"regexp"
	"slices"
	"time"

	"github.com/bankfold/bankfold/internal/model"
)

// Policy controls how a new batch folds into an existing ledger.
type Policy struct {
	// NewOnlyByCard keeps only batch rows strictly newer than the
	// ledger's max date for the same card. Cards with no prior rows
	// keep everything.
	NewOnlyByCard bool
	// ExcludePayments drops batch rows whose description matches the
	// bill-payment pattern. Payments are not spending.
	ExcludePayments bool
	// DedupWithID widens the dedup key from (Date, Description) to
	// (Date, Description, ID), tolerating legitimate repeat
	// transactions on the same day.
	DedupWithID bool
}

// ActivityPolicy is the merge policy for account-activity CSV sources.
var ActivityPolicy = Policy{NewOnlyByCard: true, ExcludePayments: true}

// StatementPolicy is the merge policy for PDF statement sources.
var StatementPolicy = Policy{}

// AggregatePolicy is the merge policy for the global aggregate.
var AggregatePolicy = Policy{DedupWithID: true}

var paymentRe = regexp.MustCompile(`(?i)\b(payment|thank you)\b`)

// IsPayment reports whether a description marks a bill-payment row.
func IsPayment(description string) bool {
	return paymentRe.MatchString(description)
}

// Merge folds batch into existing. Existing rows come first so the oldest
// ID wins when duplicates overlap. The result is deduplicated and sorted
// ascending by (Date, Description); merging the same batch twice yields
// the same ledger as merging it once.
func Merge(existing, batch []model.Transaction, p Policy) []model.Transaction {
	if p.NewOnlyByCard {
		batch = filterNewByCard(existing, batch)
	}
	if p.ExcludePayments {
		batch = slices.DeleteFunc(slices.Clone(batch), func(t model.Transaction) bool {
			return IsPayment(t.Description)
		})
	}

	merged := make([]model.Transaction, 0, len(existing)+len(batch))
	merged = append(merged, existing...)
	merged = append(merged, batch...)
	merged = dedup(merged, p.DedupWithID)

	slices.SortStableFunc(merged, model.Transaction.Compare)
	return merged
}

// filterNewByCard keeps batch rows dated strictly after the existing
// ledger's max date for the same card.
func filterNewByCard(existing, batch []model.Transaction) []model.Transaction {
	maxByCard := make(map[int]time.Time)
	for _, t := range existing {
		if t.Date.After(maxByCard[t.Card]) {
			maxByCard[t.Card] = t.Date
		}
	}

	out := make([]model.Transaction, 0, len(batch))
	for _, t := range batch {
		floor, ok := maxByCard[t.Card]
		if !ok || t.Date.After(floor) {
			out = append(out, t)
		}
	}
	return out
}

// dedup drops later duplicates, keeping the first occurrence.
func dedup(txns []model.Transaction, withID bool) []model.Transaction {
	seen := make(map[string]bool, len(txns))
	out := txns[:0:0]
	for _, t := range txns {
		key := t.Key()
		if withID {
			key = t.KeyWithID()
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
