package ledger

import (
	"fmt"

	"github.com/bankfold/bankfold/internal/id"
	"github.com/bankfold/bankfold/internal/model"
)

// ValidationError describes a single ledger invariant violation.
type ValidationError struct {
	Row         int // 1-based data row, 0 when not row-specific
	Description string
}

func (e ValidationError) Error() string {
	if e.Row == 0 {
		return e.Description
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Description)
}

// Validate enforces the ledger invariants on an already-loaded ledger:
// sorted ascending by (Date, Description), no duplicate dedup keys, no
// bill-payment rows, well-formed IDs. Refund rows are negative under the
// outflow-positive convention, so amount signs are not checked.
// withID selects the (Date, Description, ID) dedup key.
func Validate(txns []model.Transaction, withID bool) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]int, len(txns))
	for i, t := range txns {
		row := i + 1

		if i > 0 && txns[i-1].Compare(t) > 0 {
			errs = append(errs, ValidationError{
				Row:         row,
				Description: fmt.Sprintf("out of order: %s %q before %s %q", txns[i-1].Date.Format("2006-01-02"), txns[i-1].Description, t.Date.Format("2006-01-02"), t.Description),
			})
		}

		key := t.Key()
		if withID {
			key = t.KeyWithID()
		}
		if prev, ok := seen[key]; ok {
			errs = append(errs, ValidationError{
				Row:         row,
				Description: fmt.Sprintf("duplicate of row %d (%s %q)", prev, t.Date.Format("2006-01-02"), t.Description),
			})
		} else {
			seen[key] = row
		}

		if IsPayment(t.Description) {
			errs = append(errs, ValidationError{
				Row:         row,
				Description: fmt.Sprintf("payment row %q must not be in a ledger", t.Description),
			})
		}

		if t.ID != "" && !id.Valid(t.ID) && !numericID(t.ID) {
			errs = append(errs, ValidationError{
				Row:         row,
				Description: fmt.Sprintf("malformed id %q", t.ID),
			})
		}
	}
	return errs
}

// numericID accepts statement reference numbers carried over from PDF
// extraction, which are shorter than generated tokens.
func numericID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
