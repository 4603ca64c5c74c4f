package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bank identifies the originating institution of a transaction.
type Bank string

const (
	BankWellsFargo Bank = "WellsFargo"
	BankChase      Bank = "Chase"
	BankCapitalOne Bank = "CapitalOne"
	BankAlly       Bank = "Ally"
	BankDeserve    Bank = "Deserve"
	BankSyncrony   Bank = "Syncrony"
)

// DefaultCategory is used when a source provides no category.
const DefaultCategory = "Uncategorized"

// CardUnknown is the sentinel card id for "not determined".
const CardUnknown = 0

// Transaction is one canonical ledger row. Amount is outflow-positive:
// spending is positive regardless of the source's native sign convention.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Card        int    // last 4 digits of the instrument, or CardUnknown
	ID          string // 17-char [0-9A-Z] token
	Bank        Bank
	Category    string
}

// Key is the (Date, Description) dedup key for per-source ledgers.
func (t Transaction) Key() string {
	return t.Date.Format("2006-01-02") + "\x00" + t.Description
}

// KeyWithID is the (Date, Description, ID) dedup key for the global
// aggregate, which must tolerate repeat transactions on the same day.
func (t Transaction) KeyWithID() string {
	return t.Key() + "\x00" + t.ID
}

// Compare returns -1, 0, or 1 per the (Date, Description) sort order.
func (t Transaction) Compare(o Transaction) int {
	switch {
	case t.Date.Before(o.Date):
		return -1
	case t.Date.After(o.Date):
		return 1
	case t.Description < o.Description:
		return -1
	case t.Description > o.Description:
		return 1
	default:
		return 0
	}
}
