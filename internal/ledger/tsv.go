// Package ledger persists and merges per-source transaction ledgers.
// Ledgers are tab-separated files with a header row, always sorted
// ascending by (Date, Description).
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankfold/bankfold/internal/model"
)

// Columns is the ledger header row.
var Columns = []string{"Date", "Description", "Amount", "Card", "ID", "Bank", "Category"}

const (
	numFields   = 7
	dateFormat  = "2006-01-02"
	colDate     = 0
	colDesc     = 1
	colAmount   = 2
	colCard     = 3
	colID       = 4
	colBank     = 5
	colCategory = 6
)

// ReadTransactions reads all rows from a ledger reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger TSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes rows to a ledger writer (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	defer cw.Flush()

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a TSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = t.Date.Format(dateFormat)
	row[colDesc] = t.Description
	row[colAmount] = t.Amount.StringFixed(2)
	row[colCard] = strconv.Itoa(t.Card)
	row[colID] = t.ID
	row[colBank] = string(t.Bank)
	row[colCategory] = t.Category
	return row
}

// UnmarshalTransaction converts a TSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimalFromField(record[colAmount])
	if err != nil {
		return model.Transaction{}, err
	}

	card, err := strconv.Atoi(record[colCard])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing card %q: %w", record[colCard], err)
	}

	txn := model.Transaction{
		Date:        date,
		Description: record[colDesc],
		Amount:      amount,
		Card:        card,
		ID:          record[colID],
		Bank:        model.Bank(record[colBank]),
		Category:    record[colCategory],
	}
	return txn, nil
}

func decimalFromField(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
