package normalize

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bankfold/bankfold/internal/model"
)

// CapitalOneNormalizer parses Capital One spending-insights CSV exports.
// Amounts are already outflow-positive. The card id comes from the masked
// Card column: the last 4 characters when numeric, else the sentinel.
type CapitalOneNormalizer struct{}

// Source returns the registry key.
func (n *CapitalOneNormalizer) Source() string { return "capitalone" }

// Bank returns the source attribution.
func (n *CapitalOneNormalizer) Bank() model.Bank { return model.BankCapitalOne }

// Subdir returns the default input subdirectory under the bank directory.
func (n *CapitalOneNormalizer) Subdir() string { return "AccountActivity" }

// Extension returns the expected input file extension.
func (n *CapitalOneNormalizer) Extension() string { return ".csv" }

// Normalize reads the file and converts its rows.
func (n *CapitalOneNormalizer) Normalize(file FileInfo) ([]model.Transaction, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file.Path, err)
	}
	defer f.Close()
	return n.Parse(file.Name, f)
}

// Parse converts a Capital One CSV into Transactions.
func (n *CapitalOneNormalizer) Parse(name string, r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading capital one CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	idx := headerIndex(records[0])
	for _, col := range []string{"Date", "Description", "Amount"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("capital one CSV missing column %q", col)
		}
	}

	txns := make([]model.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		rawDate, _ := cell(rec, idx, "Date")
		date, err := parseDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rawAmount, _ := cell(rec, idx, "Amount")
		amount, err := parseAmount(rawAmount)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		desc, _ := cell(rec, idx, "Description")
		maskedCard, _ := cell(rec, idx, "Card")
		category, _ := cell(rec, idx, "Category")
		txns = append(txns, model.Transaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Card:        cardFromMasked(maskedCard),
			Bank:        n.Bank(),
			Category:    strings.TrimSpace(category),
		})
	}
	return txns, nil
}

// cardFromMasked extracts the last 4 digits of a masked card string like
// "...1234". Non-numeric or too-short values map to the sentinel.
func cardFromMasked(s string) int {
	s = strings.TrimSpace(s)
	if len(s) <= 4 {
		return model.CardUnknown
	}
	last4 := s[len(s)-4:]
	card := 0
	for i := 0; i < len(last4); i++ {
		c := last4[i]
		if c < '0' || c > '9' {
			return model.CardUnknown
		}
		card = card*10 + int(c-'0')
	}
	return card
}
