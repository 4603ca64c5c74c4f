package normalize

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/bankfold/bankfold/internal/model"
)

// ChaseNormalizer parses Chase credit-card activity CSV exports. Columns
// are named; only the transaction date is kept (post date is dropped).
// Spending is natively negative and is negated to outflow-positive.
type ChaseNormalizer struct{}

var chaseCardRe = regexp.MustCompile(`\d{4}`)

// Source returns the registry key.
func (n *ChaseNormalizer) Source() string { return "chase" }

// Bank returns the source attribution.
func (n *ChaseNormalizer) Bank() model.Bank { return model.BankChase }

// Subdir returns the default input subdirectory under the bank directory.
func (n *ChaseNormalizer) Subdir() string { return "AccountActivity" }

// Extension returns the expected input file extension.
func (n *ChaseNormalizer) Extension() string { return ".csv" }

// Normalize reads the file and converts its rows.
func (n *ChaseNormalizer) Normalize(file FileInfo) ([]model.Transaction, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file.Path, err)
	}
	defer f.Close()
	return n.Parse(file.Name, f)
}

// Parse converts a Chase activity CSV into Transactions. The card id is
// the first 4-digit run in the file name, e.g. Chase9088_Activity....csv.
func (n *ChaseNormalizer) Parse(name string, r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	card := model.CardUnknown
	if m := chaseCardRe.FindString(name); m != "" {
		card, _ = strconv.Atoi(m)
	}

	idx := headerIndex(records[0])
	for _, col := range []string{"Transaction Date", "Description", "Amount"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("chase CSV missing column %q", col)
		}
	}

	txns := make([]model.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		rawDate, _ := cell(rec, idx, "Transaction Date")
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
		category, _ := cell(rec, idx, "Category")
		txns = append(txns, model.Transaction{
			Date:        date,
			Description: desc,
			Amount:      amount.Neg(),
			Card:        card,
			Bank:        n.Bank(),
			Category:    strings.TrimSpace(category),
		})
	}
	return txns, nil
}
