package normalize

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bankfold/bankfold/internal/model"
)

// WellsFargoNormalizer parses Wells Fargo account-activity CSV exports.
// The export is headerless: Date, Amount, two padding columns, Description.
// Spending is natively negative and is negated to outflow-positive.
type WellsFargoNormalizer struct{}

const (
	wfNumFields = 5
	wfColDate   = 0
	wfColAmount = 1
	wfColDesc   = 4

	// Card ids are fixed per account; the "journey" marker in the file
	// name selects the Journey card.
	wfJourneyMarker = "journey"
	wfJourneyCard   = 9992
	wfDefaultCard   = 4031
)

// Source returns the registry key.
func (n *WellsFargoNormalizer) Source() string { return "wellsfargo" }

// Bank returns the source attribution.
func (n *WellsFargoNormalizer) Bank() model.Bank { return model.BankWellsFargo }

// Subdir returns the default input subdirectory under the bank directory.
func (n *WellsFargoNormalizer) Subdir() string { return "AccountActivity" }

// Extension returns the expected input file extension.
func (n *WellsFargoNormalizer) Extension() string { return ".csv" }

// Normalize reads the file and converts its rows.
func (n *WellsFargoNormalizer) Normalize(file FileInfo) ([]model.Transaction, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file.Path, err)
	}
	defer f.Close()
	return n.Parse(file.Name, f)
}

// Parse converts a Wells Fargo activity CSV into Transactions.
func (n *WellsFargoNormalizer) Parse(name string, r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = wfNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading wells fargo CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	card := wfDefaultCard
	if strings.Contains(strings.ToLower(name), wfJourneyMarker) {
		card = wfJourneyCard
	}

	txns := make([]model.Transaction, 0, len(records))
	for i, rec := range records {
		date, err := parseDate(rec[wfColDate])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		amount, err := parseAmount(rec[wfColAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		txns = append(txns, model.Transaction{
			Date:        date,
			Description: rec[wfColDesc],
			Amount:      amount.Neg(),
			Card:        card,
			Bank:        n.Bank(),
		})
	}
	return txns, nil
}
