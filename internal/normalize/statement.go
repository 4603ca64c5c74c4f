package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankfold/bankfold/internal/extract"
	"github.com/bankfold/bankfold/internal/model"
)

// StatementNormalizer parses Wells Fargo PDF statements through the
// external table-extraction collaborator. Extracted rows are positional:
// Card, Date, Date2, ID, Description, Credit, Amount. The secondary date
// and padding columns are dropped, and credits reduce net outflow.
type StatementNormalizer struct {
	Extractor extract.Extractor
}

const (
	stmtNumCols     = 7
	stmtColCard     = 0
	stmtColDate     = 1
	stmtColID       = 3
	stmtColDesc     = 4
	stmtColCredit   = 5
	stmtColAmount  = 6
	stmtDateLayout = "01/02/2006"
)

var stmtShortDateRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)

// Source returns the registry key.
func (n *StatementNormalizer) Source() string { return "wellsfargo-statements" }

// Bank returns the source attribution.
func (n *StatementNormalizer) Bank() model.Bank { return model.BankWellsFargo }

// Subdir returns the default input subdirectory under the bank directory.
func (n *StatementNormalizer) Subdir() string { return "Statements" }

// Extension returns the expected input file extension.
func (n *StatementNormalizer) Extension() string { return ".pdf" }

// Normalize extracts tables from the statement and converts the first
// non-empty one.
func (n *StatementNormalizer) Normalize(file FileInfo) ([]model.Transaction, error) {
	tables, err := n.Extractor.Tables(file.Path)
	if err != nil {
		return nil, err
	}
	return n.FromTables(file.Name, tables)
}

// FromTables converts extracted statement tables into Transactions.
// Extraction may return leading empty tables; they are skipped.
func (n *StatementNormalizer) FromTables(name string, tables []extract.Table) ([]model.Transaction, error) {
	table := firstNonEmpty(tables)
	if table == nil {
		return nil, nil
	}

	year, err := statementYear(name)
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	for i, row := range table {
		if len(row) < stmtNumCols {
			return nil, fmt.Errorf("table row %d: expected %d columns, got %d", i+1, stmtNumCols, len(row))
		}

		// Header, page-footer and continuation rows carry no MM/DD date.
		rawDate := strings.TrimSpace(row[stmtColDate])
		if !stmtShortDateRe.MatchString(rawDate) {
			continue
		}

		date, err := time.Parse(stmtDateLayout, rawDate+"/"+year)
		if err != nil {
			return nil, fmt.Errorf("table row %d: parsing date %q: %w", i+1, rawDate, err)
		}

		amount, err := statementAmount(row[stmtColAmount])
		if err != nil {
			return nil, fmt.Errorf("table row %d: %w", i+1, err)
		}
		credit, err := statementAmount(row[stmtColCredit])
		if err != nil {
			return nil, fmt.Errorf("table row %d: %w", i+1, err)
		}

		card := model.CardUnknown
		if c, err := strconv.Atoi(strings.TrimSpace(row[stmtColCard])); err == nil {
			card = c
		}

		txns = append(txns, model.Transaction{
			Date:        date,
			Description: strings.TrimSpace(row[stmtColDesc]),
			Amount:      amount.Add(credit),
			Card:        card,
			ID:          strings.TrimSpace(row[stmtColID]),
			Bank:        n.Bank(),
		})
	}
	return txns, nil
}

// statementYear derives the 4-digit year from the last two digits of the
// file name's leading statement id, e.g. "035225 Statement.pdf" -> "2025".
func statementYear(name string) (string, error) {
	token, _, _ := strings.Cut(name, " ")
	token = strings.TrimSuffix(token, ".pdf")
	if len(token) < 2 {
		return "", fmt.Errorf("deriving year from file name %q", name)
	}
	yy := token[len(token)-2:]
	if _, err := strconv.Atoi(yy); err != nil {
		return "", fmt.Errorf("deriving year from file name %q", name)
	}
	return "20" + yy, nil
}

// statementAmount parses a currency cell where blank means zero.
func statementAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return parseAmount(s)
}

func firstNonEmpty(tables []extract.Table) extract.Table {
	for _, t := range tables {
		for _, row := range t {
			for _, cell := range row {
				if strings.TrimSpace(cell) != "" {
					return t
				}
			}
		}
	}
	return nil
}
