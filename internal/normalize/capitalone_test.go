package normalize

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankfold/bankfold/internal/model"
)

func TestCapitalOne_Parse(t *testing.T) {
	data, err := os.ReadFile("../../testdata/capitalone_activity.csv")
	require.NoError(t, err)

	n := &CapitalOneNormalizer{}
	txns, err := n.Parse("Capital-One-Spending-Insights-Transactions.csv", strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	// Amounts are already outflow-positive: no negation.
	assert.Equal(t, "35.10", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "GAS STATION", txns[0].Description)
	assert.Equal(t, 4812, txns[0].Card)
	assert.Equal(t, model.BankCapitalOne, txns[0].Bank)
	assert.Equal(t, "Gas", txns[0].Category)

	// A masked card without a numeric tail maps to the sentinel.
	assert.Equal(t, model.CardUnknown, txns[2].Card)
}

func TestCapitalOne_HeaderOnly(t *testing.T) {
	n := &CapitalOneNormalizer{}
	txns, err := n.Parse("x.csv", strings.NewReader("Date,Description,Card,Category,Amount\n"))
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestCapitalOne_BadDate(t *testing.T) {
	n := &CapitalOneNormalizer{}
	_, err := n.Parse("x.csv", strings.NewReader("Date,Description,Card,Category,Amount\nNOTADATE,desc,...1234,Gas,1.00\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestCardFromMasked(t *testing.T) {
	assert.Equal(t, 1234, cardFromMasked("user...1234"))
	assert.Equal(t, model.CardUnknown, cardFromMasked("1234"))
	assert.Equal(t, model.CardUnknown, cardFromMasked("user...12ab"))
	assert.Equal(t, model.CardUnknown, cardFromMasked(""))
}
