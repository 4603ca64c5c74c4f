package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankfold/bankfold/internal/ledger"
	"github.com/bankfold/bankfold/internal/model"
)

func mkTxn(date, desc, txnID string, bank model.Bank) model.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.Transaction{
		Date:        d,
		Description: desc,
		Amount:      decimal.RequireFromString("10.00"),
		ID:          txnID,
		Bank:        bank,
	}
}

func TestBuild_Superset(t *testing.T) {
	dir := t.TempDir()
	svc := ledger.NewService(dir)

	chasePath := svc.SourcePath(model.BankChase, "AccountActivity")
	wfPath := svc.SourcePath(model.BankWellsFargo, "AccountActivity")
	require.NoError(t, svc.Save(chasePath, []model.Transaction{
		mkTxn("2025-05-01", "Coffee", "1111111111111111A", model.BankChase),
	}))
	require.NoError(t, svc.Save(wfPath, []model.Transaction{
		mkTxn("2025-05-02", "Groceries", "2222222222222222B", model.BankWellsFargo),
	}))

	// A source whose ledger does not exist yet counts as empty.
	missing := svc.SourcePath(model.BankCapitalOne, "AccountActivity")

	total, err := Build(svc, []string{chasePath, wfPath, missing}, svc.AggregatePath())
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	got, err := svc.Load(svc.AggregatePath())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Coffee", got[0].Description)
	assert.Equal(t, "Groceries", got[1].Description)
}

func TestBuild_Idempotent(t *testing.T) {
	dir := t.TempDir()
	svc := ledger.NewService(dir)

	path := svc.SourcePath(model.BankChase, "AccountActivity")
	require.NoError(t, svc.Save(path, []model.Transaction{
		mkTxn("2025-05-01", "Coffee", "1111111111111111A", model.BankChase),
	}))

	_, err := Build(svc, []string{path}, svc.AggregatePath())
	require.NoError(t, err)
	first, err := svc.Load(svc.AggregatePath())
	require.NoError(t, err)

	_, err = Build(svc, []string{path}, svc.AggregatePath())
	require.NoError(t, err)
	second, err := svc.Load(svc.AggregatePath())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuild_DedupByID(t *testing.T) {
	dir := t.TempDir()
	svc := ledger.NewService(dir)

	// The same day and description with distinct IDs are two real
	// transactions; identical IDs collapse.
	path := svc.SourcePath(model.BankChase, "AccountActivity")
	require.NoError(t, svc.Save(path, []model.Transaction{
		mkTxn("2025-05-01", "Coffee", "1111111111111111A", model.BankChase),
		mkTxn("2025-05-01", "Coffee", "2222222222222222B", model.BankChase),
	}))

	total, err := Build(svc, []string{path, path}, svc.AggregatePath())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
