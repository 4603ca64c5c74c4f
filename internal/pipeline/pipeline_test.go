package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankfold/bankfold/internal/config"
	"github.com/bankfold/bankfold/internal/extract"
	"github.com/bankfold/bankfold/internal/ledger"
	"github.com/bankfold/bankfold/internal/model"
	"github.com/bankfold/bankfold/internal/normalize"
	"github.com/bankfold/bankfold/internal/runlog"
)

// fakeExtractor returns canned tables for every statement file.
type fakeExtractor struct {
	tables []extract.Table
}

func (f *fakeExtractor) Tables(path string) ([]extract.Table, error) {
	return f.tables, nil
}

func statementTables() []extract.Table {
	return []extract.Table{{
		{"Card", "Date", "Date", "Reference", "Description", "Credits", "Charges"},
		{"4031", "06/11", "06/12", "7241938650", "GROCERY MART", "", "82.44"},
		{"4031", "06/14", "06/15", "7241938651", "RETURN CREDIT", "-20.00", "45.00"},
	}}
}

func copyFixture(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func newTestRunner(t *testing.T, dir string) *Runner {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = dir
	registry := normalize.DefaultRegistry(&fakeExtractor{tables: statementTables()})
	return NewRunner(cfg, registry, zerolog.Nop())
}

func seedInputs(t *testing.T, dir string) {
	t.Helper()
	copyFixture(t, "../../testdata/chase_activity.csv",
		filepath.Join(dir, "Chase", "AccountActivity", "Chase9088_Activity20250701_20250801.csv"))
	copyFixture(t, "../../testdata/wellsfargo_activity.csv",
		filepath.Join(dir, "WellsFargo", "AccountActivity", "11Jun2025-23July2025.csv"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "WellsFargo", "Statements"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "WellsFargo", "Statements", "035225 Statement.pdf"), []byte("%PDF"), 0o644))
}

func TestRun_FullPipeline(t *testing.T) {
	dir := t.TempDir()
	seedInputs(t, dir)

	runner := newTestRunner(t, dir)
	require.NoError(t, runner.Run())

	svc := ledger.NewService(dir)

	chase, err := svc.Load(svc.SourcePath(model.BankChase, "AccountActivity"))
	require.NoError(t, err)
	// The payment row never enters the ledger.
	require.Len(t, chase, 2)
	for _, txn := range chase {
		assert.NotContains(t, txn.Description, "PAYMENT")
		assert.Equal(t, 9088, txn.Card)
		assert.Len(t, txn.ID, 17)
	}

	wf, err := svc.Load(svc.SourcePath(model.BankWellsFargo, "AccountActivity"))
	require.NoError(t, err)
	assert.Len(t, wf, 3)

	stmt, err := svc.Load(svc.SourcePath(model.BankWellsFargo, "Statements"))
	require.NoError(t, err)
	require.Len(t, stmt, 2)
	assert.Equal(t, "7241938650", stmt[0].ID)

	agg, err := svc.Load(svc.AggregatePath())
	require.NoError(t, err)
	assert.Len(t, agg, 7)

	// Aggregate is the superset of every source ledger.
	inAgg := make(map[string]bool)
	for _, txn := range agg {
		inAgg[txn.KeyWithID()] = true
	}
	for _, txn := range append(append(chase, wf...), stmt...) {
		assert.True(t, inAgg[txn.KeyWithID()], "aggregate missing %s %q", txn.Date.Format("2006-01-02"), txn.Description)
	}

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRun_Idempotent(t *testing.T) {
	dir := t.TempDir()
	seedInputs(t, dir)

	runner := newTestRunner(t, dir)
	require.NoError(t, runner.Run())

	svc := ledger.NewService(dir)
	readAll := func() map[string]string {
		t.Helper()
		out := make(map[string]string)
		for _, path := range []string{
			svc.SourcePath(model.BankChase, "AccountActivity"),
			svc.SourcePath(model.BankWellsFargo, "AccountActivity"),
			svc.SourcePath(model.BankWellsFargo, "Statements"),
			svc.AggregatePath(),
		} {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			out[path] = string(data)
		}
		return out
	}

	first := readAll()
	require.NoError(t, runner.Run())
	assert.Equal(t, first, readAll())
}

func TestRun_CreatesMissingDirectories(t *testing.T) {
	dir := t.TempDir()

	runner := newTestRunner(t, dir)
	require.NoError(t, runner.Run())

	for _, sub := range []string{
		filepath.Join("CapitalOne", "AccountActivity"),
		filepath.Join("Chase", "AccountActivity"),
		filepath.Join("WellsFargo", "AccountActivity"),
		filepath.Join("WellsFargo", "Statements"),
	} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err, sub)
		assert.True(t, info.IsDir())
	}
}

func TestRun_BadFileDoesNotAbortSiblings(t *testing.T) {
	dir := t.TempDir()
	seedInputs(t, dir)

	bad := filepath.Join(dir, "Chase", "AccountActivity", "Chase0000_broken.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Transaction Date,Post Date,Description,Category,Type,Amount,Memo\nNOTADATE,x,desc,,Sale,-1.00,\n"), 0o644))

	runner := newTestRunner(t, dir)
	err := runner.Run()
	require.Error(t, err)

	// The good Chase file and the other sources still merged.
	svc := ledger.NewService(dir)
	chase, loadErr := svc.Load(svc.SourcePath(model.BankChase, "AccountActivity"))
	require.NoError(t, loadErr)
	assert.Len(t, chase, 2)

	wf, loadErr := svc.Load(svc.SourcePath(model.BankWellsFargo, "AccountActivity"))
	require.NoError(t, loadErr)
	assert.Len(t, wf, 3)

	entries, readErr := runlog.Read(dir)
	require.NoError(t, readErr)
	var failed int
	for _, e := range entries {
		if e.Status == runlog.StatusFailed {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}
