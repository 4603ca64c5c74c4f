package runlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry() Entry {
	return Entry{
		Timestamp: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
		Source:    "chase",
		File:      "Chase9088_Activity.csv",
		Rows:      3,
		Added:     2,
		Status:    StatusMerged,
	}
}

func TestAppendRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Append(dir, []Entry{sampleEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "chase", entries[0].Source)
	assert.Equal(t, 3, entries[0].Rows)
	assert.Equal(t, 2, entries[0].Added)
	assert.Equal(t, StatusMerged, entries[0].Status)
	assert.True(t, entries[0].Timestamp.Equal(sampleEntry().Timestamp))
}

func TestAppend_AccumulatesAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Append(dir, []Entry{sampleEntry()}))
	second := sampleEntry()
	second.Status = StatusEmpty
	require.NoError(t, Append(dir, []Entry{second}))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestAppend_NoEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, nil))

	_, err := os.Stat(filepath.Join(dir, "logs", "runlog.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestRead_Missing(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}
