package recorder

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bands.db")
	rec, err := NewSQLiteRecorder(path, nil)
	require.NoError(t, err)
	defer rec.Close()

	now := time.Date(2025, 6, 2, 16, 30, 0, 0, time.UTC)
	require.NoError(t, rec.RecordRun(&RunSummary{
		ID:         "run-1",
		Source:     "mock",
		StartedAt:  now,
		FinishedAt: now.Add(time.Minute),
		Symbols:    2,
		Collected:  1,
		Skipped:    1,
		OutputFile: "todaySTOCK.xlsx",
	}))

	support, resistance, pos := 95.0, 110.0, 0.4
	require.NoError(t, rec.RecordBands("run-1", []BandRow{
		{Symbol: "AAA", Style: "Swing", Window: 50, CurrentPrice: 101, Support: &support, Resistance: &resistance, Position: &pos, NearSupport: "Neutral", NearResistance: "Neutral"},
		{Symbol: "AAA", Style: "Long Term", Window: 200, CurrentPrice: 101, NearSupport: "Neutral", NearResistance: "Neutral"},
	}))

	var count int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM band_snapshots WHERE run_id = ?`, "run-1").Scan(&count))
	assert.Equal(t, 2, count)

	var lt sql.NullFloat64
	require.NoError(t, rec.db.QueryRow(`SELECT support FROM band_snapshots WHERE style = 'Long Term'`).Scan(&lt))
	assert.False(t, lt.Valid)

	var collected int
	require.NoError(t, rec.db.QueryRow(`SELECT collected FROM runs WHERE id = 'run-1'`).Scan(&collected))
	assert.Equal(t, 1, collected)
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bands.db")
	rec, err := NewSQLiteRecorder(path, nil)
	require.NoError(t, err)
	require.NoError(t, rec.RecordRun(&RunSummary{ID: "a", StartedAt: time.Now(), FinishedAt: time.Now()}))
	require.NoError(t, rec.Close())

	rec, err = NewSQLiteRecorder(path, nil)
	require.NoError(t, err)
	defer rec.Close()

	var count int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestNewSQLiteRecorder_BadPath(t *testing.T) {
	_, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "missing", "dir", "bands.db"), nil)
	assert.Error(t, err)
}
