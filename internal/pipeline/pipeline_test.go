package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"BandWatch/internal/collector"
	"BandWatch/internal/model"
	"BandWatch/internal/proximity"
	"BandWatch/internal/recorder"
	"BandWatch/internal/workbook"
)

var fixedNow = time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)

type memRecorder struct {
	runs []*recorder.RunSummary
	rows map[string][]recorder.BandRow
}

func (m *memRecorder) RecordRun(run *recorder.RunSummary) error {
	m.runs = append(m.runs, run)
	return nil
}

func (m *memRecorder) RecordBands(runID string, rows []recorder.BandRow) error {
	if m.rows == nil {
		m.rows = map[string][]recorder.BandRow{}
	}
	m.rows[runID] = rows
	return nil
}

func (m *memRecorder) Close() error { return nil }

func writeInput(t *testing.T, dir string, symbols ...string) string {
	t.Helper()
	path := filepath.Join(dir, "STOCK EXCEL.xlsx")
	fx := excelize.NewFile()
	defer fx.Close()
	require.NoError(t, fx.SetCellValue("Sheet1", "A1", "STOCK NAME"))
	for i, s := range symbols {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, fx.SetCellValue("Sheet1", cell, s))
	}
	require.NoError(t, fx.SaveAs(path))
	return path
}

func testOptions(dir, input string) Options {
	opts := DefaultOptions()
	opts.InputFile = input
	opts.OutputFile = filepath.Join(dir, "todaySTOCK.xlsx")
	opts.RawFile = filepath.Join(dir, "support_resistance_data.xlsx")
	opts.CleanedFile = filepath.Join(dir, "final_support_resistance_data.xlsx")
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

func testFetcher() *collector.MockFetcher {
	return &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"AAA": collector.GenerateBars(100, 300, fixedNow),
			"BBB": collector.GenerateBars(50, 3, fixedNow),
		},
		Prices: map[string]float64{"AAA": 100.5, "BBB": 50},
	}
}

func TestOptions_DateRange(t *testing.T) {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }

	start, end := opts.DateRange()
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, end.AddDate(0, 0, -365), start)

	opts.LookbackDays = 30
	start, _ = opts.DateRange()
	assert.Equal(t, end.AddDate(0, 0, -30), start)
}

func TestRun_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir, writeInput(t, dir, "AAA", "BBB", "CCC"))
	opts.RoundTrip = true

	rec := &memRecorder{}
	p := New(collector.NewCollector(testFetcher(), zap.NewNop()), rec, zap.NewNop())

	res, err := p.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, res.Symbols)
	require.Len(t, res.Records, 2)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "CCC", res.Skipped[0].Symbol)

	// only the final workbook remains
	assert.NoFileExists(t, opts.RawFile)
	assert.NoFileExists(t, opts.CleanedFile)
	require.FileExists(t, opts.OutputFile)

	out, err := workbook.Read(opts.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"Swing", "Intraday", "Long Term", "Momentum", "Scalping"}, out.SheetNames())

	lt := out.Sheet("Long Term")
	assert.Equal(t, []string{"Stock Name", "Current Price", "Support Long Term", "Resistance Long Term", "Near Support", "Near Resistance"}, lt.Columns)
	require.Len(t, lt.Rows, 2)
	assert.Equal(t, "AAA", lt.Value(0, "Stock Name"))
	assert.NotNil(t, lt.Value(0, "Support Long Term"))
	assert.NotNil(t, lt.Value(0, "Resistance Long Term"))
	assert.Equal(t, "BBB", lt.Value(1, "Stock Name"))
	assert.Nil(t, lt.Value(1, "Support Long Term"))
	assert.Nil(t, lt.Value(1, "Resistance Long Term"))
	assert.Equal(t, model.LabelNeutral, lt.Value(1, "Near Support"))

	intraday := out.Sheet("Intraday")
	assert.NotNil(t, intraday.Value(0, "Support Intraday"))
	assert.Nil(t, intraday.Value(1, "Support Intraday"))

	require.Len(t, rec.runs, 1)
	assert.Equal(t, res.RunID, rec.runs[0].ID)
	assert.Equal(t, 3, rec.runs[0].Symbols)
	assert.Equal(t, 1, rec.runs[0].Skipped)
	assert.Len(t, rec.rows[res.RunID], 2*len(model.Styles))
}

func TestRun_InMemoryMatchesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "AAA", "BBB")

	opts := testOptions(dir, input)
	p := New(collector.NewCollector(testFetcher(), nil), nil, nil)
	res, err := p.Run(context.Background(), opts)
	require.NoError(t, err)

	// no intermediate file is ever written
	assert.NoFileExists(t, opts.RawFile)
	assert.NoFileExists(t, opts.CleanedFile)
	require.FileExists(t, opts.OutputFile)

	sc := res.Workbook.Sheet("Scalping")
	require.NotNil(t, sc)
	assert.IsType(t, 0.0, sc.Value(0, "Support Scalping"))
	assert.Nil(t, sc.Value(1, "Support Scalping"))

	rtDir := t.TempDir()
	rtOpts := testOptions(rtDir, input)
	rtOpts.RoundTrip = true
	rtRes, err := p.Run(context.Background(), rtOpts)
	require.NoError(t, err)

	for _, name := range res.Workbook.SheetNames() {
		a, b := res.Workbook.Sheet(name), rtRes.Workbook.Sheet(name)
		assert.Equal(t, a.Columns, b.Columns, name)
		for i := range a.Rows {
			assert.Equal(t, a.Value(i, proximity.ColumnNearSupport), b.Value(i, proximity.ColumnNearSupport), name)
			assert.Equal(t, a.Value(i, proximity.ColumnNearResistance), b.Value(i, proximity.ColumnNearResistance), name)
		}
	}
}

func TestRun_AlertsNearSupport(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir, writeInput(t, dir, "AAA"))

	bars := make([]model.OHLCV, 10)
	for i := range bars {
		bars[i] = model.OHLCV{Time: fixedNow.AddDate(0, 0, i-10), Open: 100, High: 130, Low: 96, Close: 110}
	}
	fetcher := &collector.MockFetcher{
		Bars:   map[string][]model.OHLCV{"AAA": bars},
		Prices: map[string]float64{"AAA": 100},
	}
	res, err := New(collector.NewCollector(fetcher, nil), nil, nil).Run(context.Background(), opts)
	require.NoError(t, err)

	// Scalping (5) and Intraday (10) have bands; 100 vs 96 is within 5%
	require.Len(t, res.Alerts, 2)
	for _, a := range res.Alerts {
		assert.Equal(t, "AAA", a.Symbol)
		assert.Equal(t, model.LabelNearSupport, a.Label)
		assert.Equal(t, 96.0, a.Level)
	}
}

func TestRun_MissingInputIsFatal(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir, filepath.Join(dir, "missing.xlsx"))

	_, err := New(collector.NewCollector(testFetcher(), nil), nil, nil).Run(context.Background(), opts)
	require.Error(t, err)
	assert.NoFileExists(t, opts.OutputFile)
}

func TestRun_UnwritableOutputIsFatal(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir, writeInput(t, dir, "AAA"))
	// a directory where the output file should go
	require.NoError(t, os.Mkdir(opts.OutputFile, 0755))

	_, err := New(collector.NewCollector(testFetcher(), nil), nil, nil).Run(context.Background(), opts)
	assert.ErrorContains(t, err, "write output")
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xlsx")
	b := filepath.Join(dir, "b.xlsx")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("x"), 0644))

	require.NoError(t, Cleanup(a, b))
	assert.NoFileExists(t, a)
	assert.NoFileExists(t, b)

	err := Cleanup(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
