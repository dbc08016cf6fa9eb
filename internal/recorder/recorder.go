package recorder

import "time"

// RunSummary describes one pipeline run.
type RunSummary struct {
	ID         string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Symbols    int
	Collected  int
	Skipped    int
	OutputFile string
}

// BandRow is one stock's band and classification for one trading style.
type BandRow struct {
	Symbol         string
	Style          string
	Window         int
	CurrentPrice   float64
	Support        *float64
	Resistance     *float64
	Position       *float64 // 0.0 ~ 1.0 within the band
	NearSupport    string
	NearResistance string
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(run *RunSummary) error
	RecordBands(runID string, rows []BandRow) error
	Close() error
}
