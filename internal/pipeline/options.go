package pipeline

import (
	"time"

	"BandWatch/internal/config"
	"BandWatch/internal/proximity"
)

// Options carries every file name, date and threshold a run depends on.
type Options struct {
	InputFile   string
	InputSheet  string
	InputColumn string

	OutputFile  string
	RawFile     string
	CleanedFile string
	// RoundTrip writes and re-reads the raw and cleaned workbooks between
	// stages, then removes them once the final workbook is saved.
	RoundTrip bool

	// Start and End bound the history request; zero values derive the range
	// from Now and LookbackDays.
	Start        time.Time
	End          time.Time
	LookbackDays int

	ProximityRatio float64

	Now func() time.Time
}

// DefaultOptions returns the options of a plain one-shot run.
func DefaultOptions() Options {
	return Options{
		InputFile:      config.DefaultInputFile,
		InputSheet:     config.DefaultInputSheet,
		InputColumn:    config.DefaultInputColumn,
		OutputFile:     config.DefaultOutputFile,
		RawFile:        config.DefaultRawFile,
		CleanedFile:    config.DefaultCleanedFile,
		LookbackDays:   config.DefaultLookbackDays,
		ProximityRatio: proximity.DefaultRatio,
		Now:            time.Now,
	}
}

// OptionsFromConfig maps loaded configuration onto run options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	opts.InputFile = cfg.Input.File
	opts.InputSheet = cfg.Input.Sheet
	opts.InputColumn = cfg.Input.Column
	opts.OutputFile = cfg.Output.File
	opts.RawFile = cfg.Output.RawFile
	opts.CleanedFile = cfg.Output.CleanedFile
	opts.RoundTrip = cfg.Output.RoundTrip
	opts.LookbackDays = cfg.History.LookbackDays
	opts.ProximityRatio = cfg.Proximity.Ratio
	return opts
}

// DateRange returns the history window: End defaults to the start of today and
// Start to End minus LookbackDays.
func (o Options) DateRange() (start, end time.Time) {
	end = o.End
	if end.IsZero() {
		now := time.Now
		if o.Now != nil {
			now = o.Now
		}
		t := now()
		end = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	start = o.Start
	if start.IsZero() {
		days := o.LookbackDays
		if days <= 0 {
			days = config.DefaultLookbackDays
		}
		start = end.AddDate(0, 0, -days)
	}
	return start, end
}
