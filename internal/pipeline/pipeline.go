package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"BandWatch/internal/calculator"
	"BandWatch/internal/collector"
	"BandWatch/internal/model"
	"BandWatch/internal/proximity"
	"BandWatch/internal/recorder"
	"BandWatch/internal/report"
	"BandWatch/internal/workbook"
)

// Alert flags a stock trading near one of its levels for a style.
type Alert struct {
	Symbol string
	Style  string
	Label  string
	Price  float64
	Level  float64
}

// Result is the outcome of a completed run.
type Result struct {
	RunID      string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Start      time.Time
	End        time.Time
	Symbols    []string
	Records    []*model.StockRecord
	Skipped    []model.SkippedStock
	Alerts     []Alert
	Workbook   *workbook.Workbook
	OutputFile string
}

// Pipeline runs the load → fetch → compute → build → clean → annotate → write sequence.
type Pipeline struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Logger    *zap.Logger
}

// New creates a Pipeline. A nil recorder disables history, a nil logger discards logs.
func New(col *collector.Collector, rec recorder.Recorder, logger *zap.Logger) *Pipeline {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{Collector: col, Recorder: rec, Logger: logger}
}

// Run executes one batch. Stocks that cannot be fetched are skipped; any file
// error aborts the run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	res := &Result{
		RunID:      uuid.NewString(),
		Source:     p.Collector.Fetcher.Name(),
		StartedAt:  now(),
		OutputFile: opts.OutputFile,
	}
	res.Start, res.End = opts.DateRange()
	log := p.Logger.With(zap.String("run_id", res.RunID))

	symbols, err := workbook.LoadSymbols(opts.InputFile, opts.InputSheet, opts.InputColumn)
	if err != nil {
		return nil, fmt.Errorf("load input: %w", err)
	}
	res.Symbols = symbols
	log.Info("input loaded",
		zap.String("path", opts.InputFile),
		zap.Int("symbols", len(symbols)),
		zap.String("source", res.Source),
		zap.Time("start", res.Start), zap.Time("end", res.End))

	res.Records, res.Skipped, err = p.Collector.Collect(ctx, symbols, res.Start, res.End)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	log.Info("market data collected",
		zap.Int("collected", len(res.Records)),
		zap.Int("skipped", len(res.Skipped)))

	raw, err := report.BuildWorkbook(res.Records)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	if opts.RoundTrip {
		if raw, err = p.roundTrip(raw, opts.RawFile); err != nil {
			return nil, err
		}
	}

	cleaned := report.Clean(raw)
	if opts.RoundTrip {
		if cleaned, err = p.roundTrip(cleaned, opts.CleanedFile); err != nil {
			return nil, err
		}
	}

	annotated, err := proximity.Annotate(cleaned, opts.ProximityRatio)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}
	if err := workbook.Write(annotated, opts.OutputFile); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	res.Workbook = annotated

	if opts.RoundTrip {
		if err := Cleanup(opts.RawFile, opts.CleanedFile); err != nil {
			return nil, err
		}
		log.Debug("intermediate files removed",
			zap.String("raw", opts.RawFile), zap.String("cleaned", opts.CleanedFile))
	}

	rows := bandRows(res.Records, opts.ProximityRatio)
	res.Alerts = alerts(rows)
	res.FinishedAt = now()
	p.record(log, res, rows)

	log.Info("updated data saved",
		zap.String("path", opts.OutputFile),
		zap.Int("alerts", len(res.Alerts)),
		zap.Duration("elapsed", res.FinishedAt.Sub(res.StartedAt)))
	return res, nil
}

// roundTrip writes wb to path and reads it back, as a separate stage file.
func (p *Pipeline) roundTrip(wb *workbook.Workbook, path string) (*workbook.Workbook, error) {
	if err := workbook.Write(wb, path); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	out, err := workbook.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}

// Cleanup deletes intermediate files. The first failure is returned.
func Cleanup(paths ...string) error {
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}

func (p *Pipeline) record(log *zap.Logger, res *Result, rows []recorder.BandRow) {
	if err := p.Recorder.RecordRun(&recorder.RunSummary{
		ID:         res.RunID,
		Source:     res.Source,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Symbols:    len(res.Symbols),
		Collected:  len(res.Records),
		Skipped:    len(res.Skipped),
		OutputFile: res.OutputFile,
	}); err != nil {
		log.Error("record run", zap.Error(err))
		return
	}
	if err := p.Recorder.RecordBands(res.RunID, rows); err != nil {
		log.Error("record bands", zap.Error(err))
	}
}

func bandRows(records []*model.StockRecord, ratio float64) []recorder.BandRow {
	rows := make([]recorder.BandRow, 0, len(records)*len(model.Styles))
	for _, rec := range records {
		price := rec.CurrentPrice
		for _, style := range model.Styles {
			band := rec.Band(style)
			prox := proximity.Classify(&price, band.Support, band.Resistance, ratio)
			row := recorder.BandRow{
				Symbol:         rec.Symbol,
				Style:          style.Name,
				Window:         style.Window,
				CurrentPrice:   price,
				Support:        band.Support,
				Resistance:     band.Resistance,
				NearSupport:    prox.NearSupport,
				NearResistance: prox.NearResistance,
			}
			if pos, err := calculator.Position(price, band); err == nil {
				row.Position = &pos
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func alerts(rows []recorder.BandRow) []Alert {
	var out []Alert
	for _, r := range rows {
		if r.NearSupport == model.LabelNearSupport {
			out = append(out, Alert{Symbol: r.Symbol, Style: r.Style, Label: r.NearSupport, Price: r.CurrentPrice, Level: *r.Support})
		}
		if r.NearResistance == model.LabelNearResistance {
			out = append(out, Alert{Symbol: r.Symbol, Style: r.Style, Label: r.NearResistance, Price: r.CurrentPrice, Level: *r.Resistance})
		}
	}
	return out
}
