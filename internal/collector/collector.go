package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"BandWatch/internal/calculator"
	"BandWatch/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars     map[string][]model.OHLCV
	Prices   map[string]float64
	RangeErr map[string]error
	PriceErr map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyRange(_ context.Context, symbol string, _, _ time.Time) ([]model.OHLCV, error) {
	if err := m.RangeErr[symbol]; err != nil {
		return nil, err
	}
	bars := m.Bars[symbol]
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return bars, nil
}

func (m *MockFetcher) FetchLatestClose(_ context.Context, symbol string) (float64, error) {
	if err := m.PriceErr[symbol]; err != nil {
		return 0, err
	}
	if p, ok := m.Prices[symbol]; ok {
		return p, nil
	}
	if bars := m.Bars[symbol]; len(bars) > 0 {
		return bars[len(bars)-1].Close, nil
	}
	return 0, ErrNoData
}

// GenerateBars builds count daily bars ending the day before end, drifting around basePrice.
func GenerateBars(basePrice float64, count int, end time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector orchestrates data fetching and band computation.
type Collector struct {
	Fetcher Fetcher
	Logger  *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Fetcher: fetcher, Logger: logger}
}

// CollectOne fetches one symbol's history and latest close and computes its bands.
func (c *Collector) CollectOne(ctx context.Context, symbol string, start, end time.Time) (*model.StockRecord, error) {
	bars, err := c.Fetcher.FetchDailyRange(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch daily range: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch daily range: %w", ErrNoData)
	}
	series := &model.PriceSeries{Symbol: symbol, DailyBars: bars, FetchedAt: time.Now()}

	price, err := c.Fetcher.FetchLatestClose(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch latest close: %w", err)
	}

	return &model.StockRecord{
		Symbol:       symbol,
		CurrentPrice: price,
		Bars:         series.Len(),
		Bands:        calculator.CalculateBands(series.DailyBars),
	}, nil
}

// Collect processes symbols one at a time. A symbol whose history or latest close
// cannot be fetched is logged and skipped; the remaining symbols are unaffected.
// The only error returned is context cancellation.
func (c *Collector) Collect(ctx context.Context, symbols []string, start, end time.Time) ([]*model.StockRecord, []model.SkippedStock, error) {
	var records []*model.StockRecord
	var skipped []model.SkippedStock

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return records, skipped, err
		}
		rec, err := c.CollectOne(ctx, symbol, start, end)
		if err != nil {
			if ctx.Err() != nil {
				return records, skipped, ctx.Err()
			}
			if errors.Is(err, ErrNoData) {
				c.Logger.Warn("no data available in range, skipping",
					zap.String("symbol", symbol),
					zap.Time("start", start), zap.Time("end", end))
			} else {
				c.Logger.Warn("error fetching data, skipping",
					zap.String("symbol", symbol), zap.Error(err))
			}
			skipped = append(skipped, model.SkippedStock{Symbol: symbol, Reason: err.Error()})
			continue
		}
		c.Logger.Debug("collected",
			zap.String("symbol", symbol),
			zap.Int("bars", rec.Bars),
			zap.Float64("price", rec.CurrentPrice))
		records = append(records, rec)
	}
	return records, skipped, nil
}
