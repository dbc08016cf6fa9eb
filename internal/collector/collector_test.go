package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"BandWatch/internal/model"
)

var (
	testEnd   = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	testStart = testEnd.AddDate(0, 0, -365)
)

func TestCollect_SkipsFailures(t *testing.T) {
	fetcher := &MockFetcher{
		Bars: map[string][]model.OHLCV{
			"AAA": GenerateBars(100, 300, testEnd),
			"BBB": GenerateBars(50, 3, testEnd),
			"CCC": GenerateBars(20, 30, testEnd),
			"DDD": GenerateBars(10, 30, testEnd),
		},
		Prices:   map[string]float64{"AAA": 101},
		RangeErr: map[string]error{"CCC": errors.New("connection reset")},
		PriceErr: map[string]error{"DDD": errors.New("quote unavailable")},
	}
	col := NewCollector(fetcher, zap.NewNop())

	records, skipped, err := col.Collect(context.Background(), []string{"AAA", "BBB", "CCC", "DDD", "EEE"}, testStart, testEnd)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "AAA", records[0].Symbol)
	assert.Equal(t, 101.0, records[0].CurrentPrice)
	assert.Equal(t, 300, records[0].Bars)
	assert.Equal(t, "BBB", records[1].Symbol)

	require.Len(t, skipped, 3)
	assert.Equal(t, "CCC", skipped[0].Symbol)
	assert.Contains(t, skipped[0].Reason, "connection reset")
	assert.Equal(t, "DDD", skipped[1].Symbol)
	assert.Contains(t, skipped[1].Reason, "latest close")
	assert.Equal(t, "EEE", skipped[2].Symbol)
}

func TestCollectOne_BandsFollowHistoryLength(t *testing.T) {
	fetcher := &MockFetcher{Bars: map[string][]model.OHLCV{"BBB": GenerateBars(50, 12, testEnd)}}
	col := NewCollector(fetcher, nil)

	rec, err := col.CollectOne(context.Background(), "BBB", testStart, testEnd)
	require.NoError(t, err)

	assert.True(t, rec.Band(model.StyleScalping).Complete())
	assert.True(t, rec.Band(model.StyleIntraday).Complete())
	assert.Nil(t, rec.Band(model.StyleMomentum).Support)
	assert.Nil(t, rec.Band(model.StyleSwing).Support)
	assert.Nil(t, rec.Band(model.StyleLongTerm).Resistance)
}

func TestCollectOne_NoData(t *testing.T) {
	col := NewCollector(&MockFetcher{}, nil)
	_, err := col.CollectOne(context.Background(), "ZZZ", testStart, testEnd)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCollect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &MockFetcher{Bars: map[string][]model.OHLCV{"AAA": GenerateBars(100, 10, testEnd)}}
	records, _, err := NewCollector(fetcher, nil).Collect(ctx, []string{"AAA"}, testStart, testEnd)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, records)
}
