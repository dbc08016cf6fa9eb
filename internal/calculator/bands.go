package calculator

import (
	"errors"
	"math"

	"BandWatch/internal/model"
)

// CalculateBand scans the trailing window bars ending at the last bar and returns
// the lowest Low as support and the highest High as resistance.
// Both levels are nil when the series is shorter than the window.
func CalculateBand(bars []model.OHLCV, window int) (model.Band, error) {
	if window <= 0 {
		return model.Band{}, errors.New("window must be positive")
	}
	n := len(bars)
	if n < window {
		return model.Band{}, nil
	}
	high := math.Inf(-1)
	low := math.Inf(1)
	for i := n - window; i < n; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return model.Band{Support: &low, Resistance: &high}, nil
}

// CalculateBands computes the band of every trading style independently.
func CalculateBands(bars []model.OHLCV) map[string]model.Band {
	bands := make(map[string]model.Band, len(model.Styles))
	for _, style := range model.Styles {
		// style windows are positive constants
		band, _ := CalculateBand(bars, style.Window)
		bands[style.Name] = band
	}
	return bands
}

// Position returns where price sits between support and resistance (0.0~1.0).
func Position(price float64, band model.Band) (float64, error) {
	if !band.Complete() {
		return 0, errors.New("band is incomplete")
	}
	low, high := *band.Support, *band.Resistance
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("resistance must be >= support")
	}
	pos := (price - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
