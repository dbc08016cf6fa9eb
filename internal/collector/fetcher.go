package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"BandWatch/internal/model"
)

// ErrNoData is returned when the data source has no bars for the requested range.
var ErrNoData = errors.New("no data available")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyRange returns chronologically ordered daily bars in [start, end).
	FetchDailyRange(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	// FetchLatestClose returns the most recent daily close.
	FetchLatestClose(ctx context.Context, symbol string) (float64, error)
	Name() string
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// newLimiter returns a token bucket allowing requestsPerSecond; zero or less disables pacing.
func newLimiter(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}
