package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1717372800, 1717200000, 1717286400],
      "indicators": {
        "quote": [{
          "open":   [102.0, 100.0, null],
          "high":   [104.0, 101.5, null],
          "low":    [101.0,  99.0, null],
          "close":  [103.5, 101.0, null],
          "volume": [1200, 1000, null]
        }]
      }
    }],
    "error": null
  }
}`

func newTestYahoo(t *testing.T, handler http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := NewYahooFetcher("", 0)
	f.BaseURL = srv.URL
	f.Client = srv.Client()
	return f
}

func TestYahooFetcher_FetchDailyRange(t *testing.T) {
	var gotQuery map[string]string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/RELIANCE.NS", r.URL.Path)
		gotQuery = map[string]string{
			"interval": r.URL.Query().Get("interval"),
			"period1":  r.URL.Query().Get("period1"),
			"period2":  r.URL.Query().Get("period2"),
		}
		_, _ = w.Write([]byte(chartBody))
	})

	bars, err := f.FetchDailyRange(context.Background(), "RELIANCE.NS", testStart, testEnd)
	require.NoError(t, err)

	assert.Equal(t, "1d", gotQuery["interval"])
	assert.NotEmpty(t, gotQuery["period1"])
	assert.NotEmpty(t, gotQuery["period2"])

	// null bar skipped, remaining sorted chronologically
	require.Len(t, bars, 2)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.Equal(t, 99.0, bars[0].Low)
	assert.Equal(t, 104.0, bars[1].High)
}

func TestYahooFetcher_FetchLatestClose(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1d", r.URL.Query().Get("range"))
		_, _ = w.Write([]byte(chartBody))
	})

	price, err := f.FetchLatestClose(context.Background(), "RELIANCE.NS")
	require.NoError(t, err)
	assert.Equal(t, 103.5, price)
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		noData bool
	}{
		{"not found", http.StatusNotFound, `{}`, true},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`, true},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, false},
		{"server error", http.StatusInternalServerError, `oops`, false},
		{"bad json", http.StatusOK, `{"chart":`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := f.FetchDailyRange(context.Background(), "XYZ", testStart, testEnd)
			require.Error(t, err)
			if tt.noData {
				assert.ErrorIs(t, err, ErrNoData)
			} else {
				assert.NotErrorIs(t, err, ErrNoData)
			}
		})
	}
}
