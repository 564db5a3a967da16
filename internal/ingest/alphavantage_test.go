package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketinsights/internal/logger"
)

func newAlphaClient(t *testing.T, handler http.HandlerFunc) *AlphaVantageClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewAlphaVantageClient(logger.New("error"))
	c.baseURL = srv.URL
	return c
}

func TestFetchQuote(t *testing.T) {
	c := newAlphaClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"Global Quote": {
			"01. symbol": "AAPL",
			"05. price": "192.5300",
			"07. latest trading day": "2024-01-02"
		}}`))
	})

	q, err := c.FetchQuote(context.Background(), "AAPL", "key")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, 192.53, q.Price)
	assert.Equal(t, "2024-01-02T00:00:00Z", q.AsOf)
	assert.Empty(t, q.Currency)
}

func TestFetchQuoteThrottled(t *testing.T) {
	c := newAlphaClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	})

	_, err := c.FetchQuote(context.Background(), "AAPL", "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestFetchQuoteMissingPrice(t *testing.T) {
	c := newAlphaClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {"01. symbol": "AAPL"}}`))
	})

	_, err := c.FetchQuote(context.Background(), "AAPL", "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing price")
}

func TestFetchQuoteUpstreamStatus(t *testing.T) {
	c := newAlphaClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.FetchQuote(context.Background(), "AAPL", "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestTransportErrorOmitsAPIKey(t *testing.T) {
	// Unreachable host: the request URL inside the transport error carries
	// the key, and the surfaced error ends up in 502 bodies verbatim.
	c := NewAlphaVantageClient(logger.New("error"))
	c.baseURL = "http://127.0.0.1:1/query"

	_, err := c.FetchQuote(context.Background(), "AAPL", "SUPERSECRETKEY")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SUPERSECRETKEY")
	assert.Contains(t, err.Error(), "call Alpha Vantage")

	_, err = c.FetchFXRate(context.Background(), "EURUSD", "SUPERSECRETKEY")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SUPERSECRETKEY")
}

func TestFetchFXRate(t *testing.T) {
	c := newAlphaClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "CURRENCY_EXCHANGE_RATE", r.URL.Query().Get("function"))
		assert.Equal(t, "EUR", r.URL.Query().Get("from_currency"))
		assert.Equal(t, "USD", r.URL.Query().Get("to_currency"))
		w.Write([]byte(`{"Realtime Currency Exchange Rate": {
			"5. Exchange Rate": "1.08500000",
			"6. Last Refreshed": "2024-01-02 15:04:05"
		}}`))
	})

	q, err := c.FetchFXRate(context.Background(), "EUR/USD", "key")
	require.NoError(t, err)
	assert.Equal(t, "EURUSD", q.Symbol)
	assert.Equal(t, 1.085, q.Price)
	assert.Equal(t, "2024-01-02T15:04:05Z", q.AsOf)
	assert.Equal(t, "USD", q.Currency)
}

func TestFetchFXRateErrors(t *testing.T) {
	c := newAlphaClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	})

	_, err := c.FetchFXRate(context.Background(), "EURUSD", "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API call")

	_, err = c.FetchFXRate(context.Background(), "EUR", "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "6 letters")
}

func TestParsePair(t *testing.T) {
	base, quote, err := ParsePair("eurusd")
	require.NoError(t, err)
	assert.Equal(t, "EUR", base)
	assert.Equal(t, "USD", quote)

	_, _, err = ParsePair("EUR/USD/X")
	assert.Error(t, err)
}

func TestNormalizeTimestamp(t *testing.T) {
	assert.Equal(t, "2024-01-02T15:04:05Z", normalizeTimestamp("2024-01-02 15:04:05"))
	assert.Equal(t, "2024-01-02T15:04:05Z", normalizeTimestamp("2024-01-02T15:04:05"))
	assert.Equal(t, "2024-01-02T15:04:05Z", normalizeTimestamp("2024-01-02T15:04:05Z"))

	// Empty input falls back to a current ISO-8601 UTC stamp.
	now := normalizeTimestamp("")
	assert.True(t, strings.HasSuffix(now, "Z"))
	assert.Contains(t, now, "T")
}
