package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"marketinsights/internal/logger"
)

const alphaVantageURL = "https://www.alphavantage.co/query"

// SourceAlphaVantage and SourceAlphaVantageFX name the quote sources these
// clients write under.
const (
	SourceAlphaVantage   = "alpha_vantage"
	SourceAlphaVantageFX = "alpha_vantage_fx"
)

type AlphaVantageClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

func NewAlphaVantageClient(log *logger.Logger) *AlphaVantageClient {
	return &AlphaVantageClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    alphaVantageURL,
		logger:     log,
	}
}

type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
	Note        string            `json:"Note"`
	Information string            `json:"Information"`
}

// FetchQuote fetches the latest quote for a symbol via GLOBAL_QUOTE.
// Alpha Vantage reports no currency for equities, so Quote.Currency is
// empty. Throttling responses (Note/Information payloads) surface as errors.
func (c *AlphaVantageClient) FetchQuote(ctx context.Context, symbol, apiKey string) (*Quote, error) {
	params := url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {symbol},
		"apikey":   {apiKey},
	}
	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp globalQuoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse Alpha Vantage response: %w", err)
	}
	if len(resp.GlobalQuote) == 0 {
		msg := resp.Note
		if msg == "" {
			msg = resp.Information
		}
		if msg == "" {
			msg = "no Global Quote in response"
		}
		return nil, fmt.Errorf("alpha vantage: %s", msg)
	}

	priceStr := resp.GlobalQuote["05. price"]
	if priceStr == "" {
		return nil, fmt.Errorf("alpha vantage: missing price in Global Quote")
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return nil, fmt.Errorf("alpha vantage: invalid price %q", priceStr)
	}

	sym := resp.GlobalQuote["01. symbol"]
	if sym == "" {
		sym = symbol
	}

	// GLOBAL_QUOTE only reports a trading day; pin it to midnight UTC so
	// the stored as_of stays lexically sortable.
	asOf := ""
	if day := resp.GlobalQuote["07. latest trading day"]; day != "" {
		asOf = day + "T00:00:00Z"
	}

	return &Quote{Symbol: sym, Price: price, AsOf: asOf}, nil
}

type fxResponse struct {
	Rate         map[string]string `json:"Realtime Currency Exchange Rate"`
	Note         string            `json:"Note"`
	ErrorMessage string            `json:"Error Message"`
}

// FetchFXRate fetches the current exchange rate for a 6-letter pair like
// EURUSD. The stored symbol is the concatenated pair and the currency is the
// quote leg.
func (c *AlphaVantageClient) FetchFXRate(ctx context.Context, pair, apiKey string) (*Quote, error) {
	base, quote, err := ParsePair(pair)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"function":      {"CURRENCY_EXCHANGE_RATE"},
		"from_currency": {base},
		"to_currency":   {quote},
		"apikey":        {apiKey},
	}
	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp fxResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse Alpha Vantage FX response: %w", err)
	}
	if resp.Note != "" {
		return nil, fmt.Errorf("alpha vantage rate limit: %s", resp.Note)
	}
	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("alpha vantage: %s", resp.ErrorMessage)
	}
	if len(resp.Rate) == 0 {
		return nil, fmt.Errorf("alpha vantage FX response missing data")
	}

	priceStr := resp.Rate["5. Exchange Rate"]
	if priceStr == "" {
		return nil, fmt.Errorf("alpha vantage FX response missing exchange rate")
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return nil, fmt.Errorf("alpha vantage FX response invalid exchange rate %q", priceStr)
	}

	asOf := normalizeTimestamp(resp.Rate["6. Last Refreshed"])

	return &Quote{
		Symbol:   base + quote,
		Price:    price,
		AsOf:     asOf,
		Currency: quote,
	}, nil
}

func (c *AlphaVantageClient) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request URL carries the API key; surface only the underlying
		// transport error, never the URL.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("call Alpha Vantage: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Alpha Vantage returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// ParsePair splits a currency pair like "EURUSD" or "EUR/USD" into its
// base and quote legs.
func ParsePair(pair string) (string, string, error) {
	p := strings.ToUpper(strings.ReplaceAll(pair, "/", ""))
	if len(p) != 6 {
		return "", "", fmt.Errorf("pair must be 6 letters like EURUSD")
	}
	return p[:3], p[3:], nil
}

// normalizeTimestamp coerces provider timestamps into ISO-8601 UTC text.
// Alpha Vantage reports "YYYY-MM-DD HH:MM:SS" without a zone marker; an
// empty input falls back to the current time.
func normalizeTimestamp(ts string) string {
	if ts == "" {
		return time.Now().UTC().Format("2006-01-02T15:04:05Z")
	}
	if strings.HasSuffix(ts, "Z") {
		return ts
	}
	if strings.Contains(ts, "T") {
		return ts + "Z"
	}
	return strings.Replace(ts, " ", "T", 1) + "Z"
}
