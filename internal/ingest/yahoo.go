package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"marketinsights/internal/logger"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// SourceYahoo names the quote source the Yahoo client writes under.
const SourceYahoo = "yahoo"

type YahooClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

func NewYahooClient(log *logger.Logger) *YahooClient {
	return &YahooClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    yahooChartURL,
		logger:     log,
	}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// FetchPrice fetches the latest intraday close for a symbol from the
// unauthenticated Yahoo Finance chart API.
func (c *YahooClient) FetchPrice(ctx context.Context, symbol string) (*Quote, error) {
	url := fmt.Sprintf("%s%s?region=US&lang=en-US&range=1d&interval=1m&includePrePost=false", c.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call Yahoo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Yahoo returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var chart yahooChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("parse Yahoo response: %w", err)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("no result in Yahoo response")
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("missing timestamps or closes in Yahoo response")
	}

	closes := result.Indicators.Quote[0].Close
	var price *float64
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] != nil {
			price = closes[i]
			break
		}
	}
	if price == nil {
		return nil, fmt.Errorf("no valid close price found")
	}

	sym := result.Meta.Symbol
	if sym == "" {
		sym = symbol
	}
	ts := result.Timestamp[len(result.Timestamp)-1]

	return &Quote{
		Symbol:   sym,
		Price:    *price,
		AsOf:     time.Unix(ts, 0).UTC().Format("2006-01-02T15:04:05Z"),
		Currency: result.Meta.Currency,
	}, nil
}
