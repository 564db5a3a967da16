package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"marketinsights/internal/ingest"
	"marketinsights/internal/storage"
)

type pricesResponse struct {
	Items      []storage.Price `json:"items"`
	Count      int             `json:"count"`
	Offset     int             `json:"offset"`
	NextOffset *int            `json:"next_offset"`
}

type ingestResponse struct {
	Saved *storage.Price `json:"saved"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListPrices(w http.ResponseWriter, r *http.Request) {
	s.listPrices(w, r, r.URL.Query().Get("symbol"))
}

func (s *Server) handlePricesForSymbol(w http.ResponseWriter, r *http.Request) {
	s.listPrices(w, r, chi.URLParam(r, "symbol"))
}

func (s *Server) listPrices(w http.ResponseWriter, r *http.Request, symbol string) {
	q := r.URL.Query()
	f := storage.PriceFilter{
		Symbol: symbol,
		Start:  q.Get("start"),
		End:    q.Get("end"),
		Limit:  queryInt(r, "limit", 10, 1, 100),
		Offset: queryInt(r, "offset", 0, 0, 1<<30),
	}

	items, err := s.repo.QueryPrices(f)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "query prices failed")
		return
	}

	resp := pricesResponse{Items: items, Count: len(items), Offset: f.Offset}
	// A full page hints at more rows; it is a heuristic, not a guarantee.
	if len(items) == f.Limit {
		next := f.Offset + f.Limit
		resp.NextOffset = &next
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIngestAlphaVantage(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validCheck(&req); err != nil {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = s.config.AlphaVantage.APIKey
	}
	if apiKey == "" {
		respondError(w, http.StatusBadRequest, "Missing Alpha Vantage API key")
		return
	}

	quote, err := s.alpha.FetchQuote(r.Context(), req.Symbol, apiKey)
	if err != nil {
		s.upstreamFailure(w, "alpha_vantage", err)
		return
	}

	s.saveIngested(w, quote, ingest.SourceAlphaVantage)
}

func (s *Server) handleIngestFX(w http.ResponseWriter, r *http.Request) {
	var req fxIngestRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validCheck(&req); err != nil {
		respondError(w, http.StatusBadRequest, "pair is required, e.g. EURUSD")
		return
	}
	if _, _, err := ingest.ParsePair(req.Pair); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = s.config.AlphaVantage.APIKey
	}
	if apiKey == "" {
		respondError(w, http.StatusBadRequest, "Missing Alpha Vantage API key")
		return
	}

	quote, err := s.alpha.FetchFXRate(r.Context(), req.Pair, apiKey)
	if err != nil {
		s.upstreamFailure(w, "alpha_vantage_fx", err)
		return
	}

	s.saveIngested(w, quote, ingest.SourceAlphaVantageFX)
}

func (s *Server) handleIngestYahoo(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validCheck(&req); err != nil {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	quote, err := s.yahoo.FetchPrice(r.Context(), req.Symbol)
	if err != nil {
		s.upstreamFailure(w, "yahoo", err)
		return
	}

	s.saveIngested(w, quote, ingest.SourceYahoo)
}

// saveIngested persists a fetched quote idempotently and reads back the
// stored row so the response carries created_at even for a duplicate.
func (s *Server) saveIngested(w http.ResponseWriter, quote *ingest.Quote, source string) {
	_, err := s.repo.InsertPrice(&storage.Price{
		Symbol:   quote.Symbol,
		Price:    quote.Price,
		AsOf:     quote.AsOf,
		Currency: quote.Currency,
		Source:   source,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store quote failed")
		return
	}

	saved, err := s.repo.GetPrice(quote.Symbol, quote.AsOf, source)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "saved row not found")
		return
	}
	respondJSON(w, http.StatusOK, ingestResponse{Saved: saved})
}

// upstreamFailure reports a provider error as 502 with a safe summary and
// alerts the operator channel. Credentials never reach either.
func (s *Server) upstreamFailure(w http.ResponseWriter, provider string, err error) {
	s.logger.Warn("upstream failure", "provider", provider, "error", err)
	s.notifier.NotifyUpstreamFailure(provider, err)
	respondError(w, http.StatusBadGateway, provider+" ingest failed: "+err.Error())
}
