package web

import (
	"net/http"

	"marketinsights/internal/insights"
	"marketinsights/internal/news"
)

type insightsResponse struct {
	Summary string `json:"summary"`
}

type insightsStatusResponse struct {
	Enabled bool `json:"enabled"`
}

type newsResponse struct {
	Items []news.Item `json:"items"`
}

type calendarResponse struct {
	Items []news.CalendarItem `json:"items"`
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validCheck(&req); err != nil {
		respondError(w, http.StatusBadRequest, "symbol is required; horizon must be daily or weekly")
		return
	}

	summary, err := s.insights.Summarize(r.Context(), &insights.Request{
		Symbol:  req.Symbol,
		Horizon: req.Horizon,
		Notes:   req.Notes,
		Images:  req.Images,
	})
	if err != nil {
		s.logger.Warn("insights upstream error", "error", err)
		s.notifier.NotifyUpstreamFailure("openai", err)
		respondError(w, http.StatusBadGateway, "insights provider error: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, insightsResponse{Summary: summary})
}

func (s *Server) handleInsightsStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, insightsStatusResponse{Enabled: s.insights.Enabled()})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	items := s.news.Headlines(r.URL.Query().Get("symbol"))
	respondJSON(w, http.StatusOK, newsResponse{Items: items})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	items := s.news.Calendar(r.URL.Query().Get("country"))
	respondJSON(w, http.StatusOK, calendarResponse{Items: items})
}
