package web

import (
	"net/http"

	"marketinsights/internal/storage"
)

type entryPlansResponse struct {
	Items []storage.EntryPlan `json:"items"`
}

func (s *Server) handleListEntryPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.repo.ListEntryPlans(
		r.URL.Query().Get("symbol"),
		queryInt(r, "limit", 50, 1, 200),
		queryInt(r, "offset", 0, 0, 1<<30),
	)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "list entry plans failed")
		return
	}
	respondJSON(w, http.StatusOK, entryPlansResponse{Items: plans})
}

func (s *Server) handleSaveEntryPlan(w http.ResponseWriter, r *http.Request) {
	var req entryPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validCheck(&req); err != nil {
		respondError(w, http.StatusBadRequest, "symbol and text are required")
		return
	}

	// Duplicate (symbol, text) bodies are absorbed silently; either way the
	// response is the symbol's newest stored plan.
	_, err := s.repo.InsertEntryPlan(&storage.EntryPlan{
		Symbol:  req.Symbol,
		Text:    req.Text,
		Horizon: req.Horizon,
		Source:  req.Source,
		Notes:   req.Notes,
		Images:  req.Images,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "save entry plan failed")
		return
	}

	plans, err := s.repo.ListEntryPlans(req.Symbol, 1, 0)
	if err != nil || len(plans) == 0 {
		respondError(w, http.StatusInternalServerError, "saved entry plan not found")
		return
	}
	respondJSON(w, http.StatusOK, plans[0])
}
