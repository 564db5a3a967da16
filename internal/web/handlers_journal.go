package web

import (
	"errors"
	"net/http"

	"marketinsights/internal/storage"
)

type journalResponse struct {
	Items []storage.JournalEntry `json:"items"`
}

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := s.repo.QueryJournal(storage.JournalFilter{
		Symbol:    q.Get("symbol"),
		Direction: q.Get("direction"),
		Start:     q.Get("start"),
		End:       q.Get("end"),
		Tag:       q.Get("tag"),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "query journal failed")
		return
	}
	respondJSON(w, http.StatusOK, journalResponse{Items: entries})
}

func (s *Server) handleSaveJournal(w http.ResponseWriter, r *http.Request) {
	var req journalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validCheck(&req); err != nil {
		respondError(w, http.StatusBadRequest, "symbol, date and direction (Long|Short) are required")
		return
	}

	entry := storage.JournalEntry{
		Symbol:    req.Symbol,
		Date:      req.Date,
		Direction: req.Direction,
		Qty:       req.Qty,
		Entry:     req.Entry,
		Stop:      req.Stop,
		Exit:      req.Exit,
		Fees:      req.Fees,
		Tags:      req.Tags,
		Notes:     req.Notes,
	}
	if req.ID != nil {
		entry.ID = *req.ID
	}

	id, err := s.repo.UpsertJournal(&entry)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Journal row not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "save journal failed")
		return
	}

	saved, err := s.repo.GetJournal(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "saved journal row not found")
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteJournal(w http.ResponseWriter, r *http.Request) {
	id := idParam(r, "id")
	if id == 0 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	n, err := s.repo.DeleteJournal(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "delete journal failed")
		return
	}
	if n == 0 {
		respondError(w, http.StatusNotFound, "Journal row not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
