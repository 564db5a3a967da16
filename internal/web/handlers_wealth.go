package web

import (
	"errors"
	"net/http"

	"marketinsights/internal/storage"
)

type accountsResponse struct {
	Items []storage.Account `json:"items"`
}

type portfoliosResponse struct {
	Items []storage.Portfolio `json:"items"`
}

type transactionsResponse struct {
	Items []storage.Transaction `json:"items"`
}

type positionsResponse struct {
	Items []storage.Position `json:"items"`
}

// Accounts

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.repo.ListAccounts()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "list accounts failed")
		return
	}
	respondJSON(w, http.StatusOK, accountsResponse{Items: accounts})
}

func (s *Server) handleSaveAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validCheck(&req); err != nil {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	account := storage.Account{Name: req.Name, Type: req.Type, Currency: req.Currency}
	if req.ID != nil {
		account.ID = *req.ID
	}

	id, err := s.repo.UpsertAccount(&account)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Account not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "save account failed")
		return
	}

	saved, err := s.repo.GetAccount(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "saved account not found")
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, "Account not found", s.repo.DeleteAccount)
}

// Portfolios

func (s *Server) handleListPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := s.repo.ListPortfolios()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "list portfolios failed")
		return
	}
	respondJSON(w, http.StatusOK, portfoliosResponse{Items: portfolios})
}

func (s *Server) handleSavePortfolio(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validCheck(&req); err != nil {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	portfolio := storage.Portfolio{Name: req.Name, BaseCurrency: req.BaseCurrency}
	if req.ID != nil {
		portfolio.ID = *req.ID
	}

	id, err := s.repo.UpsertPortfolio(&portfolio)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Portfolio not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "save portfolio failed")
		return
	}

	saved, err := s.repo.GetPortfolio(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "saved portfolio not found")
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeletePortfolio(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, "Portfolio not found", s.repo.DeletePortfolio)
}

// Transactions

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	pid := idParam(r, "id")
	txns, err := s.repo.ListTransactions(pid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "list transactions failed")
		return
	}
	respondJSON(w, http.StatusOK, transactionsResponse{Items: txns})
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	pid := idParam(r, "id")
	if _, err := s.repo.GetPortfolio(pid); err != nil {
		respondError(w, http.StatusNotFound, "Portfolio not found")
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validCheck(&req); err != nil {
		respondError(w, http.StatusBadRequest, "date, symbol and type are required")
		return
	}

	id, err := s.repo.InsertTransaction(&storage.Transaction{
		PortfolioID: pid,
		Date:        req.Date,
		Symbol:      req.Symbol,
		Type:        req.Type,
		Qty:         req.Qty,
		Price:       req.Price,
		Fees:        req.Fees,
		Currency:    req.Currency,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "save transaction failed")
		return
	}

	saved, err := s.repo.GetTransaction(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "saved transaction not found")
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, "Transaction not found", s.repo.DeleteTransaction)
}

// Positions

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	pid := idParam(r, "id")
	positions, err := s.repo.ComputePositions(pid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "compute positions failed")
		return
	}
	respondJSON(w, http.StatusOK, positionsResponse{Items: positions})
}

func (s *Server) deleteByID(w http.ResponseWriter, r *http.Request, notFound string, del func(uint) (int64, error)) {
	id := idParam(r, "id")
	if id == 0 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	n, err := del(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	if n == 0 {
		respondError(w, http.StatusNotFound, notFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
