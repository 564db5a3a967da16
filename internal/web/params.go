package web

import "github.com/go-playground/validator/v10"

var validate = validator.New()

func validCheck(v any) error {
	return validate.Struct(v)
}

type ingestRequest struct {
	Symbol string `json:"symbol" validate:"required"`
	APIKey string `json:"api_key"`
}

type fxIngestRequest struct {
	Pair   string `json:"pair" validate:"required,min=6"`
	APIKey string `json:"api_key"`
}

type journalRequest struct {
	ID        *uint    `json:"id"`
	Symbol    string   `json:"symbol" validate:"required"`
	Date      string   `json:"date" validate:"required"`
	Direction string   `json:"direction" validate:"required,oneof=Long Short"`
	Qty       float64  `json:"qty"`
	Entry     float64  `json:"entry"`
	Stop      *float64 `json:"stop"`
	Exit      *float64 `json:"exit"`
	Fees      float64  `json:"fees"`
	Tags      string   `json:"tags"`
	Notes     string   `json:"notes"`
}

type accountRequest struct {
	ID       *uint  `json:"id"`
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
}

type portfolioRequest struct {
	ID           *uint  `json:"id"`
	Name         string `json:"name" validate:"required"`
	BaseCurrency string `json:"base_currency"`
}

type transactionRequest struct {
	Date     string  `json:"date" validate:"required"`
	Symbol   string  `json:"symbol" validate:"required"`
	Type     string  `json:"type" validate:"required"`
	Qty      float64 `json:"qty"`
	Price    float64 `json:"price"`
	Fees     float64 `json:"fees"`
	Currency string  `json:"currency"`
	Notes    string  `json:"notes"`
}

type entryPlanRequest struct {
	Symbol  string `json:"symbol" validate:"required"`
	Text    string `json:"text" validate:"required"`
	Horizon string `json:"horizon"`
	Source  string `json:"source"`
	Notes   string `json:"notes"`
	Images  int    `json:"images"`
}

type insightsRequest struct {
	Symbol  string   `json:"symbol" validate:"required"`
	Horizon string   `json:"horizon" validate:"omitempty,oneof=daily weekly"`
	Notes   string   `json:"notes"`
	Images  []string `json:"images"`
}

type emailStartRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type emailVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}
