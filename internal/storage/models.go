package storage

import "time"

// Price is a single quote observation. A source may report at most one price
// per symbol per instant; re-ingesting the same triple is a silent no-op.
// AsOf is zero-padded ISO-8601 text so lexical range comparisons are
// chronological.
type Price struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Symbol    string    `gorm:"not null;uniqueIndex:ux_prices_symbol_asof_source" json:"symbol"`
	Price     float64   `gorm:"not null" json:"price"`
	AsOf      string    `gorm:"not null;uniqueIndex:ux_prices_symbol_asof_source" json:"as_of"`
	Currency  string    `json:"currency,omitempty"`
	Source    string    `gorm:"not null;uniqueIndex:ux_prices_symbol_asof_source" json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// JournalEntry is a discretionary trade record. Duplicates are allowed.
type JournalEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Symbol    string    `gorm:"index;not null" json:"symbol"`
	Date      string    `gorm:"not null" json:"date"`
	Direction string    `gorm:"not null" json:"direction"` // Long or Short
	Qty       float64   `gorm:"not null" json:"qty"`
	Entry     float64   `gorm:"not null" json:"entry"`
	Stop      *float64  `json:"stop"`
	Exit      *float64  `json:"exit"`
	Fees      float64   `gorm:"default:0" json:"fees"`
	Tags      string    `json:"tags,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Account struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Type      string    `json:"type,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Portfolio owns its transactions; deleting it cascades to them.
type Portfolio struct {
	ID           uint          `gorm:"primarykey" json:"id"`
	Name         string        `gorm:"not null" json:"name"`
	BaseCurrency string        `json:"base_currency,omitempty"`
	Transactions []Transaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type Transaction struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	PortfolioID uint      `gorm:"index;not null" json:"portfolio_id"`
	Date        string    `gorm:"not null" json:"date"`
	Symbol      string    `gorm:"not null" json:"symbol"`
	Type        string    `gorm:"not null" json:"type"` // BUY, SELL, DIV, CASH, FX
	Qty         float64   `gorm:"default:0" json:"qty"`
	Price       float64   `gorm:"default:0" json:"price"`
	Fees        float64   `gorm:"default:0" json:"fees"`
	Currency    string    `json:"currency,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EntryPlan is a saved narrative trade idea. An identical plan body for a
// symbol is stored once.
type EntryPlan struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Symbol    string    `gorm:"not null;uniqueIndex:ux_entry_plans_symbol_text" json:"symbol"`
	Text      string    `gorm:"type:text;not null;uniqueIndex:ux_entry_plans_symbol_text" json:"text"`
	Horizon   string    `json:"horizon,omitempty"`
	Source    string    `json:"source,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Images    int       `gorm:"default:0" json:"images"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	Email     string    `gorm:"primaryKey" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// EmailCode is a short-lived single-use sign-in code. Once verified it is
// marked used and can never authenticate again, even if unexpired.
type EmailCode struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"index;not null" json:"email"`
	Code      string    `gorm:"not null" json:"code"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	Token     string    `gorm:"primaryKey" json:"token"`
	Email     string    `gorm:"index;not null" json:"email"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
