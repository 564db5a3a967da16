package storage

import (
	"errors"
	"strings"
)

// Position is a portfolio's net holding in one symbol, derived on demand
// from its transaction history and never persisted.
type Position struct {
	Symbol      string   `json:"symbol"`
	Qty         float64  `json:"qty"`
	AvgCost     float64  `json:"avg_cost"`
	Last        *float64 `json:"last"`
	MarketValue *float64 `json:"market_value"`
}

type positionAccum struct {
	qty  float64
	cost float64
	fees float64
	buys float64
}

// ComputePositions replays the portfolio's full transaction log in
// chronological order and rolls it up per symbol.
//
// BUY adds to qty and to the cost basis; SELL reduces qty and accumulates
// fees but never touches the cost basis, so avg_cost reflects cumulative buy
// history only and no realized P&L is computed. DIV, CASH and FX rows are
// recorded for history and ignored here. Symbols that net to zero stay in
// the result.
func (r *Repository) ComputePositions(portfolioID uint) ([]Position, error) {
	var txns []Transaction
	err := r.db.Where("portfolio_id = ?", portfolioID).
		Order("date ASC, id ASC").Find(&txns).Error
	if err != nil {
		return nil, err
	}

	accums := make(map[string]*positionAccum)
	var order []string // first-appearance order of symbols

	for _, t := range txns {
		a, ok := accums[t.Symbol]
		if !ok {
			a = &positionAccum{}
			accums[t.Symbol] = a
			order = append(order, t.Symbol)
		}
		switch strings.ToUpper(t.Type) {
		case "BUY":
			a.qty += t.Qty
			a.cost += t.Qty * t.Price
			a.fees += t.Fees
			a.buys += t.Qty
		case "SELL":
			a.qty -= t.Qty
			a.fees += t.Fees
		}
	}

	positions := make([]Position, 0, len(order))
	for _, sym := range order {
		a := accums[sym]
		p := Position{Symbol: sym, Qty: a.qty}
		if a.buys != 0 {
			p.AvgCost = a.cost / a.buys
		}
		last, err := r.LatestPrice(sym)
		switch {
		case err == nil:
			p.Last = &last.Price
			mv := last.Price * a.qty
			p.MarketValue = &mv
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, nil
}
