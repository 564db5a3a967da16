package storage

import (
	"gorm.io/gorm/clause"
)

// PriceFilter narrows QueryPrices. Start and End are inclusive ISO-8601
// bounds compared lexically against as_of, so they must be zero-padded.
type PriceFilter struct {
	Symbol string
	Start  string
	End    string
	Limit  int
	Offset int
}

// InsertPrice writes a quote, silently ignoring duplicates of the
// (symbol, as_of, source) triple. Returns 1 when a new row was written,
// 0 when the insert was a no-op.
func (r *Repository) InsertPrice(p *Price) (int64, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "as_of"}, {Name: "source"}},
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// QueryPrices returns quotes ordered most-recent first; among equal
// timestamps the most recently inserted row wins.
func (r *Repository) QueryPrices(f PriceFilter) ([]Price, error) {
	q := r.db.Model(&Price{})
	if f.Symbol != "" {
		q = q.Where("symbol = ?", f.Symbol)
	}
	if f.Start != "" {
		q = q.Where("as_of >= ?", f.Start)
	}
	if f.End != "" {
		q = q.Where("as_of <= ?", f.End)
	}
	var prices []Price
	err := q.Order("as_of DESC, id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&prices).Error
	return prices, err
}

// GetPrice fetches the row for an exact (symbol, as_of, source) triple,
// used to read back an ingested quote with its created_at.
func (r *Repository) GetPrice(symbol, asOf, source string) (*Price, error) {
	var p Price
	err := r.db.Where("symbol = ? AND as_of = ? AND source = ?", symbol, asOf, source).
		Order("id DESC").First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestPrice returns the most recent quote for a symbol across all sources.
func (r *Repository) LatestPrice(symbol string) (*Price, error) {
	var p Price
	err := r.db.Where("symbol = ?", symbol).
		Order("as_of DESC, id DESC").First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// RecentPrices lists the newest rows by insertion order.
func (r *Repository) RecentPrices(limit int) ([]Price, error) {
	var prices []Price
	err := r.db.Order("id DESC").Limit(limit).Find(&prices).Error
	return prices, err
}

// DeletePricesBySource removes every quote from one source. The seed tool
// uses it to clear demo data.
func (r *Repository) DeletePricesBySource(source string) (int64, error) {
	res := r.db.Where("source = ?", source).Delete(&Price{})
	return res.RowsAffected, res.Error
}
