package storage

import "gorm.io/gorm/clause"

// InsertEntryPlan saves a plan, silently ignoring an exact duplicate body
// for the same symbol. Returns 1 when a new row was written, 0 otherwise.
func (r *Repository) InsertEntryPlan(p *EntryPlan) (int64, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "text"}},
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *Repository) ListEntryPlans(symbol string, limit, offset int) ([]EntryPlan, error) {
	q := r.db.Model(&EntryPlan{})
	if symbol != "" {
		q = q.Where("symbol = ?", symbol)
	}
	var plans []EntryPlan
	err := q.Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&plans).Error
	return plans, err
}
