package storage

import "time"

// JournalFilter predicates are conjunctive; Tag matches by substring
// containment against the raw tags field.
type JournalFilter struct {
	Symbol    string
	Direction string
	Start     string
	End       string
	Tag       string
}

// UpsertJournal updates every field of an existing row when e.ID is set,
// otherwise inserts and returns the generated id. Last writer wins.
func (r *Repository) UpsertJournal(e *JournalEntry) (uint, error) {
	if e.ID != 0 {
		res := r.db.Model(&JournalEntry{}).Where("id = ?", e.ID).Updates(map[string]any{
			"symbol":     e.Symbol,
			"date":       e.Date,
			"direction":  e.Direction,
			"qty":        e.Qty,
			"entry":      e.Entry,
			"stop":       e.Stop,
			"exit":       e.Exit,
			"fees":       e.Fees,
			"tags":       e.Tags,
			"notes":      e.Notes,
			"updated_at": time.Now(),
		})
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 0 {
			return 0, ErrNotFound
		}
		return e.ID, nil
	}
	if err := r.db.Create(e).Error; err != nil {
		return 0, err
	}
	return e.ID, nil
}

func (r *Repository) GetJournal(id uint) (*JournalEntry, error) {
	var e JournalEntry
	if err := r.db.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) QueryJournal(f JournalFilter) ([]JournalEntry, error) {
	q := r.db.Model(&JournalEntry{})
	if f.Symbol != "" {
		q = q.Where("symbol = ?", f.Symbol)
	}
	if f.Direction != "" {
		q = q.Where("direction = ?", f.Direction)
	}
	if f.Start != "" {
		q = q.Where("date >= ?", f.Start)
	}
	if f.End != "" {
		q = q.Where("date <= ?", f.End)
	}
	if f.Tag != "" {
		q = q.Where("tags LIKE ?", "%"+f.Tag+"%")
	}
	var entries []JournalEntry
	err := q.Order("date DESC, id DESC").Find(&entries).Error
	return entries, err
}

// DeleteJournal reports how many rows were removed; 0 means the id was
// absent and callers surface that as not found.
func (r *Repository) DeleteJournal(id uint) (int64, error) {
	res := r.db.Delete(&JournalEntry{}, id)
	return res.RowsAffected, res.Error
}
