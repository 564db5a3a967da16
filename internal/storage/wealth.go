package storage

import "time"

// Accounts

func (r *Repository) UpsertAccount(a *Account) (uint, error) {
	if a.ID != 0 {
		res := r.db.Model(&Account{}).Where("id = ?", a.ID).Updates(map[string]any{
			"name":       a.Name,
			"type":       a.Type,
			"currency":   a.Currency,
			"updated_at": time.Now(),
		})
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 0 {
			return 0, ErrNotFound
		}
		return a.ID, nil
	}
	if err := r.db.Create(a).Error; err != nil {
		return 0, err
	}
	return a.ID, nil
}

func (r *Repository) GetAccount(id uint) (*Account, error) {
	var a Account
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) ListAccounts() ([]Account, error) {
	var accounts []Account
	err := r.db.Order("id DESC").Find(&accounts).Error
	return accounts, err
}

func (r *Repository) DeleteAccount(id uint) (int64, error) {
	res := r.db.Delete(&Account{}, id)
	return res.RowsAffected, res.Error
}

// Portfolios

func (r *Repository) UpsertPortfolio(p *Portfolio) (uint, error) {
	if p.ID != 0 {
		res := r.db.Model(&Portfolio{}).Where("id = ?", p.ID).Updates(map[string]any{
			"name":          p.Name,
			"base_currency": p.BaseCurrency,
			"updated_at":    time.Now(),
		})
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 0 {
			return 0, ErrNotFound
		}
		return p.ID, nil
	}
	if err := r.db.Create(p).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (r *Repository) GetPortfolio(id uint) (*Portfolio, error) {
	var p Portfolio
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListPortfolios() ([]Portfolio, error) {
	var portfolios []Portfolio
	err := r.db.Order("id DESC").Find(&portfolios).Error
	return portfolios, err
}

// DeletePortfolio removes the portfolio and, through the FK cascade, every
// transaction it owns.
func (r *Repository) DeletePortfolio(id uint) (int64, error) {
	res := r.db.Delete(&Portfolio{}, id)
	return res.RowsAffected, res.Error
}

// Transactions

func (r *Repository) InsertTransaction(t *Transaction) (uint, error) {
	if err := r.db.Create(t).Error; err != nil {
		return 0, err
	}
	return t.ID, nil
}

func (r *Repository) GetTransaction(id uint) (*Transaction, error) {
	var t Transaction
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) ListTransactions(portfolioID uint) ([]Transaction, error) {
	var txns []Transaction
	err := r.db.Where("portfolio_id = ?", portfolioID).
		Order("date DESC, id DESC").Find(&txns).Error
	return txns, err
}

func (r *Repository) DeleteTransaction(id uint) (int64, error) {
	res := r.db.Delete(&Transaction{}, id)
	return res.RowsAffected, res.Error
}
