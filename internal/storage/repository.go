package storage

import "gorm.io/gorm"

// ErrNotFound is what repository lookups return when no row matches.
var ErrNotFound = gorm.ErrRecordNotFound

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}
