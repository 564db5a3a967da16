package storage

import (
	"errors"
	"time"

	"gorm.io/gorm/clause"
)

// ErrCodeInvalid covers every failed code verification: unknown pair,
// already used, or expired. Callers get no further detail.
var ErrCodeInvalid = errors.New("invalid or expired code")

func (r *Repository) EnsureUser(email string) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&User{Email: email}).Error
}

// InsertEmailCode issues a new sign-in code. Prior unused codes for the same
// email stay valid; verification targets an exact (email, code) pair.
func (r *Repository) InsertEmailCode(email, code string, ttl time.Duration) error {
	return r.db.Create(&EmailCode{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(ttl),
	}).Error
}

// VerifyEmailCode checks the most recently issued row matching exactly
// (email, code) and consumes it: on success the row is marked used and can
// never authenticate again.
func (r *Repository) VerifyEmailCode(email, code string, now time.Time) error {
	var ec EmailCode
	err := r.db.Where("email = ? AND code = ?", email, code).
		Order("id DESC").First(&ec).Error
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrCodeInvalid
		}
		return err
	}
	if ec.Used || !now.Before(ec.ExpiresAt) {
		return ErrCodeInvalid
	}
	return r.db.Model(&ec).Update("used", true).Error
}

// CreateSession stores a session token, replacing any existing row with the
// same token. One email may hold several concurrent sessions.
func (r *Repository) CreateSession(email, token string, ttl time.Duration) error {
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&Session{
		Token:     token,
		Email:     email,
		ExpiresAt: time.Now().Add(ttl),
	}).Error
}

// GetSession resolves a token, treating an expired session as absent and
// deleting it on the way out (lazy cleanup, no background sweep).
func (r *Repository) GetSession(token string, now time.Time) (*Session, error) {
	var s Session
	if err := r.db.First(&s, "token = ?", token).Error; err != nil {
		return nil, err
	}
	if !now.Before(s.ExpiresAt) {
		r.db.Delete(&Session{}, "token = ?", token)
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *Repository) DeleteSession(token string) (int64, error) {
	res := r.db.Delete(&Session{}, "token = ?", token)
	return res.RowsAffected, res.Error
}
