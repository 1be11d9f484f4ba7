package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/eventdesk/eventdesk/internal/models"
)

// SessionRepository persists the current-user pointer. A single row mirrors
// the in-memory session so it survives process restarts.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Set(userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Session{UserID: userID}).Error
	})
}

func (r *SessionRepository) CurrentUserID() (string, error) {
	var s models.Session
	err := r.db.First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return s.UserID, nil
}

func (r *SessionRepository) Clear() error {
	return r.db.Where("1 = 1").Delete(&models.Session{}).Error
}
