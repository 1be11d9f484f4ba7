package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/eventdesk/eventdesk/internal/models"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row, falling back to defaults when the store was
// never seeded.
func (r *SettingsRepository) Get() (*models.Settings, error) {
	var settings models.Settings
	err := r.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update merges the provided fields into the current settings.
func (r *SettingsRepository) Update(req models.UpdateSettingsRequest) (*models.Settings, error) {
	settings, err := r.Get()
	if err != nil {
		return nil, err
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.Email != nil {
		settings.Notifications.Email = *req.Email
	}
	if req.SMS != nil {
		settings.Notifications.SMS = *req.SMS
	}
	if req.Push != nil {
		settings.Notifications.Push = *req.Push
	}
	if req.Currency != nil {
		settings.Currency = *req.Currency
	}
	if req.Timezone != nil {
		settings.Timezone = *req.Timezone
	}
	if req.Language != nil {
		settings.Language = *req.Language
	}
	if err := r.db.Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
