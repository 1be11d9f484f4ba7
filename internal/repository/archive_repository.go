package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/eventdesk/eventdesk/internal/models"
)

// ArchiveRepository snapshots and restores the whole store.
type ArchiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// Export gathers every collection into one document. The slices start out
// empty, never nil, so an export always carries all four collection keys
// and importing it replaces each one even when it held no records.
func (r *ArchiveRepository) Export() (*models.Archive, error) {
	archive := &models.Archive{
		Users:         []models.User{},
		Events:        []models.Event{},
		Bookings:      []models.Booking{},
		Notifications: []models.Notification{},
		ExportDate:    time.Now(),
	}

	if err := r.db.Order("created_at, id").Find(&archive.Users).Error; err != nil {
		return nil, err
	}
	if err := r.db.Order("created_at, id").Find(&archive.Events).Error; err != nil {
		return nil, err
	}
	if err := r.db.Order("created_at, id").Find(&archive.Bookings).Error; err != nil {
		return nil, err
	}
	if err := r.db.Order("created_at DESC, id DESC").Find(&archive.Notifications).Error; err != nil {
		return nil, err
	}
	var settings models.Settings
	if err := r.db.First(&settings).Error; err == nil {
		archive.Settings = &settings
	}
	return archive, nil
}

// Import replaces each collection present in the archive wholesale. Absent
// collections are left untouched; referential integrity is not validated.
func (r *ArchiveRepository) Import(archive *models.Archive) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if archive.Users != nil {
			if err := replaceCollection(tx, &models.User{}, archive.Users); err != nil {
				return err
			}
		}
		if archive.Events != nil {
			if err := replaceCollection(tx, &models.Event{}, archive.Events); err != nil {
				return err
			}
		}
		if archive.Bookings != nil {
			if err := replaceCollection(tx, &models.Booking{}, archive.Bookings); err != nil {
				return err
			}
		}
		if archive.Notifications != nil {
			if err := replaceCollection(tx, &models.Notification{}, archive.Notifications); err != nil {
				return err
			}
		}
		if archive.Settings != nil {
			if err := tx.Where("1 = 1").Delete(&models.Settings{}).Error; err != nil {
				return err
			}
			settings := *archive.Settings
			settings.ID = 0
			if err := tx.Create(&settings).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func replaceCollection[T any](tx *gorm.DB, model *T, records []T) error {
	if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return tx.Create(&records).Error
}
