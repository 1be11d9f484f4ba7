package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/eventdesk/eventdesk/internal/models"
	"github.com/eventdesk/eventdesk/pkg/utils"
)

// maxNotifications caps the retained history; the oldest entries are dropped
// whenever a save pushes past it.
const maxNotifications = 100

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// GetAll returns notifications newest first.
func (r *NotificationRepository) GetAll() ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Order("created_at DESC, id DESC").Find(&notifications).Error
	return notifications, err
}

// Save appends a notification (always a new record, marked sent) and trims
// the history to the retention cap.
func (r *NotificationRepository) Save(notification *models.Notification) error {
	notification.ID = utils.GenerateID()
	notification.CreatedAt = time.Now()
	notification.Status = "sent"

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(notification).Error; err != nil {
			return err
		}
		return trimNotifications(tx, maxNotifications)
	})
}

func (r *NotificationRepository) GetByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// CleanupOld shrinks the history down to keep entries, returning how many
// were dropped.
func (r *NotificationRepository) CleanupOld(keep int) (int64, error) {
	var before int64
	if err := r.db.Model(&models.Notification{}).Count(&before).Error; err != nil {
		return 0, err
	}
	if before <= int64(keep) {
		return 0, nil
	}
	if err := trimNotifications(r.db, keep); err != nil {
		return 0, err
	}
	return before - int64(keep), nil
}

func trimNotifications(tx *gorm.DB, keep int) error {
	var keepIDs []string
	err := tx.Model(&models.Notification{}).
		Order("created_at DESC, id DESC").
		Limit(keep).
		Pluck("id", &keepIDs).Error
	if err != nil {
		return err
	}
	if len(keepIDs) == 0 {
		return nil
	}
	return tx.Where("id NOT IN ?", keepIDs).Delete(&models.Notification{}).Error
}
