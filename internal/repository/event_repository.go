package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/eventdesk/eventdesk/internal/models"
	"github.com/eventdesk/eventdesk/pkg/utils"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetAll() ([]models.Event, error) {
	var events []models.Event
	err := r.db.Order("created_at, id").Find(&events).Error
	return events, err
}

// Save inserts a new event (generated id, zeroed derived count) or updates an
// existing one. The derived Bookings field and CreatedAt survive updates.
func (r *EventRepository) Save(event *models.Event) error {
	if event.ID != "" {
		var existing models.Event
		err := r.db.First(&existing, "id = ?", event.ID).Error
		if err == nil {
			event.CreatedAt = existing.CreatedAt
			event.Bookings = existing.Bookings
			event.UpdatedAt = time.Now()
			return r.db.Save(event).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if event.ID == "" {
		event.ID = utils.GenerateID()
	}
	event.CreatedAt = time.Now()
	event.Bookings = 0
	return r.db.Create(event).Error
}

func (r *EventRepository) GetByID(id string) (*models.Event, error) {
	var event models.Event
	err := r.db.First(&event, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetByOrganizer(organizerID string) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("organizer_id = ?", organizerID).Order("created_at, id").Find(&events).Error
	return events, err
}

// Delete removes the event and all its bookings as one transaction, so a
// failed cascade never leaves orphaned bookings behind.
func (r *EventRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Event{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Delete(&models.Booking{}, "event_id = ?", id).Error
	})
}
