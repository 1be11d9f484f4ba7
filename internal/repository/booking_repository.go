package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/eventdesk/eventdesk/internal/models"
	"github.com/eventdesk/eventdesk/pkg/utils"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Save inserts a new booking (generated id, confirmed by default) and
// refreshes the event's derived ticket count in the same transaction.
// An existing id means a plain update with no recount.
func (r *BookingRepository) Save(booking *models.Booking) error {
	if booking.ID != "" {
		var existing models.Booking
		err := r.db.First(&existing, "id = ?", booking.ID).Error
		if err == nil {
			booking.CreatedAt = existing.CreatedAt
			booking.UpdatedAt = time.Now()
			return r.db.Save(booking).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if booking.ID == "" {
		booking.ID = utils.GenerateID()
	}
	booking.CreatedAt = time.Now()
	if booking.Status == "" {
		booking.Status = models.BookingConfirmed
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		return recalculateEventBookings(tx, booking.EventID)
	})
}

func (r *BookingRepository) GetByID(id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetByUser(userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("user_id = ?", userID).Order("created_at, id").Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) GetByEvent(eventID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("event_id = ?", eventID).Order("created_at, id").Find(&bookings).Error
	return bookings, err
}

// UpdateStatus transitions a booking and refreshes the event's derived
// ticket count atomically, so cancellations free capacity right away.
func (r *BookingRepository) UpdateStatus(id, status string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.First(&booking, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		updates := map[string]any{"status": status, "updated_at": time.Now()}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return err
		}
		return recalculateEventBookings(tx, booking.EventID)
	})
}

// Delete removes a booking and refreshes the event's derived count.
func (r *BookingRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.First(&booking, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&booking).Error; err != nil {
			return err
		}
		return recalculateEventBookings(tx, booking.EventID)
	})
}

// RecalculateEventBookings recomputes the derived confirmed-ticket count for
// one event from scratch.
func (r *BookingRepository) RecalculateEventBookings(eventID string) error {
	return recalculateEventBookings(r.db, eventID)
}

func recalculateEventBookings(tx *gorm.DB, eventID string) error {
	var total int64
	err := tx.Model(&models.Booking{}).
		Where("event_id = ? AND status = ?", eventID, models.BookingConfirmed).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}
	res := tx.Model(&models.Event{}).Where("id = ?", eventID).Update("bookings", total)
	// A booking may reference an already-deleted event; nothing to update then.
	return res.Error
}
