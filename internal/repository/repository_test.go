package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eventdesk/eventdesk/internal/models"
	"github.com/eventdesk/eventdesk/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	return db
}

func seedEvent(t *testing.T, db *gorm.DB, capacity int, price float64) *models.Event {
	t.Helper()
	event := &models.Event{
		Title:       "Test Event",
		Date:        "2030-01-15",
		Time:        "10:00",
		Location:    "Test Hall",
		Capacity:    capacity,
		Price:       price,
		OrganizerID: "org-1",
	}
	require.NoError(t, NewEventRepository(db).Save(event))
	return event
}

func seedBooking(t *testing.T, db *gorm.DB, eventID, userID string, quantity int, status string) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		EventID:  eventID,
		UserID:   userID,
		Quantity: quantity,
		Status:   status,
	}
	require.NoError(t, NewBookingRepository(db).Save(booking))
	return booking
}
