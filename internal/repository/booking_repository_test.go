package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eventdesk/eventdesk/internal/models"
)

func TestBookingSaveDefaultsAndDerivedCount(t *testing.T) {
	db := newTestDB(t)
	eventRepo := NewEventRepository(db)

	event := seedEvent(t, db, 10, 25)
	booking := seedBooking(t, db, event.ID, "user-1", 4, "")

	require.NotEmpty(t, booking.ID)
	require.Equal(t, models.BookingConfirmed, booking.Status)
	require.False(t, booking.CreatedAt.IsZero())

	stored, err := eventRepo.GetByID(event.ID)
	require.NoError(t, err)
	require.Equal(t, 4, stored.Bookings)
	require.Equal(t, 6, stored.AvailableTickets())
}

func TestDerivedCountSumsConfirmedOnly(t *testing.T) {
	db := newTestDB(t)
	eventRepo := NewEventRepository(db)

	event := seedEvent(t, db, 20, 10)
	seedBooking(t, db, event.ID, "user-1", 3, models.BookingConfirmed)
	seedBooking(t, db, event.ID, "user-2", 5, models.BookingConfirmed)
	seedBooking(t, db, event.ID, "user-3", 2, models.BookingPending)
	seedBooking(t, db, event.ID, "user-4", 7, models.BookingCancelled)

	stored, err := eventRepo.GetByID(event.ID)
	require.NoError(t, err)
	require.Equal(t, 8, stored.Bookings)
}

func TestUpdateStatusRecalculatesDerivedCount(t *testing.T) {
	db := newTestDB(t)
	eventRepo := NewEventRepository(db)
	bookingRepo := NewBookingRepository(db)

	event := seedEvent(t, db, 10, 25)
	booking := seedBooking(t, db, event.ID, "user-1", 4, models.BookingConfirmed)

	require.NoError(t, bookingRepo.UpdateStatus(booking.ID, models.BookingCancelled))
	stored, err := eventRepo.GetByID(event.ID)
	require.NoError(t, err)
	require.Zero(t, stored.Bookings)

	require.NoError(t, bookingRepo.UpdateStatus(booking.ID, models.BookingConfirmed))
	stored, err = eventRepo.GetByID(event.ID)
	require.NoError(t, err)
	require.Equal(t, 4, stored.Bookings)
}

func TestBookingDeleteRecalculatesDerivedCount(t *testing.T) {
	db := newTestDB(t)
	eventRepo := NewEventRepository(db)
	bookingRepo := NewBookingRepository(db)

	event := seedEvent(t, db, 10, 25)
	booking := seedBooking(t, db, event.ID, "user-1", 4, models.BookingConfirmed)

	require.NoError(t, bookingRepo.Delete(booking.ID))

	stored, err := eventRepo.GetByID(event.ID)
	require.NoError(t, err)
	require.Zero(t, stored.Bookings)

	_, err = bookingRepo.GetByID(booking.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBookingUpdateStatusMissing(t *testing.T) {
	db := newTestDB(t)
	err := NewBookingRepository(db).UpdateStatus("no-such-id", models.BookingCancelled)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBookingGetByUser(t *testing.T) {
	db := newTestDB(t)
	bookingRepo := NewBookingRepository(db)

	event := seedEvent(t, db, 10, 25)
	seedBooking(t, db, event.ID, "user-1", 1, models.BookingConfirmed)
	seedBooking(t, db, event.ID, "user-2", 2, models.BookingConfirmed)

	bookings, err := bookingRepo.GetByUser("user-1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.Equal(t, "user-1", bookings[0].UserID)
}
