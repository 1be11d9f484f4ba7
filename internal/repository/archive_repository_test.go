package repository

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eventdesk/eventdesk/internal/models"
)

func TestArchiveRoundTrip(t *testing.T) {
	source := newTestDB(t)

	event := seedEvent(t, source, 10, 25)
	seedBooking(t, source, event.ID, "user-1", 2, models.BookingConfirmed)
	require.NoError(t, NewUserRepository(source).Save(&models.User{
		Name: "Ada", Email: "ada@example.com", Role: models.RoleParticipant,
	}))
	require.NoError(t, NewNotificationRepository(source).Save(&models.Notification{
		Type: models.NotifyEmail, Recipients: models.RecipientsAll, Subject: "Hi",
	}))

	archive, err := NewArchiveRepository(source).Export()
	require.NoError(t, err)
	require.Len(t, archive.Users, 1)
	require.Len(t, archive.Events, 1)
	require.Len(t, archive.Bookings, 1)
	require.Len(t, archive.Notifications, 1)
	require.Nil(t, archive.Settings, "settings were never seeded")
	require.False(t, archive.ExportDate.IsZero())

	target := newTestDB(t)
	require.NoError(t, NewArchiveRepository(target).Import(archive))

	events, err := NewEventRepository(target).GetAll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, event.ID, events[0].ID)

	bookings, err := NewBookingRepository(target).GetByEvent(event.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	users, err := NewUserRepository(target).GetAll()
	require.NoError(t, err)
	require.Len(t, users, 1)
}

// An export always carries every collection, so restoring a snapshot of an
// empty store clears whatever the target holds rather than skipping the
// empty collections.
func TestArchiveEmptyExportClearsOnImport(t *testing.T) {
	empty := newTestDB(t)

	archive, err := NewArchiveRepository(empty).Export()
	require.NoError(t, err)

	data, err := json.Marshal(archive)
	require.NoError(t, err)
	var decoded models.Archive
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Users)
	require.NotNil(t, decoded.Events)
	require.NotNil(t, decoded.Bookings)
	require.NotNil(t, decoded.Notifications)

	target := newTestDB(t)
	event := seedEvent(t, target, 5, 10)
	seedBooking(t, target, event.ID, "user-1", 1, models.BookingConfirmed)

	require.NoError(t, NewArchiveRepository(target).Import(&decoded))

	events, err := NewEventRepository(target).GetAll()
	require.NoError(t, err)
	require.Empty(t, events)

	bookings, err := NewBookingRepository(target).GetByEvent(event.ID)
	require.NoError(t, err)
	require.Empty(t, bookings)
}

// A partial archive only replaces the collections it carries.
func TestArchiveImportPartial(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db, 5, 10)

	imported := &models.Archive{
		Users: []models.User{{ID: "u-1", Name: "Ada", Email: "ada@example.com", Role: models.RoleParticipant}},
	}
	require.NoError(t, NewArchiveRepository(db).Import(imported))

	users, err := NewUserRepository(db).GetAll()
	require.NoError(t, err)
	require.Len(t, users, 1)

	// Events were absent from the archive and survive untouched.
	events, err := NewEventRepository(db).GetAll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, event.ID, events[0].ID)
}
