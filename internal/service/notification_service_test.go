package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eventdesk/eventdesk/internal/models"
)

func TestNotificationSendOrganizerOnly(t *testing.T) {
	env := newTestEnv(t)
	organizer := env.signup(t, "Org", "org@example.com", models.RoleOrganizer)
	participant := env.signup(t, "Part", "part@example.com", models.RoleParticipant)
	env.signup(t, "Part2", "part2@example.com", models.RoleParticipant)

	req := models.NotificationRequest{
		Type:       models.NotifyEmail,
		Recipients: models.RecipientsParticipants,
		Subject:    "Schedule change",
		Message:    "Doors open an hour earlier.",
	}

	_, _, err := env.notifier.Send(participant, req)
	require.ErrorIs(t, err, ErrPermissionDenied)

	sent, count, err := env.notifier.Send(organizer, req)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t, "sent", sent.Status)
	require.Equal(t, organizer.Name, sent.SenderName)
}

func TestNotificationVisibility(t *testing.T) {
	env := newTestEnv(t)
	organizer := env.signup(t, "Org", "org@example.com", models.RoleOrganizer)
	participant := env.signup(t, "Part", "part@example.com", models.RoleParticipant)
	other := env.signup(t, "Other", "other@example.com", models.RoleParticipant)
	event := env.createEvent(t, organizer, 10, 20)
	booking := env.book(t, participant, event.ID, 1)

	// The confirmation is tied to the booking: its owner sees it, another
	// participant does not.
	ownView, err := env.notifier.ListFor(participant)
	require.NoError(t, err)
	otherView, err := env.notifier.ListFor(other)
	require.NoError(t, err)

	require.True(t, hasBookingAlert(ownView, booking.ID))
	require.False(t, hasBookingAlert(otherView, booking.ID))

	// The event announcement reaches every participant.
	require.True(t, hasSubject(ownView, "New Event: "+event.Title))
	require.True(t, hasSubject(otherView, "New Event: "+event.Title))
	// But not the organizer, who is outside the recipient group.
	orgView, err := env.notifier.ListFor(organizer)
	require.NoError(t, err)
	require.False(t, hasSubject(orgView, "New Event: "+event.Title))
}

func TestCapacityWarningThreshold(t *testing.T) {
	env := newTestEnv(t)
	organizer := env.signup(t, "Org", "org@example.com", models.RoleOrganizer)
	participant := env.signup(t, "Part", "part@example.com", models.RoleParticipant)
	other := env.signup(t, "Other", "other@example.com", models.RoleParticipant)
	event := env.createEvent(t, organizer, 10, 20)

	// 8 of 10 stays quiet.
	env.book(t, participant, event.ID, 8)
	orgView, err := env.notifier.ListFor(organizer)
	require.NoError(t, err)
	require.False(t, hasSubject(orgView, "Capacity Alert: "+event.Title))

	// 9 of 10 crosses the threshold.
	env.book(t, other, event.ID, 1)
	orgView, err = env.notifier.ListFor(organizer)
	require.NoError(t, err)
	require.True(t, hasSubject(orgView, "Capacity Alert: "+event.Title))
}

func TestEventReminders(t *testing.T) {
	env := newTestEnv(t)
	organizer := env.signup(t, "Org", "org@example.com", models.RoleOrganizer)

	now := time.Now()
	tomorrow, err := env.events.Create(organizer, models.EventRequest{
		Title:    "Tomorrow Show",
		Date:     now.AddDate(0, 0, 1).Format("2006-01-02"),
		Time:     "20:00",
		Location: "Arena",
		Capacity: 100,
	})
	require.NoError(t, err)
	_, err = env.events.Create(organizer, models.EventRequest{
		Title:    "Next Week Show",
		Date:     now.AddDate(0, 0, 7).Format("2006-01-02"),
		Time:     "20:00",
		Location: "Arena",
		Capacity: 100,
	})
	require.NoError(t, err)

	sent, err := env.notifier.EventReminders(now)
	require.NoError(t, err)
	require.Equal(t, 1, sent)

	participant := env.signup(t, "Part", "part@example.com", models.RoleParticipant)
	view, err := env.notifier.ListFor(participant)
	require.NoError(t, err)
	require.True(t, hasSubject(view, "Reminder: "+tomorrow.Title+" is tomorrow"))
}

func TestNotificationStats(t *testing.T) {
	env := newTestEnv(t)
	organizer := env.signup(t, "Org", "org@example.com", models.RoleOrganizer)
	participant := env.signup(t, "Part", "part@example.com", models.RoleParticipant)

	_, _, err := env.notifier.Send(organizer, models.NotificationRequest{
		Type: models.NotifyEmail, Recipients: models.RecipientsAll,
		Subject: "A", Message: "a",
	})
	require.NoError(t, err)
	_, _, err = env.notifier.Send(organizer, models.NotificationRequest{
		Type: models.NotifySMS, Recipients: models.RecipientsAll,
		Subject: "B", Message: "b",
	})
	require.NoError(t, err)
	_, _, err = env.notifier.Send(organizer, models.NotificationRequest{
		Type: models.NotifyBoth, Recipients: models.RecipientsAll,
		Subject: "C", Message: "c",
	})
	require.NoError(t, err)

	stats, err := env.notifier.StatsFor(participant, time.Now())
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalSent)
	require.Equal(t, 2, stats.EmailNotifications)
	require.Equal(t, 2, stats.SMSNotifications)
	require.Equal(t, 3, stats.RecentLast7Days)
}

func hasSubject(notifications []models.Notification, subject string) bool {
	for _, n := range notifications {
		if n.Subject == subject {
			return true
		}
	}
	return false
}

func hasBookingAlert(notifications []models.Notification, bookingID string) bool {
	for _, n := range notifications {
		if n.BookingID == bookingID {
			return true
		}
	}
	return false
}
