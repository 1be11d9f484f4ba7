package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eventdesk/eventdesk/internal/models"
)

func TestAnalyticsRevenueCountsConfirmedOnly(t *testing.T) {
	env := newTestEnv(t)
	organizer := env.signup(t, "Org", "org@example.com", models.RoleOrganizer)
	alice := env.signup(t, "Alice", "alice@example.com", models.RoleParticipant)
	bob := env.signup(t, "Bob", "bob@example.com", models.RoleParticipant)
	carol := env.signup(t, "Carol", "carol@example.com", models.RoleParticipant)
	event := env.createEvent(t, organizer, 20, 10)

	env.book(t, alice, event.ID, 2) // confirmed, 20
	pending := env.book(t, bob, event.ID, 3)
	_, err := env.bookings.UpdateStatus(organizer, pending.ID, models.BookingPending)
	require.NoError(t, err)
	cancelled := env.book(t, carol, event.ID, 4)
	_, err = env.bookings.Cancel(carol, cancelled.ID)
	require.NoError(t, err)

	snapshot, err := env.analytics.Snapshot()
	require.NoError(t, err)
	require.Equal(t, float64(20), snapshot.TotalRevenue)
	require.Equal(t, 3, snapshot.TotalBookings)
	require.Equal(t, 3, snapshot.TotalParticipants)
	require.Equal(t, 2, snapshot.EventBookingCounts[event.ID])

	summary, err := env.analytics.SummaryFor(organizer, time.Now())
	require.NoError(t, err)
	require.Equal(t, 3, summary.TotalBookings)
	require.Equal(t, 1, summary.ConfirmedBookings)
	require.Equal(t, float64(20), summary.TotalRevenue)
}

func TestAnalyticsPopularEvents(t *testing.T) {
	env := newTestEnv(t)
	organizer := env.signup(t, "Org", "org@example.com", models.RoleOrganizer)
	alice := env.signup(t, "Alice", "alice@example.com", models.RoleParticipant)
	bob := env.signup(t, "Bob", "bob@example.com", models.RoleParticipant)

	quiet := env.createEvent(t, organizer, 50, 10)
	busy := env.createEvent(t, organizer, 50, 10)

	env.book(t, alice, busy.ID, 5)
	env.book(t, bob, busy.ID, 3)
	env.book(t, alice, quiet.ID, 1)

	popular, err := env.analytics.Popular()
	require.NoError(t, err)
	require.Len(t, popular, 2)
	require.Equal(t, busy.ID, popular[0].ID)
	require.Equal(t, 8, popular[0].BookingCount)
	require.Equal(t, quiet.ID, popular[1].ID)
}

func TestAnalyticsPerformanceSortedByOccupancy(t *testing.T) {
	env := newTestEnv(t)
	organizer := env.signup(t, "Org", "org@example.com", models.RoleOrganizer)
	alice := env.signup(t, "Alice", "alice@example.com", models.RoleParticipant)

	low := env.createEvent(t, organizer, 100, 10)
	high := env.createEvent(t, organizer, 4, 10)

	env.book(t, alice, low.ID, 10) // 10%
	env.book(t, alice, high.ID, 3) // 75%

	rows, err := env.analytics.PerformanceFor(organizer, time.Now())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, high.ID, rows[0].EventID)
	require.Equal(t, 75, rows[0].OccupancyRate)
	require.Equal(t, float64(30), rows[0].Revenue)
	require.Equal(t, low.ID, rows[1].EventID)
}

func TestAnalyticsRevenueTrend(t *testing.T) {
	env := newTestEnv(t)
	organizer := env.signup(t, "Org", "org@example.com", models.RoleOrganizer)
	alice := env.signup(t, "Alice", "alice@example.com", models.RoleParticipant)
	event := env.createEvent(t, organizer, 20, 25)
	env.book(t, alice, event.ID, 2)

	now := time.Now()
	months, err := env.analytics.RevenueTrendFor(organizer, now)
	require.NoError(t, err)
	require.Len(t, months, 6)
	require.Equal(t, now.Format("2006-01"), months[5].Key)
	require.Equal(t, float64(50), months[5].Revenue)
	require.Equal(t, 1, months[5].Bookings)
	for _, m := range months[:5] {
		require.Zero(t, m.Revenue)
	}
}

func TestAnalyticsFeedbackUsesSource(t *testing.T) {
	env := newTestEnv(t)
	organizer := env.signup(t, "Org", "org@example.com", models.RoleOrganizer)

	env.analytics.feedback = fixedFeedback{summary: models.FeedbackSummary{
		TotalFeedback: 7,
		AverageRating: 4.2,
	}}

	summary, err := env.analytics.Feedback(organizer, time.Now())
	require.NoError(t, err)
	require.Equal(t, 7, summary.TotalFeedback)
	require.Equal(t, 4.2, summary.AverageRating)
}

func TestAnalyticsExportScopedToParticipant(t *testing.T) {
	env := newTestEnv(t)
	organizer := env.signup(t, "Org", "org@example.com", models.RoleOrganizer)
	alice := env.signup(t, "Alice", "alice@example.com", models.RoleParticipant)
	bob := env.signup(t, "Bob", "bob@example.com", models.RoleParticipant)
	event := env.createEvent(t, organizer, 20, 15)

	env.book(t, alice, event.ID, 2)
	env.book(t, bob, event.ID, 1)

	export, err := env.analytics.ExportFor(alice, time.Now())
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", export.User.Email)
	require.Len(t, export.Bookings, 1)
	require.Equal(t, float64(30), export.Bookings[0].Amount)
}
