package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventdesk/eventdesk/internal/models"
	"github.com/eventdesk/eventdesk/internal/repository"
	"github.com/eventdesk/eventdesk/pkg/database"
	"github.com/eventdesk/eventdesk/pkg/utils"
)

// fixedFeedback is a deterministic FeedbackSource for tests.
type fixedFeedback struct {
	summary models.FeedbackSummary
}

func (f fixedFeedback) FeedbackFor([]models.Event, time.Time) models.FeedbackSummary {
	return f.summary
}

type testEnv struct {
	db *gorm.DB

	auth      *AuthService
	events    *EventService
	bookings  *BookingService
	notifier  *NotificationService
	analytics *AnalyticsService
	dashboard *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)

	log := zap.NewNop()
	validator := utils.NewValidator()

	users := repository.NewUserRepository(db)
	events := repository.NewEventRepository(db)
	bookings := repository.NewBookingRepository(db)
	notifications := repository.NewNotificationRepository(db)
	sessions := repository.NewSessionRepository(db)
	analytics := repository.NewAnalyticsRepository(db)

	env := &testEnv{db: db}
	env.auth = NewAuthService(users, sessions, validator, log)
	env.notifier = NewNotificationService(notifications, bookings, events, users, validator, log)
	env.events = NewEventService(events, bookings, env.notifier, validator, log)
	env.bookings = NewBookingService(bookings, events, env.notifier, validator, log)
	env.analytics = NewAnalyticsService(analytics, events, bookings, users, fixedFeedback{}, log)
	env.dashboard = NewDashboardService(events, bookings, analytics, env.notifier)
	return env
}

func (e *testEnv) signup(t *testing.T, name, email, role string) *models.User {
	t.Helper()
	user, err := e.auth.Signup(models.SignupRequest{
		Name:     name,
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createEvent(t *testing.T, organizer *models.User, capacity int, price float64) *models.Event {
	t.Helper()
	event, err := e.events.Create(organizer, models.EventRequest{
		Title:       "Test Conference",
		Description: "A test fixture event",
		Date:        time.Now().AddDate(0, 0, 30).Format("2006-01-02"),
		Time:        "10:00",
		Location:    "Main Hall",
		Capacity:    capacity,
		Price:       price,
	})
	require.NoError(t, err)
	return event
}

func (e *testEnv) book(t *testing.T, user *models.User, eventID string, quantity int) *models.Booking {
	t.Helper()
	booking, err := e.bookings.Create(user, models.BookingRequest{
		EventID:  eventID,
		Quantity: quantity,
	})
	require.NoError(t, err)
	return booking
}
