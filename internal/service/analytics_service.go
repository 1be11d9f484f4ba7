package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/eventdesk/eventdesk/internal/models"
	"github.com/eventdesk/eventdesk/internal/repository"
	"github.com/eventdesk/eventdesk/pkg/utils"
)

type AnalyticsService struct {
	analyticsRepo *repository.AnalyticsRepository
	eventRepo     *repository.EventRepository
	bookingRepo   *repository.BookingRepository
	userRepo      *repository.UserRepository
	feedback      FeedbackSource
	logger        *zap.Logger
}

func NewAnalyticsService(analyticsRepo *repository.AnalyticsRepository, eventRepo *repository.EventRepository, bookingRepo *repository.BookingRepository, userRepo *repository.UserRepository, feedback FeedbackSource, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		eventRepo:     eventRepo,
		bookingRepo:   bookingRepo,
		userRepo:      userRepo,
		feedback:      feedback,
		logger:        logger,
	}
}

// Snapshot recomputes the store-wide aggregate from the current data.
func (s *AnalyticsService) Snapshot() (*models.AnalyticsSnapshot, error) {
	return s.analyticsRepo.Snapshot()
}

// SummaryFor computes the role-scoped analytics view: organizers over their
// own events and those events' bookings, participants over their own
// bookings.
func (s *AnalyticsService) SummaryFor(user *models.User, now time.Time) (*models.AnalyticsSummary, error) {
	events, bookings, err := s.scope(user)
	if err != nil {
		return nil, err
	}

	summary := &models.AnalyticsSummary{TotalEvents: len(events)}

	var priceSum float64
	for _, e := range events {
		priceSum += e.Price
		if utils.EventStatus(e.Date, e.Time, now) != models.EventStatusCompleted {
			summary.UpcomingEvents++
		}
	}
	if len(events) > 0 {
		summary.AverageTicketPrice = priceSum / float64(len(events))
	}

	summary.TotalBookings = len(bookings)
	for _, b := range bookings {
		if b.Status == models.BookingConfirmed {
			summary.ConfirmedBookings++
			summary.TotalRevenue += b.TotalAmount
		}
	}
	if summary.ConfirmedBookings > 0 {
		summary.AverageBookingValue = summary.TotalRevenue / float64(summary.ConfirmedBookings)
	}
	if summary.TotalBookings > 0 {
		summary.ConversionRate = float64(summary.ConfirmedBookings) / float64(summary.TotalBookings) * 100
	}

	users, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	summary.TotalUsers = int(users)
	return summary, nil
}

// PerformanceFor ranks the user's events by occupancy, fullest first.
func (s *AnalyticsService) PerformanceFor(user *models.User, now time.Time) ([]models.EventPerformance, error) {
	events, bookings, err := s.scope(user)
	if err != nil {
		return nil, err
	}

	revenueByEvent := make(map[string]float64)
	for _, b := range bookings {
		if b.Status == models.BookingConfirmed {
			revenueByEvent[b.EventID] += b.TotalAmount
		}
	}

	rows := make([]models.EventPerformance, 0, len(events))
	for _, e := range events {
		rows = append(rows, models.EventPerformance{
			EventID:       e.ID,
			Title:         e.Title,
			Bookings:      e.Bookings,
			Capacity:      e.Capacity,
			Revenue:       revenueByEvent[e.ID],
			OccupancyRate: utils.Percentage(e.Bookings, e.Capacity),
			Status:        utils.EventStatus(e.Date, e.Time, now),
		})
	}
	return utils.SortBy(rows, func(a, b models.EventPerformance) bool {
		return a.OccupancyRate > b.OccupancyRate
	}), nil
}

// RevenueTrendFor buckets the user's confirmed booking revenue into the last
// six calendar months, oldest first.
func (s *AnalyticsService) RevenueTrendFor(user *models.User, now time.Time) ([]models.MonthRevenue, error) {
	_, bookings, err := s.scope(user)
	if err != nil {
		return nil, err
	}

	months := make([]models.MonthRevenue, 0, 6)
	index := make(map[string]int, 6)
	for i := 5; i >= 0; i-- {
		m := now.AddDate(0, -i, 0)
		key := m.Format("2006-01")
		index[key] = len(months)
		months = append(months, models.MonthRevenue{
			Key:   key,
			Label: m.Format("Jan 2006"),
		})
	}

	for _, b := range bookings {
		if b.Status != models.BookingConfirmed {
			continue
		}
		if i, ok := index[b.CreatedAt.Format("2006-01")]; ok {
			months[i].Revenue += b.TotalAmount
			months[i].Bookings++
		}
	}
	return months, nil
}

// Popular returns the store-wide top events by confirmed ticket volume.
func (s *AnalyticsService) Popular() ([]models.PopularEvent, error) {
	snapshot, err := s.analyticsRepo.Snapshot()
	if err != nil {
		return nil, err
	}
	return snapshot.PopularEvents, nil
}

// Feedback aggregates reviews for the user's completed events.
func (s *AnalyticsService) Feedback(user *models.User, now time.Time) (models.FeedbackSummary, error) {
	events, _, err := s.scope(user)
	if err != nil {
		return models.FeedbackSummary{}, err
	}
	return s.feedback.FeedbackFor(events, now), nil
}

// ExportFor builds the downloadable analytics artifact for a user.
func (s *AnalyticsService) ExportFor(user *models.User, now time.Time) (*models.AnalyticsExport, error) {
	events, bookings, err := s.scope(user)
	if err != nil {
		return nil, err
	}

	export := &models.AnalyticsExport{ExportDate: now}
	export.User.Name = user.Name
	export.User.Email = user.Email
	export.User.Role = user.Role

	revenueByEvent := make(map[string]float64)
	for _, b := range bookings {
		if b.Status == models.BookingConfirmed {
			revenueByEvent[b.EventID] += b.TotalAmount
			export.Summary.TotalRevenue += b.TotalAmount
		}
	}
	export.Summary.TotalEvents = len(events)
	export.Summary.TotalBookings = len(bookings)

	for _, e := range events {
		export.Events = append(export.Events, struct {
			Title    string  `json:"title"`
			Date     string  `json:"date"`
			Capacity int     `json:"capacity"`
			Bookings int     `json:"bookings"`
			Revenue  float64 `json:"revenue"`
		}{e.Title, e.Date, e.Capacity, e.Bookings, revenueByEvent[e.ID]})
	}
	for _, b := range bookings {
		export.Bookings = append(export.Bookings, struct {
			EventTitle string    `json:"eventTitle"`
			Date       time.Time `json:"date"`
			Quantity   int       `json:"quantity"`
			Amount     float64   `json:"amount"`
			Status     string    `json:"status"`
		}{b.EventTitle, b.CreatedAt, b.Quantity, b.TotalAmount, b.Status})
	}

	s.logger.Info("analytics exported",
		zap.String("user_id", user.ID),
		zap.Int("events", len(events)),
		zap.Int("bookings", len(bookings)),
	)
	return export, nil
}

// scope resolves the events and bookings a user's analytics cover.
func (s *AnalyticsService) scope(user *models.User) ([]models.Event, []models.Booking, error) {
	if user.IsOrganizer() {
		events, err := s.eventRepo.GetByOrganizer(user.ID)
		if err != nil {
			return nil, nil, err
		}
		var bookings []models.Booking
		for _, e := range events {
			eventBookings, err := s.bookingRepo.GetByEvent(e.ID)
			if err != nil {
				return nil, nil, err
			}
			bookings = append(bookings, eventBookings...)
		}
		return events, bookings, nil
	}

	events, err := s.eventRepo.GetAll()
	if err != nil {
		return nil, nil, err
	}
	bookings, err := s.bookingRepo.GetByUser(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return events, bookings, nil
}
