package service

import (
	"fmt"
	"time"

	"github.com/eventdesk/eventdesk/internal/models"
	"github.com/eventdesk/eventdesk/internal/repository"
	"github.com/eventdesk/eventdesk/pkg/utils"
)

type DashboardService struct {
	eventRepo     *repository.EventRepository
	bookingRepo   *repository.BookingRepository
	analyticsRepo *repository.AnalyticsRepository
	notifications *NotificationService
}

func NewDashboardService(eventRepo *repository.EventRepository, bookingRepo *repository.BookingRepository, analyticsRepo *repository.AnalyticsRepository, notifications *NotificationService) *DashboardService {
	return &DashboardService{
		eventRepo:     eventRepo,
		bookingRepo:   bookingRepo,
		analyticsRepo: analyticsRepo,
		notifications: notifications,
	}
}

// StatsFor computes the overview stat block. Organizers see their own
// events' numbers; participants see platform-wide event counts next to
// their own booking numbers.
func (s *DashboardService) StatsFor(user *models.User, now time.Time) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	var events []models.Event
	var err error
	if user.IsOrganizer() {
		events, err = s.eventRepo.GetByOrganizer(user.ID)
	} else {
		events, err = s.eventRepo.GetAll()
	}
	if err != nil {
		return nil, err
	}
	stats.TotalEvents = len(events)
	for _, e := range events {
		if utils.EventStatus(e.Date, e.Time, now) != models.EventStatusCompleted {
			stats.UpcomingEvents++
		}
	}

	if user.IsOrganizer() {
		participants := make(map[string]bool)
		for _, e := range events {
			bookings, err := s.bookingRepo.GetByEvent(e.ID)
			if err != nil {
				return nil, err
			}
			for _, b := range bookings {
				stats.TotalBookings++
				participants[b.UserID] = true
				if b.Status == models.BookingConfirmed {
					stats.TotalRevenue += b.TotalAmount
				}
			}
		}
		stats.TotalParticipants = len(participants)
		return stats, nil
	}

	bookings, err := s.bookingRepo.GetByUser(user.ID)
	if err != nil {
		return nil, err
	}
	stats.TotalBookings = len(bookings)
	for _, b := range bookings {
		if b.Status == models.BookingConfirmed {
			stats.TotalRevenue += b.TotalAmount
		}
	}
	return stats, nil
}

// RecentActivity merges the user's latest bookings and notifications into a
// newest-first feed, capped at limit entries.
func (s *DashboardService) RecentActivity(user *models.User, limit int) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry

	var bookings []models.Booking
	var err error
	if user.IsOrganizer() {
		events, eventsErr := s.eventRepo.GetByOrganizer(user.ID)
		if eventsErr != nil {
			return nil, eventsErr
		}
		for _, e := range events {
			eventBookings, bookingsErr := s.bookingRepo.GetByEvent(e.ID)
			if bookingsErr != nil {
				return nil, bookingsErr
			}
			bookings = append(bookings, eventBookings...)
		}
	} else {
		bookings, err = s.bookingRepo.GetByUser(user.ID)
		if err != nil {
			return nil, err
		}
	}
	for _, b := range bookings {
		entries = append(entries, models.ActivityEntry{
			Type:        "booking",
			Description: fmt.Sprintf("%s booked %d ticket(s) for %s", b.ParticipantName, b.Quantity, b.EventTitle),
			Timestamp:   b.CreatedAt,
		})
	}

	notifications, err := s.notifications.ListFor(user)
	if err != nil {
		return nil, err
	}
	for _, n := range notifications {
		entries = append(entries, models.ActivityEntry{
			Type:        "notification",
			Description: n.Subject,
			Timestamp:   n.CreatedAt,
		})
	}

	entries = utils.SortBy(entries, func(a, b models.ActivityEntry) bool {
		return a.Timestamp.After(b.Timestamp)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// SummaryFor builds the exportable dashboard document.
func (s *DashboardService) SummaryFor(user *models.User, now time.Time) (*models.DashboardSummary, error) {
	stats, err := s.StatsFor(user, now)
	if err != nil {
		return nil, err
	}
	activity, err := s.RecentActivity(user, 10)
	if err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{
		Stats:          *stats,
		RecentActivity: activity,
		ExportDate:     now,
	}
	summary.User.Name = user.Name
	summary.User.Email = user.Email
	summary.User.Role = user.Role
	summary.User.LastLogin = user.LastLogin
	return summary, nil
}

// Search runs the cross-collection search over the user's visible events,
// bookings and notifications.
func (s *DashboardService) Search(user *models.User, term string) ([]models.SearchResult, error) {
	var results []models.SearchResult

	var events []models.Event
	var err error
	if user.IsOrganizer() {
		events, err = s.eventRepo.GetByOrganizer(user.ID)
	} else {
		events, err = s.eventRepo.GetAll()
	}
	if err != nil {
		return nil, err
	}
	for _, e := range utils.Search(events, term, func(e models.Event) []string {
		return []string{e.Title, e.Description, e.Location}
	}) {
		results = append(results, models.SearchResult{
			Type:        "event",
			Title:       e.Title,
			Description: fmt.Sprintf("%s at %s", e.Date, e.Location),
			Section:     "events",
			ID:          e.ID,
		})
	}

	bookings, err := s.bookingRepo.GetByUser(user.ID)
	if err != nil {
		return nil, err
	}
	for _, b := range utils.Search(bookings, term, func(b models.Booking) []string {
		return []string{b.EventTitle, b.BookingReference, b.ParticipantName}
	}) {
		results = append(results, models.SearchResult{
			Type:        "booking",
			Title:       b.EventTitle,
			Description: fmt.Sprintf("%s, %d ticket(s)", b.BookingReference, b.Quantity),
			Section:     "bookings",
			ID:          b.ID,
		})
	}

	notifications, err := s.notifications.ListFor(user)
	if err != nil {
		return nil, err
	}
	for _, n := range utils.Search(notifications, term, func(n models.Notification) []string {
		return []string{n.Subject, n.Message}
	}) {
		results = append(results, models.SearchResult{
			Type:        "notification",
			Title:       n.Subject,
			Description: utils.TruncateText(n.Message, 80),
			Section:     "notifications",
			ID:          n.ID,
		})
	}
	return results, nil
}
