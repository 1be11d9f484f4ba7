package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eventdesk/eventdesk/internal/models"
	"github.com/eventdesk/eventdesk/internal/repository"
	"github.com/eventdesk/eventdesk/pkg/utils"
)

// capacityWarningThreshold is the occupancy percentage at which organizers
// get an alert for an event.
const capacityWarningThreshold = 90

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	bookingRepo      *repository.BookingRepository
	eventRepo        *repository.EventRepository
	userRepo         *repository.UserRepository
	validator        *utils.Validator
	logger           *zap.Logger
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, bookingRepo *repository.BookingRepository, eventRepo *repository.EventRepository, userRepo *repository.UserRepository, validator *utils.Validator, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		bookingRepo:      bookingRepo,
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		validator:        validator,
		logger:           logger,
	}
}

// ListFor returns the notifications a user should see, newest first.
// Organizers see broadcasts addressed to everyone or to organizers plus
// anything they sent themselves; participants see broadcasts addressed to
// everyone or to participants plus alerts tied to their own bookings.
func (s *NotificationService) ListFor(user *models.User) ([]models.Notification, error) {
	all, err := s.notificationRepo.GetAll()
	if err != nil {
		return nil, err
	}

	var bookingIDs map[string]bool
	if user.IsParticipant() {
		bookings, err := s.bookingRepo.GetByUser(user.ID)
		if err != nil {
			return nil, err
		}
		bookingIDs = make(map[string]bool, len(bookings))
		for _, b := range bookings {
			bookingIDs[b.ID] = true
		}
	}

	var out []models.Notification
	for _, n := range all {
		if s.visibleTo(user, n, bookingIDs) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *NotificationService) visibleTo(user *models.User, n models.Notification, bookingIDs map[string]bool) bool {
	if n.SenderID == user.ID {
		return true
	}
	switch n.Recipients {
	case models.RecipientsAll:
		return true
	case models.RecipientsOrganizers:
		return user.IsOrganizer()
	case models.RecipientsParticipants:
		if !user.IsParticipant() {
			return false
		}
		if n.BookingID != "" {
			return bookingIDs[n.BookingID]
		}
		return true
	}
	return false
}

// Send broadcasts a custom notification from an organizer and reports how
// many users the recipient group covers.
func (s *NotificationService) Send(sender *models.User, req models.NotificationRequest) (*models.Notification, int, error) {
	if !sender.IsOrganizer() {
		return nil, 0, ErrPermissionDenied
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, 0, err
	}

	count, err := s.recipientCount(req.Recipients)
	if err != nil {
		return nil, 0, err
	}

	notification := &models.Notification{
		Type:       req.Type,
		Recipients: req.Recipients,
		Subject:    req.Subject,
		Message:    req.Message,
		SenderID:   sender.ID,
		SenderName: sender.Name,
	}
	if err := s.notificationRepo.Save(notification); err != nil {
		return nil, 0, err
	}

	s.logger.Info("notification sent",
		zap.String("notification_id", notification.ID),
		zap.String("recipients", req.Recipients),
		zap.Int("recipient_count", count),
	)
	return notification, count, nil
}

func (s *NotificationService) recipientCount(recipients string) (int, error) {
	var (
		count int64
		err   error
	)
	switch recipients {
	case models.RecipientsAll:
		count, err = s.userRepo.Count()
	case models.RecipientsOrganizers:
		count, err = s.userRepo.CountByRole(models.RoleOrganizer)
	case models.RecipientsParticipants:
		count, err = s.userRepo.CountByRole(models.RoleParticipant)
	default:
		return 0, fmt.Errorf("unknown recipient group %q", recipients)
	}
	return int(count), err
}

// BookingConfirmed records the confirmation alert for a fresh booking.
func (s *NotificationService) BookingConfirmed(booking *models.Booking, event *models.Event) {
	s.record(&models.Notification{
		Type:       models.NotifyEmail,
		Recipients: models.RecipientsParticipants,
		Subject:    "Booking Confirmed: " + event.Title,
		Message: fmt.Sprintf("Your booking %s for %s on %s at %s is confirmed. Tickets: %d, total: %s.",
			booking.BookingReference, event.Title, event.Date, event.Time,
			booking.Quantity, utils.FormatCurrency(booking.TotalAmount)),
		BookingID: booking.ID,
		EventID:   event.ID,
		Metadata: models.Metadata{
			"bookingReference": booking.BookingReference,
			"quantity":         booking.Quantity,
		},
	})
}

// BookingStatusChanged tells the participant their booking moved to a new
// status.
func (s *NotificationService) BookingStatusChanged(booking *models.Booking, status string) {
	s.record(&models.Notification{
		Type:       models.NotifyEmail,
		Recipients: models.RecipientsParticipants,
		Subject:    "Booking " + status + ": " + booking.EventTitle,
		Message: fmt.Sprintf("Your booking %s for %s is now %s.",
			booking.BookingReference, booking.EventTitle, status),
		BookingID: booking.ID,
		EventID:   booking.EventID,
	})
}

// EventCreated announces a new event to participants.
func (s *NotificationService) EventCreated(event *models.Event) {
	s.record(&models.Notification{
		Type:       models.NotifyEmail,
		Recipients: models.RecipientsParticipants,
		Subject:    "New Event: " + event.Title,
		Message: fmt.Sprintf("%s is happening on %s at %s in %s. Tickets from %s.",
			event.Title, event.Date, event.Time, event.Location,
			utils.FormatCurrency(event.Price)),
		EventID: event.ID,
	})
}

// EventUpdated alerts participants holding bookings that event details
// changed.
func (s *NotificationService) EventUpdated(event *models.Event, affected int) {
	s.record(&models.Notification{
		Type:       models.NotifyEmail,
		Recipients: models.RecipientsParticipants,
		Subject:    "Event Updated: " + event.Title,
		Message: fmt.Sprintf("Details for %s have changed. It now takes place on %s at %s in %s.",
			event.Title, event.Date, event.Time, event.Location),
		EventID: event.ID,
		Metadata: models.Metadata{
			"affectedBookings": affected,
		},
	})
}

// EventCancelled announces an event deletion with the refund total owed to
// affected participants.
func (s *NotificationService) EventCancelled(event *models.Event, cancelledBookings int, refundTotal float64) {
	s.record(&models.Notification{
		Type:       models.NotifyBoth,
		Recipients: models.RecipientsParticipants,
		Subject:    "Event Cancelled: " + event.Title,
		Message: fmt.Sprintf("%s scheduled for %s has been cancelled. All %d bookings are cancelled and %s will be refunded.",
			event.Title, event.Date, cancelledBookings, utils.FormatCurrency(refundTotal)),
		EventID: event.ID,
		Metadata: models.Metadata{
			"cancelledBookings": cancelledBookings,
			"refundTotal":       refundTotal,
		},
	})
}

// CapacityWarning alerts organizers when an event crosses the occupancy
// threshold. Returns true when a warning was recorded.
func (s *NotificationService) CapacityWarning(event *models.Event) bool {
	occupancy := utils.Percentage(event.Bookings, event.Capacity)
	if occupancy < capacityWarningThreshold {
		return false
	}
	s.record(&models.Notification{
		Type:       models.NotifyEmail,
		Recipients: models.RecipientsOrganizers,
		Subject:    "Capacity Alert: " + event.Title,
		Message: fmt.Sprintf("%s is %d%% booked (%d of %d tickets sold).",
			event.Title, occupancy, event.Bookings, event.Capacity),
		EventID: event.ID,
		Metadata: models.Metadata{
			"occupancy": occupancy,
		},
	})
	return true
}

// EventReminders records a reminder for every event happening tomorrow and
// returns how many were sent.
func (s *NotificationService) EventReminders(now time.Time) (int, error) {
	events, err := s.eventRepo.GetAll()
	if err != nil {
		return 0, err
	}
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	sent := 0
	for i := range events {
		e := events[i]
		if e.Date != tomorrow {
			continue
		}
		s.record(&models.Notification{
			Type:       models.NotifyBoth,
			Recipients: models.RecipientsParticipants,
			Subject:    "Reminder: " + e.Title + " is tomorrow",
			Message: fmt.Sprintf("%s starts tomorrow at %s in %s. Don't forget your ticket.",
				e.Title, e.Time, e.Location),
			EventID: e.ID,
		})
		sent++
	}
	return sent, nil
}

// StatsFor summarizes the notifications visible to a user.
func (s *NotificationService) StatsFor(user *models.User, now time.Time) (*models.NotificationStats, error) {
	visible, err := s.ListFor(user)
	if err != nil {
		return nil, err
	}
	stats := &models.NotificationStats{TotalSent: len(visible)}
	weekAgo := now.AddDate(0, 0, -7)
	for _, n := range visible {
		switch n.Type {
		case models.NotifyEmail:
			stats.EmailNotifications++
		case models.NotifySMS:
			stats.SMSNotifications++
		case models.NotifyBoth:
			stats.EmailNotifications++
			stats.SMSNotifications++
		}
		if n.CreatedAt.After(weekAgo) {
			stats.RecentLast7Days++
		}
	}
	return stats, nil
}

// CleanupOld trims stored notifications down to the newest keep entries.
func (s *NotificationService) CleanupOld(keep int) (int64, error) {
	return s.notificationRepo.CleanupOld(keep)
}

func (s *NotificationService) record(n *models.Notification) {
	if err := s.notificationRepo.Save(n); err != nil {
		s.logger.Warn("failed to record notification",
			zap.String("subject", n.Subject),
			zap.Error(err),
		)
	}
}
