package service

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eventdesk/eventdesk/internal/models"
	"github.com/eventdesk/eventdesk/internal/repository"
	"github.com/eventdesk/eventdesk/pkg/utils"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrEventFullyBooked   = errors.New("not enough tickets available, event is fully booked")
	ErrAlreadyBooked      = errors.New("you already have a booking for this event")
	ErrEventAlreadyPast   = errors.New("cannot book tickets for a past event")
	ErrInvalidStatus      = errors.New("invalid booking status")
	ErrCancelNotAllowed   = errors.New("only confirmed bookings for future events can be cancelled")
	ErrParticipantsOnly   = errors.New("only participants can book tickets")
	ErrTicketNotAvailable = errors.New("tickets are only available for confirmed bookings")
)

type BookingService struct {
	bookingRepo *repository.BookingRepository
	eventRepo   *repository.EventRepository
	notifier    *NotificationService
	validator   *utils.Validator
	logger      *zap.Logger
}

func NewBookingService(bookingRepo *repository.BookingRepository, eventRepo *repository.EventRepository, notifier *NotificationService, validator *utils.Validator, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		notifier:    notifier,
		validator:   validator,
		logger:      logger,
	}
}

// Create books tickets for a participant. The booking is admitted only while
// the requested quantity fits the remaining capacity, is confirmed
// immediately, and triggers a confirmation alert plus a capacity warning to
// the organizer when the event crosses the occupancy threshold.
func (s *BookingService) Create(user *models.User, req models.BookingRequest) (*models.Booking, error) {
	if !user.IsParticipant() {
		return nil, ErrParticipantsOnly
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(req.EventID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if utils.IsPastDate(event.Date, time.Now()) {
		return nil, ErrEventAlreadyPast
	}
	if req.Quantity > event.AvailableTickets() {
		return nil, ErrEventFullyBooked
	}

	existing, err := s.bookingRepo.GetByUser(user.ID)
	if err != nil {
		return nil, err
	}
	for _, b := range existing {
		if b.EventID == event.ID && b.Status != models.BookingCancelled {
			return nil, ErrAlreadyBooked
		}
	}

	booking := &models.Booking{
		EventID:          event.ID,
		EventTitle:       event.Title,
		UserID:           user.ID,
		ParticipantName:  user.Name,
		ParticipantEmail: user.Email,
		Quantity:         req.Quantity,
		TotalAmount:      float64(req.Quantity) * event.Price,
		Status:           models.BookingConfirmed,
		BookingReference: utils.GenerateBookingReference(),
		Notes:            req.Notes,
	}
	if err := s.bookingRepo.Save(booking); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}

	// Re-read for the recalculated ticket count before checking occupancy.
	if updated, err := s.eventRepo.GetByID(event.ID); err == nil {
		event = updated
	}
	s.notifier.BookingConfirmed(booking, event)
	s.notifier.CapacityWarning(event)

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("event_id", event.ID),
		zap.Int("quantity", booking.Quantity),
	)
	return booking, nil
}

// ListFor returns the bookings a user may see, newest first: organizers get
// the bookings of their own events, participants their own bookings. An
// optional status narrows the result.
func (s *BookingService) ListFor(user *models.User, status string) ([]models.Booking, error) {
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

	if status != "" && status != "all" {
		filtered := bookings[:0:0]
		for _, b := range bookings {
			if b.Status == status {
				filtered = append(filtered, b)
			}
		}
		bookings = filtered
	}
	return utils.SortBy(bookings, func(a, b models.Booking) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}), nil
}

func (s *BookingService) Get(id string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	return booking, err
}

// UpdateStatus lets the organizer of the booked event move a booking between
// statuses. The event's derived ticket count follows the change, and the
// participant is notified.
func (s *BookingService) UpdateStatus(organizer *models.User, bookingID, status string) (*models.Booking, error) {
	switch status {
	case models.BookingPending, models.BookingConfirmed, models.BookingCancelled:
	default:
		return nil, ErrInvalidStatus
	}

	booking, err := s.Get(bookingID)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(booking.EventID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if !organizer.IsOrganizer() || event == nil || event.OrganizerID != organizer.ID {
		return nil, ErrPermissionDenied
	}

	if err := s.bookingRepo.UpdateStatus(bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status
	s.notifier.BookingStatusChanged(booking, status)
	return booking, nil
}

// Cancel lets a participant cancel their own confirmed booking for a future
// event, releasing the tickets.
func (s *BookingService) Cancel(user *models.User, bookingID string) (*models.Booking, error) {
	booking, err := s.Get(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != user.ID {
		return nil, ErrPermissionDenied
	}
	if booking.Status != models.BookingConfirmed {
		return nil, ErrCancelNotAllowed
	}
	event, err := s.eventRepo.GetByID(booking.EventID)
	if err == nil && utils.IsPastDate(event.Date, time.Now()) {
		return nil, ErrCancelNotAllowed
	}

	if err := s.bookingRepo.UpdateStatus(bookingID, models.BookingCancelled); err != nil {
		return nil, err
	}
	booking.Status = models.BookingCancelled
	s.notifier.BookingStatusChanged(booking, models.BookingCancelled)

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("user_id", user.ID),
	)
	return booking, nil
}

// Ticket builds the downloadable ticket artifact for a confirmed booking
// owned by the user.
func (s *BookingService) Ticket(user *models.User, bookingID string) (*models.Ticket, error) {
	booking, err := s.Get(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != user.ID {
		return nil, ErrPermissionDenied
	}
	if booking.Status != models.BookingConfirmed {
		return nil, ErrTicketNotAvailable
	}

	ticket := &models.Ticket{
		BookingReference: booking.BookingReference,
		EventTitle:       booking.EventTitle,
		ParticipantName:  booking.ParticipantName,
		Quantity:         booking.Quantity,
		TotalAmount:      booking.TotalAmount,
		Status:           booking.Status,
		QRCode:           fmt.Sprintf("EMS-%s-%s", booking.ID, booking.EventID),
	}
	if event, err := s.eventRepo.GetByID(booking.EventID); err == nil {
		ticket.EventDate = event.Date
		ticket.EventTime = event.Time
		ticket.EventLocation = event.Location
	}
	return ticket, nil
}

// StatsFor summarizes the bookings a user may see.
func (s *BookingService) StatsFor(user *models.User) (*models.BookingStats, error) {
	bookings, err := s.ListFor(user, "")
	if err != nil {
		return nil, err
	}
	stats := &models.BookingStats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case models.BookingConfirmed:
			stats.ConfirmedBookings++
			stats.TotalRevenue += b.TotalAmount
		case models.BookingPending:
			stats.PendingBookings++
		case models.BookingCancelled:
			stats.CancelledBookings++
		}
	}
	return stats, nil
}
