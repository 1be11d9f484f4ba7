package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eventdesk/eventdesk/internal/models"
	"github.com/eventdesk/eventdesk/internal/repository"
	"github.com/eventdesk/eventdesk/pkg/utils"
)

var (
	ErrEventInPast   = errors.New("event date and time must be in the future")
	ErrEventNotFound = errors.New("event not found")
	ErrOrganizerOnly = errors.New("only organizers can manage events")
)

type EventService struct {
	eventRepo   *repository.EventRepository
	bookingRepo *repository.BookingRepository
	notifier    *NotificationService
	validator   *utils.Validator
	logger      *zap.Logger
}

func NewEventService(eventRepo *repository.EventRepository, bookingRepo *repository.BookingRepository, notifier *NotificationService, validator *utils.Validator, logger *zap.Logger) *EventService {
	return &EventService{
		eventRepo:   eventRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		validator:   validator,
		logger:      logger,
	}
}

// ListFor returns the events visible to a user: organizers see only their
// own, participants see everything.
func (s *EventService) ListFor(user *models.User) ([]models.Event, error) {
	if user.IsOrganizer() {
		return s.eventRepo.GetByOrganizer(user.ID)
	}
	return s.eventRepo.GetAll()
}

func (s *EventService) Get(id string) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	return event, err
}

// Create validates and stores a new event owned by the given organizer, then
// announces it to participants.
func (s *EventService) Create(organizer *models.User, req models.EventRequest) (*models.Event, error) {
	if !organizer.IsOrganizer() {
		return nil, ErrOrganizerOnly
	}
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		Date:          req.Date,
		Time:          req.Time,
		Location:      strings.TrimSpace(req.Location),
		Capacity:      req.Capacity,
		Price:         req.Price,
		Category:      req.Category,
		OrganizerID:   organizer.ID,
		OrganizerName: organizer.Name,
	}
	if err := s.eventRepo.Save(event); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}

	s.notifier.EventCreated(event)
	s.logger.Info("event created",
		zap.String("event_id", event.ID),
		zap.String("organizer_id", organizer.ID),
	)
	return event, nil
}

// Update edits an owned event. Participants with bookings are notified.
func (s *EventService) Update(organizer *models.User, eventID string, req models.EventRequest) (*models.Event, error) {
	event, err := s.Get(eventID)
	if err != nil {
		return nil, err
	}
	if !organizer.IsOrganizer() || event.OrganizerID != organizer.ID {
		return nil, ErrPermissionDenied
	}
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	event.Title = strings.TrimSpace(req.Title)
	event.Description = strings.TrimSpace(req.Description)
	event.Date = req.Date
	event.Time = req.Time
	event.Location = strings.TrimSpace(req.Location)
	event.Capacity = req.Capacity
	event.Price = req.Price
	event.Category = req.Category

	if err := s.eventRepo.Save(event); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}

	bookings, err := s.bookingRepo.GetByEvent(event.ID)
	if err == nil && len(bookings) > 0 {
		s.notifier.EventUpdated(event, len(bookings))
	}
	return event, nil
}

// Delete removes an owned event and all its bookings in one transaction,
// notifying affected participants afterwards.
func (s *EventService) Delete(organizer *models.User, eventID string) error {
	event, err := s.Get(eventID)
	if err != nil {
		return err
	}
	if !organizer.IsOrganizer() || event.OrganizerID != organizer.ID {
		return ErrPermissionDenied
	}

	bookings, err := s.bookingRepo.GetByEvent(eventID)
	if err != nil {
		return fmt.Errorf("list event bookings: %w", err)
	}

	if err := s.eventRepo.Delete(eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	if len(bookings) > 0 {
		var refund float64
		for _, b := range bookings {
			refund += b.TotalAmount
		}
		s.notifier.EventCancelled(event, len(bookings), refund)
	}
	s.logger.Info("event deleted",
		zap.String("event_id", eventID),
		zap.Int("cancelled_bookings", len(bookings)),
	)
	return nil
}

// Search filters the user's visible events by term over title, description,
// location and organizer name.
func (s *EventService) Search(user *models.User, term string) ([]models.Event, error) {
	events, err := s.ListFor(user)
	if err != nil {
		return nil, err
	}
	return utils.Search(events, term, func(e models.Event) []string {
		return []string{e.Title, e.Description, e.Location, e.OrganizerName}
	}), nil
}

// FilterByStatus keeps events in the given lifecycle state ("all" passes
// everything through).
func (s *EventService) FilterByStatus(user *models.User, status string, now time.Time) ([]models.Event, error) {
	events, err := s.ListFor(user)
	if err != nil {
		return nil, err
	}
	if status == "" || status == "all" {
		return events, nil
	}
	var out []models.Event
	for _, e := range events {
		if utils.EventStatus(e.Date, e.Time, now) == status {
			out = append(out, e)
		}
	}
	return out, nil
}

// StatsFor summarizes the user's visible events.
func (s *EventService) StatsFor(user *models.User, now time.Time) (total, active, completed, totalBookings int, err error) {
	events, err := s.ListFor(user)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	for _, e := range events {
		switch utils.EventStatus(e.Date, e.Time, now) {
		case models.EventStatusCompleted:
			completed++
		default:
			active++
		}
		totalBookings += e.Bookings
	}
	return len(events), active, completed, totalBookings, nil
}

func (s *EventService) validateRequest(req models.EventRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	dt, err := utils.ParseEventDateTime(req.Date, req.Time)
	if err != nil {
		return fmt.Errorf("parse event date: %w", err)
	}
	if !dt.After(time.Now()) {
		return ErrEventInPast
	}
	return nil
}
