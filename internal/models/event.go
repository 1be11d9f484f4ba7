package models

import (
	"time"
)

// Event lifecycle states derived from the event date.
const (
	EventStatusActive    = "active"
	EventStatusUpcoming  = "upcoming"
	EventStatusCompleted = "completed"
)

type Event struct {
	ID            string  `json:"id" gorm:"primaryKey"`
	Title         string  `json:"title" gorm:"not null"`
	Description   string  `json:"description"`
	Date          string  `json:"date" gorm:"not null"` // YYYY-MM-DD
	Time          string  `json:"time" gorm:"not null"` // HH:MM
	Location      string  `json:"location"`
	Capacity      int     `json:"capacity" gorm:"not null"`
	Price         float64 `json:"price" gorm:"not null"`
	OrganizerID   string  `json:"organizerId" gorm:"index;not null"`
	OrganizerName string  `json:"organizerName"`
	Category      string  `json:"category,omitempty"`
	// Bookings is the derived count of confirmed tickets, maintained by the
	// booking repository on every booking mutation.
	Bookings  int       `json:"bookings" gorm:"default:0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AvailableTickets is capacity minus the derived confirmed-ticket count.
func (e *Event) AvailableTickets() int {
	return e.Capacity - e.Bookings
}

type EventRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string  `json:"time" validate:"required,datetime=15:04"`
	Location    string  `json:"location" validate:"required"`
	Capacity    int     `json:"capacity" validate:"required,gt=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category"`
}

// EventPerformance is a per-event analytics row.
type EventPerformance struct {
	EventID       string  `json:"eventId"`
	Title         string  `json:"title"`
	Bookings      int     `json:"bookings"`
	Capacity      int     `json:"capacity"`
	Revenue       float64 `json:"revenue"`
	OccupancyRate int     `json:"occupancyRate"`
	Status        string  `json:"status"`
}
