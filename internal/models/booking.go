package models

import (
	"time"
)

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

type Booking struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	EventID          string    `json:"eventId" gorm:"index;not null"`
	EventTitle       string    `json:"eventTitle"`
	UserID           string    `json:"userId" gorm:"index;not null"`
	ParticipantName  string    `json:"participantName"`
	ParticipantEmail string    `json:"participantEmail"`
	Quantity         int       `json:"quantity" gorm:"not null"`
	TotalAmount      float64   `json:"totalAmount"`
	Status           string    `json:"status" gorm:"not null"`
	BookingReference string    `json:"bookingReference"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type BookingRequest struct {
	EventID  string `json:"eventId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Notes    string `json:"notes"`
}

// Ticket is the downloadable artifact for a confirmed booking.
type Ticket struct {
	BookingReference string  `json:"bookingReference"`
	EventTitle       string  `json:"eventTitle"`
	EventDate        string  `json:"eventDate"`
	EventTime        string  `json:"eventTime"`
	EventLocation    string  `json:"eventLocation"`
	ParticipantName  string  `json:"participantName"`
	Quantity         int     `json:"quantity"`
	TotalAmount      float64 `json:"totalAmount"`
	Status           string  `json:"status"`
	QRCode           string  `json:"qrCode"`
}

// BookingStats is a role-scoped breakdown of bookings.
type BookingStats struct {
	TotalBookings     int     `json:"totalBookings"`
	ConfirmedBookings int     `json:"confirmedBookings"`
	PendingBookings   int     `json:"pendingBookings"`
	CancelledBookings int     `json:"cancelledBookings"`
	TotalRevenue      float64 `json:"totalRevenue"`
}
