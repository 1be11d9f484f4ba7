package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Notification channels.
const (
	NotifyEmail = "email"
	NotifySMS   = "sms"
	NotifyBoth  = "both"
)

// Notification recipient groups.
const (
	RecipientsAll          = "all"
	RecipientsOrganizers   = "organizers"
	RecipientsParticipants = "participants"
)

// Metadata is a free-form JSON document stored as a text column.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return errors.New("unsupported metadata column type")
}

type Notification struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Type       string    `json:"type" gorm:"not null"`
	Recipients string    `json:"recipients" gorm:"not null"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	SenderID   string    `json:"senderId,omitempty"`
	SenderName string    `json:"senderName,omitempty"`
	BookingID  string    `json:"bookingId,omitempty"`
	EventID    string    `json:"eventId,omitempty"`
	Metadata   Metadata  `json:"metadata,omitempty" gorm:"type:text"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type NotificationRequest struct {
	Type       string `json:"type" validate:"required,oneof=email sms both"`
	Recipients string `json:"recipients" validate:"required,oneof=all organizers participants"`
	Subject    string `json:"subject" validate:"required"`
	Message    string `json:"message" validate:"required"`
}

// NotificationStats summarizes sent notifications for a user.
type NotificationStats struct {
	TotalSent          int `json:"totalSent"`
	EmailNotifications int `json:"emailNotifications"`
	SMSNotifications   int `json:"smsNotifications"`
	RecentLast7Days    int `json:"recentLast7Days"`
}
