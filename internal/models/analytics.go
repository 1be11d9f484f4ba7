package models

import (
	"time"
)

// PopularEvent is an event ranked by confirmed ticket volume.
type PopularEvent struct {
	Event
	BookingCount int `json:"bookingCount"`
}

// AnalyticsSnapshot is the store-wide aggregate, recomputed on every call.
type AnalyticsSnapshot struct {
	TotalEvents        int            `json:"totalEvents"`
	TotalBookings      int            `json:"totalBookings"`
	TotalRevenue       float64        `json:"totalRevenue"`
	TotalParticipants  int            `json:"totalParticipants"`
	PopularEvents      []PopularEvent `json:"popularEvents"`
	EventBookingCounts map[string]int `json:"eventBookingCounts"`
}

// AnalyticsSummary is the role-scoped view served to a logged-in user.
type AnalyticsSummary struct {
	TotalEvents         int     `json:"totalEvents"`
	UpcomingEvents      int     `json:"upcomingEvents"`
	TotalBookings       int     `json:"totalBookings"`
	ConfirmedBookings   int     `json:"confirmedBookings"`
	TotalRevenue        float64 `json:"totalRevenue"`
	AverageTicketPrice  float64 `json:"averageTicketPrice"`
	AverageBookingValue float64 `json:"averageBookingValue"`
	TotalUsers          int     `json:"totalUsers"`
	ConversionRate      float64 `json:"conversionRate"`
}

// MonthRevenue is one bar of the six-month revenue trend.
type MonthRevenue struct {
	Key      string  `json:"key"` // YYYY-MM
	Label    string  `json:"label"`
	Revenue  float64 `json:"revenue"`
	Bookings int     `json:"bookings"`
}

// FeedbackComment is a single review attached to a completed event.
type FeedbackComment struct {
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
	EventTitle string `json:"eventTitle"`
	Date       string `json:"date"`
}

// FeedbackSummary aggregates event reviews.
type FeedbackSummary struct {
	TotalFeedback   int               `json:"totalFeedback"`
	AverageRating   float64           `json:"averageRating"`
	RatingBreakdown map[int]int       `json:"ratingBreakdown"`
	RecentComments  []FeedbackComment `json:"recentComments"`
}

// Archive is the full-store snapshot used by export/import.
type Archive struct {
	Users         []User         `json:"users"`
	Events        []Event        `json:"events"`
	Bookings      []Booking      `json:"bookings"`
	Notifications []Notification `json:"notifications"`
	Settings      *Settings      `json:"settings,omitempty"`
	ExportDate    time.Time      `json:"exportDate"`
}

// AnalyticsExport is the downloadable analytics artifact for one user.
type AnalyticsExport struct {
	User struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
	Summary struct {
		TotalEvents   int     `json:"totalEvents"`
		TotalBookings int     `json:"totalBookings"`
		TotalRevenue  float64 `json:"totalRevenue"`
	} `json:"summary"`
	Events []struct {
		Title    string  `json:"title"`
		Date     string  `json:"date"`
		Capacity int     `json:"capacity"`
		Bookings int     `json:"bookings"`
		Revenue  float64 `json:"revenue"`
	} `json:"events"`
	Bookings []struct {
		EventTitle string    `json:"eventTitle"`
		Date       time.Time `json:"date"`
		Quantity   int       `json:"quantity"`
		Amount     float64   `json:"amount"`
		Status     string    `json:"status"`
	} `json:"bookings"`
	ExportDate time.Time `json:"exportDate"`
}
