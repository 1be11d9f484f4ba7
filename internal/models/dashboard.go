package models

import (
	"time"
)

// DashboardStats is the overview stat block; labels depend on role.
type DashboardStats struct {
	TotalEvents       int     `json:"totalEvents"`
	TotalBookings     int     `json:"totalBookings"`
	TotalParticipants int     `json:"totalParticipants"`
	TotalRevenue      float64 `json:"totalRevenue"`
	UpcomingEvents    int     `json:"upcomingEvents"`
}

// ActivityEntry is one line of recent activity on the dashboard.
type ActivityEntry struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// DashboardSummary is the exportable dashboard document.
type DashboardSummary struct {
	User struct {
		Name      string     `json:"name"`
		Email     string     `json:"email"`
		Role      string     `json:"role"`
		LastLogin *time.Time `json:"lastLogin,omitempty"`
	} `json:"user"`
	Stats          DashboardStats  `json:"stats"`
	RecentActivity []ActivityEntry `json:"recentActivity"`
	ExportDate     time.Time       `json:"exportDate,omitempty"`
}

// SearchResult is one hit of the cross-collection dashboard search.
type SearchResult struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Section     string `json:"section"`
	ID          string `json:"id"`
}
