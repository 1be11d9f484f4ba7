package utils

import (
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// ParseEventDateTime combines an event's date and time fields.
func ParseEventDateTime(date, clock string) (time.Time, error) {
	return time.Parse(dateTimeLayout, date+" "+clock)
}

// IsPastDate reports whether the given YYYY-MM-DD date is before today.
// Malformed dates count as past.
func IsPastDate(date string, now time.Time) bool {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return true
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(today)
}

// DaysBetween returns the absolute whole-day distance between two times.
func DaysBetween(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Round(24*time.Hour) / (24 * time.Hour))
}

// EventStatus classifies an event by its date/time relative to now:
// "completed" once started, "upcoming" within seven days, "active" otherwise.
func EventStatus(date, clock string, now time.Time) string {
	dt, err := ParseEventDateTime(date, clock)
	if err != nil {
		return "completed"
	}
	switch {
	case dt.Before(now):
		return "completed"
	case DaysBetween(dt, now) <= 7:
		return "upcoming"
	default:
		return "active"
	}
}
