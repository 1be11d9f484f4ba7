package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventStatus(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date string
		time string
		want string
	}{
		{"already started", "2026-06-15", "09:00", "completed"},
		{"last week", "2026-06-08", "10:00", "completed"},
		{"later today", "2026-06-15", "18:00", "upcoming"},
		{"in five days", "2026-06-20", "09:00", "upcoming"},
		{"next month", "2026-07-20", "09:00", "active"},
		{"garbage date", "not-a-date", "09:00", "completed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EventStatus(tt.date, tt.time, now))
		})
	}
}

func TestIsPastDate(t *testing.T) {
	now := time.Date(2026, 6, 15, 23, 59, 0, 0, time.UTC)

	require.True(t, IsPastDate("2026-06-14", now))
	require.False(t, IsPastDate("2026-06-15", now), "today is not past")
	require.False(t, IsPastDate("2026-06-16", now))
	require.True(t, IsPastDate("bogus", now))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 6, 18, 0, 0, 0, 0, time.UTC)

	require.Equal(t, 3, DaysBetween(a, b))
	require.Equal(t, 3, DaysBetween(b, a))
	require.Equal(t, 0, DaysBetween(a, a))
}
