package repository

import (
	"sort"

	"gorm.io/gorm"

	"github.com/eventdesk/eventdesk/internal/models"
)

// AnalyticsRepository computes store-wide aggregates. Every call recomputes
// from scratch; fine at this scale, nothing is cached.
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Snapshot() (*models.AnalyticsSnapshot, error) {
	snap := &models.AnalyticsSnapshot{
		EventBookingCounts: map[string]int{},
	}

	var totalEvents, totalBookings, totalParticipants int64
	if err := r.db.Model(&models.Event{}).Count(&totalEvents).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Booking{}).Count(&totalBookings).Error; err != nil {
		return nil, err
	}
	// Distinct users across all bookings regardless of status.
	err := r.db.Model(&models.Booking{}).
		Distinct("user_id").
		Count(&totalParticipants).Error
	if err != nil {
		return nil, err
	}

	var revenue float64
	err = r.db.Model(&models.Booking{}).
		Where("status = ?", models.BookingConfirmed).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}

	type eventCount struct {
		EventID string
		Total   int
	}
	var counts []eventCount
	err = r.db.Model(&models.Booking{}).
		Where("status = ?", models.BookingConfirmed).
		Select("event_id, SUM(quantity) AS total").
		Group("event_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		snap.EventBookingCounts[c.EventID] = c.Total
	}

	var events []models.Event
	if err := r.db.Order("created_at, id").Find(&events).Error; err != nil {
		return nil, err
	}
	popular := make([]models.PopularEvent, 0, len(events))
	for _, ev := range events {
		popular = append(popular, models.PopularEvent{
			Event:        ev,
			BookingCount: snap.EventBookingCounts[ev.ID],
		})
	}
	sort.SliceStable(popular, func(i, j int) bool {
		return popular[i].BookingCount > popular[j].BookingCount
	})
	if len(popular) > 5 {
		popular = popular[:5]
	}

	snap.TotalEvents = int(totalEvents)
	snap.TotalBookings = int(totalBookings)
	snap.TotalParticipants = int(totalParticipants)
	snap.TotalRevenue = revenue
	snap.PopularEvents = popular
	return snap, nil
}
