package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/eventdesk/eventdesk/internal/models"
)

// Open connects to the embedded store and runs migrations.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Booking{},
		&models.Notification{},
		&models.Settings{},
		&models.Session{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}

// Seed inserts the default settings row and, when wanted, the demo events.
// Existing rows are left alone so a restarted process keeps its data.
func Seed(db *gorm.DB, demoEvents bool) error {
	var count int64
	if err := db.Model(&models.Settings{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		defaults := models.DefaultSettings()
		if err := db.Create(&defaults).Error; err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	}

	if !demoEvents {
		return nil
	}

	for _, ev := range DefaultEvents() {
		var n int64
		db.Model(&models.Event{}).Where("id = ?", ev.ID).Count(&n)
		if n == 0 {
			if err := db.Create(&ev).Error; err != nil {
				return fmt.Errorf("seed event %s: %w", ev.ID, err)
			}
		}
	}
	return nil
}

// DefaultEvents are the demo events a fresh store starts with.
func DefaultEvents() []models.Event {
	return []models.Event{
		{
			ID:            "demo-event-1",
			Title:         "Tech Conference 2026",
			Description:   "Annual technology conference featuring the latest innovations and trends.",
			Date:          "2026-06-15",
			Time:          "09:00",
			Location:      "Convention Center, Downtown",
			Capacity:      500,
			Price:         99.99,
			OrganizerID:   "demo-organizer",
			OrganizerName: "Demo Organizer",
			Category:      "Technology",
		},
		{
			ID:            "demo-event-2",
			Title:         "Music Festival",
			Description:   "Three-day music festival featuring local and international artists.",
			Date:          "2026-07-20",
			Time:          "18:00",
			Location:      "City Park Amphitheater",
			Capacity:      2000,
			Price:         149.99,
			OrganizerID:   "demo-organizer",
			OrganizerName: "Demo Organizer",
			Category:      "Music",
		},
	}
}
