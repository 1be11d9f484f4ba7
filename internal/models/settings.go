package models

// NotificationPrefs holds per-channel toggles inside Settings.
type NotificationPrefs struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

// Settings is the single process-wide preferences record.
type Settings struct {
	ID            uint              `json:"-" gorm:"primaryKey"`
	Theme         string            `json:"theme"`
	Notifications NotificationPrefs `json:"notifications" gorm:"embedded;embeddedPrefix:notify_"`
	Currency      string            `json:"currency"`
	Timezone      string            `json:"timezone"`
	Language      string            `json:"language"`
}

// DefaultSettings returns the seeded preferences for a fresh store.
func DefaultSettings() Settings {
	return Settings{
		Theme: "light",
		Notifications: NotificationPrefs{
			Email: true,
			SMS:   false,
			Push:  true,
		},
		Currency: "USD",
		Timezone: "America/New_York",
		Language: "en",
	}
}

type UpdateSettingsRequest struct {
	Theme    *string `json:"theme"`
	Email    *bool   `json:"email"`
	SMS      *bool   `json:"sms"`
	Push     *bool   `json:"push"`
	Currency *string `json:"currency"`
	Timezone *string `json:"timezone"`
	Language *string `json:"language"`
}

// Session is the persisted current-user pointer. At most one row exists.
type Session struct {
	ID     uint   `gorm:"primaryKey"`
	UserID string `gorm:"not null"`
}
