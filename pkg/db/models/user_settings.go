package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSettings stores per-account app preferences.
type UserSettings struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	NotificationsEnabled bool      `gorm:"column:notifications_enabled;not null"`
	DailyReminderTime    *string   `gorm:"column:daily_reminder_time"`
	SoundEnabled         bool      `gorm:"column:sound_enabled;not null"`
	Theme                string    `gorm:"column:theme;not null"`
	Language             string    `gorm:"column:language;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}
