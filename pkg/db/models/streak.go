package models

import (
	"time"

	"github.com/google/uuid"
)

// Streak holds weekly practice bookkeeping for a child.
type Streak struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChildID            uuid.UUID  `gorm:"column:child_id;type:uuid;not null;uniqueIndex"`
	CurrentStreak      int        `gorm:"column:current_streak;not null"`
	LongestStreak      int        `gorm:"column:longest_streak;not null"`
	WeeklySessionCount int        `gorm:"column:weekly_session_count;not null"`
	WeekStartDate      time.Time  `gorm:"column:week_start_date;not null"`
	LastSessionDate    *time.Time `gorm:"column:last_session_date"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
