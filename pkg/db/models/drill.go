package models

import (
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/google/uuid"
)

// Drill is a catalog practice activity.
type Drill struct {
	ID              uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title           string        `gorm:"column:title;not null"`
	AgeBand         enums.AgeBand `gorm:"column:age_band;type:text;not null;index"`
	SkillCategory   string        `gorm:"column:skill_category;not null"`
	DurationMinutes int           `gorm:"column:duration_minutes;not null"`
	Setup           string        `gorm:"column:setup;not null"`
	ChildAction     string        `gorm:"column:child_action;not null"`
	ParentCue       string        `gorm:"column:parent_cue;not null"`
	CommonMistakes  string        `gorm:"column:common_mistakes;not null"`
	SuccessCriteria string        `gorm:"column:success_criteria;not null"`
	ImageURL        *string       `gorm:"column:image_url"`
	VideoURL        *string       `gorm:"column:video_url"`
	IsPremium       bool          `gorm:"column:is_premium;not null"`
	CreatedAt       time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
