package models

import (
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/angelmondragon/juniorgolf-backend/pkg/types"
	"github.com/google/uuid"
)

// Child is a golfer profile owned by a parent.
type Child struct {
	ID             uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ParentID       uuid.UUID         `gorm:"column:parent_id;type:uuid;not null;index"`
	Name           string            `gorm:"column:name;not null"`
	AgeBand        enums.AgeBand     `gorm:"column:age_band;type:text;not null"`
	SkillLevel     enums.SkillLevel  `gorm:"column:skill_level;type:text;not null"`
	TotalStars     int               `gorm:"column:total_stars;not null"`
	AvailableStars int               `gorm:"column:available_stars;not null"`
	AvatarState    types.AvatarState `gorm:"column:avatar_state;type:jsonb;not null"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Child) TableName() string {
	return "children"
}
