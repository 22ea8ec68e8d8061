package models

import (
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/google/uuid"
)

// Session is one practice attempt by a child.
type Session struct {
	ID               uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChildID          uuid.UUID           `gorm:"column:child_id;type:uuid;not null;index"`
	Status           enums.SessionStatus `gorm:"column:status;type:text;not null"`
	TotalStarsEarned int                 `gorm:"column:total_stars_earned;not null"`
	StartedAt        time.Time           `gorm:"column:started_at;not null"`
	CompletedAt      *time.Time          `gorm:"column:completed_at"`
	Drills           []SessionDrill      `gorm:"foreignKey:SessionID"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// SessionDrill is a drill slot inside a session.
type SessionDrill struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID   uuid.UUID  `gorm:"column:session_id;type:uuid;not null;index"`
	DrillID     uuid.UUID  `gorm:"column:drill_id;type:uuid;not null"`
	Drill       *Drill     `gorm:"foreignKey:DrillID"`
	Order       int        `gorm:"column:sort_order;not null"`
	Completed   bool       `gorm:"column:completed;not null"`
	StarsEarned int        `gorm:"column:stars_earned;not null"`
	VerifiedAt  *time.Time `gorm:"column:verified_at"`
}
