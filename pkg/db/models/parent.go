package models

import (
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/types"
	"github.com/google/uuid"
)

// Parent extends a user with family-level state.
type Parent struct {
	ID        uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID            `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Settings  types.ParentSettings `gorm:"column:settings;type:jsonb;not null"`
	PinHash   *string              `gorm:"column:pin_hash"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// HasPin reports whether a PIN has been configured.
func (p Parent) HasPin() bool {
	return p.PinHash != nil && *p.PinHash != ""
}
