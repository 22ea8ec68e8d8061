package models

import (
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/google/uuid"
)

// AvatarItem is a shop catalog entry.
type AvatarItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string         `gorm:"column:name;not null"`
	Type        enums.ItemType `gorm:"column:type;type:text;not null"`
	ImageURL    string         `gorm:"column:image_url;not null"`
	UnlockStars int            `gorm:"column:unlock_stars;not null"`
	IsPremium   bool           `gorm:"column:is_premium;not null"`
	Rarity      enums.Rarity   `gorm:"column:rarity;type:text;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// ChildAvatarItem records that a child owns an item.
type ChildAvatarItem struct {
	ID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChildID    uuid.UUID   `gorm:"column:child_id;type:uuid;not null"`
	ItemID     uuid.UUID   `gorm:"column:item_id;type:uuid;not null"`
	Item       *AvatarItem `gorm:"foreignKey:ItemID"`
	Equipped   bool        `gorm:"column:equipped;not null"`
	UnlockedAt time.Time   `gorm:"column:unlocked_at;not null"`
}
