package avatar

import (
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/angelmondragon/juniorgolf-backend/pkg/types"
	"github.com/google/uuid"
)

// ItemRequest names the catalog item to purchase or equip.
type ItemRequest struct {
	ItemID uuid.UUID `json:"itemId" validate:"required"`
}

type ItemDTO struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Type        enums.ItemType `json:"type"`
	ImageURL    string         `json:"imageUrl"`
	UnlockStars int            `json:"unlockStars"`
	IsPremium   bool           `json:"isPremium"`
	Rarity      enums.Rarity   `json:"rarity"`
}

// ChildAvatarDTO is a child's wardrobe and current outfit.
type ChildAvatarDTO struct {
	ChildID       uuid.UUID         `json:"childId"`
	EquippedItems []ItemDTO         `json:"equippedItems"`
	OwnedItems    []ItemDTO         `json:"ownedItems"`
	AvatarState   types.AvatarState `json:"avatarState"`
}

// InsufficientStarsDetails is attached to a rejected purchase.
type InsufficientStarsDetails struct {
	Required  int `json:"required"`
	Available int `json:"available"`
}

func itemFromModel(item *models.AvatarItem) ItemDTO {
	return ItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Type:        item.Type,
		ImageURL:    item.ImageURL,
		UnlockStars: item.UnlockStars,
		IsPremium:   item.IsPremium,
		Rarity:      item.Rarity,
	}
}
