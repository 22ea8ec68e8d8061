package types

import (
	"database/sql/driver"

	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/google/uuid"
)

// AvatarState records which item is worn in each avatar slot.
type AvatarState struct {
	Hat       *uuid.UUID `json:"HAT,omitempty"`
	Shirt     *uuid.UUID `json:"SHIRT,omitempty"`
	Shoes     *uuid.UUID `json:"SHOES,omitempty"`
	ClubSkin  *uuid.UUID `json:"CLUB_SKIN,omitempty"`
	Accessory *uuid.UUID `json:"ACCESSORY,omitempty"`
}

func (a *AvatarState) slot(t enums.ItemType) **uuid.UUID {
	switch t {
	case enums.ItemTypeHat:
		return &a.Hat
	case enums.ItemTypeShirt:
		return &a.Shirt
	case enums.ItemTypeShoes:
		return &a.Shoes
	case enums.ItemTypeClubSkin:
		return &a.ClubSkin
	case enums.ItemTypeAccessory:
		return &a.Accessory
	}
	return nil
}

// Get returns the item worn in slot t, if any.
func (a AvatarState) Get(t enums.ItemType) *uuid.UUID {
	if s := a.slot(t); s != nil {
		return *s
	}
	return nil
}

// Set wears itemID in slot t. Unknown slots are ignored.
func (a *AvatarState) Set(t enums.ItemType, itemID uuid.UUID) {
	if s := a.slot(t); s != nil {
		id := itemID
		*s = &id
	}
}

// Clear empties slot t.
func (a *AvatarState) Clear(t enums.ItemType) {
	if s := a.slot(t); s != nil {
		*s = nil
	}
}

// ItemIDs lists every worn item.
func (a AvatarState) ItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, 5)
	for _, t := range enums.ItemTypes() {
		if id := a.Get(t); id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

func (a AvatarState) Value() (driver.Value, error) {
	return marshalJSONB(a)
}

func (a *AvatarState) Scan(value interface{}) error {
	*a = AvatarState{}
	return scanJSONB(value, a, "avatar state")
}
