package enums

import "fmt"

// ItemType is the avatar slot an item occupies.
type ItemType string

const (
	ItemTypeHat       ItemType = "HAT"
	ItemTypeShirt     ItemType = "SHIRT"
	ItemTypeShoes     ItemType = "SHOES"
	ItemTypeClubSkin  ItemType = "CLUB_SKIN"
	ItemTypeAccessory ItemType = "ACCESSORY"
)

var validItemTypes = []ItemType{
	ItemTypeHat,
	ItemTypeShirt,
	ItemTypeShoes,
	ItemTypeClubSkin,
	ItemTypeAccessory,
}

// ItemTypes returns every slot in display order.
func ItemTypes() []ItemType {
	out := make([]ItemType, len(validItemTypes))
	copy(out, validItemTypes)
	return out
}

// String implements fmt.Stringer.
func (t ItemType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ItemType.
func (t ItemType) IsValid() bool {
	for _, candidate := range validItemTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseItemType converts raw input into an ItemType.
func ParseItemType(value string) (ItemType, error) {
	for _, candidate := range validItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item type %q", value)
}

// Rarity ranks avatar items.
type Rarity string

const (
	RarityCommon    Rarity = "COMMON"
	RarityUncommon  Rarity = "UNCOMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

var validRarities = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityEpic,
	RarityLegendary,
}

// String implements fmt.Stringer.
func (r Rarity) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Rarity.
func (r Rarity) IsValid() bool {
	for _, candidate := range validRarities {
		if candidate == r {
			return true
		}
	}
	return false
}
