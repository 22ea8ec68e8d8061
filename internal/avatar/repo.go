package avatar

import (
	"context"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/internal/repo"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads the item catalog and persists child ownership.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListItems(ctx context.Context, itemType *enums.ItemType) ([]models.AvatarItem, error)
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.AvatarItem, error)
	ListOwned(ctx context.Context, childID uuid.UUID) ([]models.ChildAvatarItem, error)
	FindOwned(ctx context.Context, childID, itemID uuid.UUID) (*models.ChildAvatarItem, error)
	AddOwned(ctx context.Context, childID, itemID uuid.UUID, at time.Time) error
	UnequipType(ctx context.Context, childID uuid.UUID, itemType enums.ItemType) error
	MarkEquipped(ctx context.Context, ownedID uuid.UUID) error
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

// ListItems returns the catalog ordered by type then price.
func (r *repository) ListItems(ctx context.Context, itemType *enums.ItemType) ([]models.AvatarItem, error) {
	q := r.DB(ctx).Model(&models.AvatarItem{})
	if itemType != nil {
		q = q.Where("type = ?", *itemType)
	}
	var out []models.AvatarItem
	err := q.Order("type ASC").Order("unlock_stars ASC").Order("name ASC").Find(&out).Error
	return out, err
}

func (r *repository) FindItem(ctx context.Context, itemID uuid.UUID) (*models.AvatarItem, error) {
	var item models.AvatarItem
	if err := r.DB(ctx).Where("id = ?", itemID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListOwned returns the child's items, earliest unlock first.
func (r *repository) ListOwned(ctx context.Context, childID uuid.UUID) ([]models.ChildAvatarItem, error) {
	var out []models.ChildAvatarItem
	err := r.DB(ctx).
		Preload("Item").
		Where("child_id = ?", childID).
		Order("unlocked_at ASC").
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) FindOwned(ctx context.Context, childID, itemID uuid.UUID) (*models.ChildAvatarItem, error) {
	var owned models.ChildAvatarItem
	err := r.DB(ctx).
		Preload("Item").
		Where("child_id = ? AND item_id = ?", childID, itemID).
		First(&owned).Error
	if err != nil {
		return nil, err
	}
	return &owned, nil
}

func (r *repository) AddOwned(ctx context.Context, childID, itemID uuid.UUID, at time.Time) error {
	return r.DB(ctx).Create(&models.ChildAvatarItem{
		ID:         uuid.New(),
		ChildID:    childID,
		ItemID:     itemID,
		UnlockedAt: at.UTC(),
	}).Error
}

// UnequipType clears the equipped flag on every owned item of itemType.
func (r *repository) UnequipType(ctx context.Context, childID uuid.UUID, itemType enums.ItemType) error {
	sub := r.DB(ctx).Model(&models.AvatarItem{}).Select("id").Where("type = ?", itemType)
	return r.DB(ctx).
		Model(&models.ChildAvatarItem{}).
		Where("child_id = ? AND equipped = ? AND item_id IN (?)", childID, true, sub).
		Update("equipped", false).Error
}

func (r *repository) MarkEquipped(ctx context.Context, ownedID uuid.UUID) error {
	return r.DB(ctx).
		Model(&models.ChildAvatarItem{}).
		Where("id = ?", ownedID).
		Update("equipped", true).Error
}
