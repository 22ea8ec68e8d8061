package parents

import (
	"context"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/internal/repo"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists parent profiles, their PIN and family settings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, userID uuid.UUID) (*models.Parent, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Parent, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Parent, error)
	SetPinHashIfUnset(ctx context.Context, id uuid.UUID, hash string) (bool, error)
	UpdatePinHash(ctx context.Context, id uuid.UUID, hash string) error
	UpdateSettings(ctx context.Context, id uuid.UUID, settings types.ParentSettings) error
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

// Create inserts an empty-settings parent profile for userID.
func (r *repository) Create(ctx context.Context, userID uuid.UUID) (*models.Parent, error) {
	parent := &models.Parent{
		ID:       uuid.New(),
		UserID:   userID,
		Settings: types.ParentSettings{},
	}
	if err := r.DB(ctx).Create(parent).Error; err != nil {
		return nil, err
	}
	return parent, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Parent, error) {
	var parent models.Parent
	if err := r.DB(ctx).Where("user_id = ?", userID).First(&parent).Error; err != nil {
		return nil, err
	}
	return &parent, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Parent, error) {
	var parent models.Parent
	if err := r.DB(ctx).First(&parent, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &parent, nil
}

// SetPinHashIfUnset stores hash only when no PIN exists yet and reports whether it did.
func (r *repository) SetPinHashIfUnset(ctx context.Context, id uuid.UUID, hash string) (bool, error) {
	res := r.DB(ctx).
		Model(&models.Parent{}).
		Where("id = ? AND pin_hash IS NULL", id).
		Updates(map[string]any{"pin_hash": hash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) UpdatePinHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.DB(ctx).
		Model(&models.Parent{}).
		Where("id = ?", id).
		Updates(map[string]any{"pin_hash": hash, "updated_at": time.Now().UTC()}).Error
}

func (r *repository) UpdateSettings(ctx context.Context, id uuid.UUID, settings types.ParentSettings) error {
	return r.DB(ctx).
		Model(&models.Parent{}).
		Where("id = ?", id).
		Updates(map[string]any{"settings": settings, "updated_at": time.Now().UTC()}).Error
}
