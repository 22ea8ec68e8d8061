package children

import (
	"context"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/internal/repo"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists child profiles and their star balances. Every read is
// scoped to the owning parent.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, child *models.Child) error
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]models.Child, error)
	FindOwned(ctx context.Context, parentID, childID uuid.UUID) (*models.Child, error)
	Update(ctx context.Context, childID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, parentID, childID uuid.UUID) (bool, error)
	CreditStars(ctx context.Context, childID uuid.UUID, stars int) error
	DebitAvailableStars(ctx context.Context, childID uuid.UUID, cost int) (bool, error)
	AvatarStateForUpdate(ctx context.Context, childID uuid.UUID) (types.AvatarState, error)
	UpdateAvatarState(ctx context.Context, childID uuid.UUID, state types.AvatarState) error
	FindStreak(ctx context.Context, childID uuid.UUID) (*models.Streak, error)
	RecentSessions(ctx context.Context, childID uuid.UUID, limit int) ([]models.Session, error)
	CountSessions(ctx context.Context, childID uuid.UUID) (int64, error)
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

func (r *repository) Create(ctx context.Context, child *models.Child) error {
	if child.ID == uuid.Nil {
		child.ID = uuid.New()
	}
	return r.DB(ctx).Create(child).Error
}

// ListByParent returns the parent's children, oldest first.
func (r *repository) ListByParent(ctx context.Context, parentID uuid.UUID) ([]models.Child, error) {
	var out []models.Child
	err := r.DB(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) FindOwned(ctx context.Context, parentID, childID uuid.UUID) (*models.Child, error) {
	var child models.Child
	err := r.DB(ctx).
		Where("id = ? AND parent_id = ?", childID, parentID).
		First(&child).Error
	if err != nil {
		return nil, err
	}
	return &child, nil
}

func (r *repository) Update(ctx context.Context, childID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return r.DB(ctx).Model(&models.Child{}).Where("id = ?", childID).Updates(updates).Error
}

// Delete removes the child; sessions, streak and owned items cascade.
func (r *repository) Delete(ctx context.Context, parentID, childID uuid.UUID) (bool, error) {
	res := r.DB(ctx).
		Where("id = ? AND parent_id = ?", childID, parentID).
		Delete(&models.Child{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CreditStars adds stars to both the lifetime total and the spendable balance.
func (r *repository) CreditStars(ctx context.Context, childID uuid.UUID, stars int) error {
	return r.DB(ctx).
		Model(&models.Child{}).
		Where("id = ?", childID).
		Updates(map[string]any{
			"total_stars":     gorm.Expr("total_stars + ?", stars),
			"available_stars": gorm.Expr("available_stars + ?", stars),
			"updated_at":      time.Now().UTC(),
		}).Error
}

// DebitAvailableStars spends cost stars only when the balance covers it.
func (r *repository) DebitAvailableStars(ctx context.Context, childID uuid.UUID, cost int) (bool, error) {
	res := r.DB(ctx).
		Model(&models.Child{}).
		Where("id = ? AND available_stars >= ?", childID, cost).
		Updates(map[string]any{
			"available_stars": gorm.Expr("available_stars - ?", cost),
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AvatarStateForUpdate reads the stored avatar state and row-locks the child
// until the surrounding transaction ends.
func (r *repository) AvatarStateForUpdate(ctx context.Context, childID uuid.UUID) (types.AvatarState, error) {
	var child models.Child
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "avatar_state").
		Where("id = ?", childID).
		First(&child).Error
	if err != nil {
		return types.AvatarState{}, err
	}
	return child.AvatarState, nil
}

func (r *repository) UpdateAvatarState(ctx context.Context, childID uuid.UUID, state types.AvatarState) error {
	return r.DB(ctx).
		Model(&models.Child{}).
		Where("id = ?", childID).
		Updates(map[string]any{"avatar_state": state, "updated_at": time.Now().UTC()}).Error
}

// FindStreak returns the child's streak row or nil when none exists yet.
func (r *repository) FindStreak(ctx context.Context, childID uuid.UUID) (*models.Streak, error) {
	var rows []models.Streak
	if err := r.DB(ctx).Where("child_id = ?", childID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *repository) RecentSessions(ctx context.Context, childID uuid.UUID, limit int) ([]models.Session, error) {
	var out []models.Session
	err := r.DB(ctx).
		Where("child_id = ?", childID).
		Order("started_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *repository) CountSessions(ctx context.Context, childID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Session{}).Where("child_id = ?", childID).Count(&count).Error
	return count, err
}
