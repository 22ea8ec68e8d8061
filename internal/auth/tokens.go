package auth

import (
	"context"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/internal/repo"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenRepository persists hashed refresh tokens.
type TokenRepository interface {
	WithTx(tx *gorm.DB) TokenRepository
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	RevokeByHash(ctx context.Context, hash string, at time.Time) (bool, error)
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type tokenRepository struct {
	repo.Base
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{Base: repo.NewBase(db)}
}

func (r *tokenRepository) WithTx(tx *gorm.DB) TokenRepository {
	return &tokenRepository{Base: r.Base.WithTx(tx)}
}

func (r *tokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.ExpiresAt = token.ExpiresAt.UTC()
	return r.DB(ctx).Create(token).Error
}

func (r *tokenRepository) FindByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB(ctx).Where("token_hash = ?", hash).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// Revoke marks the token revoked unless it already was and reports whether this call revoked it.
func (r *tokenRepository) Revoke(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.DB(ctx).
		Model(&models.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		UpdateColumn("revoked_at", at.UTC())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *tokenRepository) RevokeByHash(ctx context.Context, hash string, at time.Time) (bool, error) {
	res := r.DB(ctx).
		Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		UpdateColumn("revoked_at", at.UTC())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *tokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	res := r.DB(ctx).
		Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		UpdateColumn("revoked_at", at.UTC())
	return res.RowsAffected, res.Error
}

// DeleteStale removes tokens that expired or were revoked before cutoff.
func (r *tokenRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoff = cutoff.UTC()
	res := r.DB(ctx).
		Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", cutoff, cutoff).
		Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
