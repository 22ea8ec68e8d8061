package settings

import (
	"context"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/internal/repo"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists per-user app preferences.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)
	CreateIfMissing(ctx context.Context, settings *models.UserSettings) (*models.UserSettings, error)
	Upsert(ctx context.Context, settings *models.UserSettings) error
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

// FindByUserID returns nil when no settings row exists yet.
func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	var rows []models.UserSettings
	if err := r.DB(ctx).Where("user_id = ?", userID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CreateIfMissing inserts settings unless the user already has a row, then returns the stored row.
func (r *repository) CreateIfMissing(ctx context.Context, settings *models.UserSettings) (*models.UserSettings, error) {
	err := r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(settings).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, settings.UserID)
}

// Upsert writes every preference column, inserting the row when the user has none.
func (r *repository) Upsert(ctx context.Context, settings *models.UserSettings) error {
	settings.UpdatedAt = time.Now().UTC()
	res := r.DB(ctx).
		Model(&models.UserSettings{}).
		Where("user_id = ?", settings.UserID).
		Updates(map[string]any{
			"notifications_enabled": settings.NotificationsEnabled,
			"daily_reminder_time":   settings.DailyReminderTime,
			"sound_enabled":         settings.SoundEnabled,
			"theme":                 settings.Theme,
			"language":              settings.Language,
			"updated_at":            settings.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if settings.ID == uuid.Nil {
		settings.ID = uuid.New()
	}
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"notifications_enabled",
				"daily_reminder_time",
				"sound_enabled",
				"theme",
				"language",
				"updated_at",
			}),
		}).
		Create(settings).Error
}
