package progress

import (
	"context"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/internal/repo"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists streak rows and aggregates session history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindStreak(ctx context.Context, childID uuid.UUID, forUpdate bool) (*models.Streak, error)
	EnsureStreak(ctx context.Context, childID uuid.UUID, weekStart time.Time) (*models.Streak, error)
	InitStreak(ctx context.Context, childID uuid.UUID, weekStart time.Time) error
	SaveStreak(ctx context.Context, streakID uuid.UUID, state State) error
	SessionTotals(ctx context.Context, childID uuid.UUID) (SessionTotals, error)
	SkillStars(ctx context.Context, childID uuid.UUID) ([]SkillStars, error)
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

// FindStreak returns nil when the child has no streak row yet.
func (r *repository) FindStreak(ctx context.Context, childID uuid.UUID, forUpdate bool) (*models.Streak, error) {
	q := r.DB(ctx).Where("child_id = ?", childID)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []models.Streak
	if err := q.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// EnsureStreak creates an empty streak for the week when none exists and returns the stored row.
func (r *repository) EnsureStreak(ctx context.Context, childID uuid.UUID, weekStart time.Time) (*models.Streak, error) {
	if err := r.InitStreak(ctx, childID, weekStart); err != nil {
		return nil, err
	}
	return r.FindStreak(ctx, childID, false)
}

// InitStreak inserts an empty streak for the week unless the child already has one.
func (r *repository) InitStreak(ctx context.Context, childID uuid.UUID, weekStart time.Time) error {
	return r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "child_id"}}, DoNothing: true}).
		Create(&models.Streak{
			ID:            uuid.New(),
			ChildID:       childID,
			WeekStartDate: weekStart.UTC(),
		}).Error
}

func (r *repository) SaveStreak(ctx context.Context, streakID uuid.UUID, state State) error {
	return r.DB(ctx).
		Model(&models.Streak{}).
		Where("id = ?", streakID).
		Updates(map[string]any{
			"current_streak":       state.CurrentStreak,
			"longest_streak":       state.LongestStreak,
			"weekly_session_count": state.WeeklySessionCount,
			"week_start_date":      state.WeekStartDate.UTC(),
			"last_session_date":    utcPtr(state.LastSessionDate),
			"updated_at":           time.Now().UTC(),
		}).Error
}

func (r *repository) SessionTotals(ctx context.Context, childID uuid.UUID) (SessionTotals, error) {
	var out SessionTotals
	err := r.DB(ctx).
		Model(&models.Session{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN total_stars_earned ELSE 0 END), 0) AS completed_stars",
			enums.SessionStatusCompleted, enums.SessionStatusCompleted,
		).
		Where("child_id = ?", childID).
		Scan(&out).Error
	return out, err
}

// SkillStars sums stars of completed drills in completed sessions per skill category.
func (r *repository) SkillStars(ctx context.Context, childID uuid.UUID) ([]SkillStars, error) {
	var out []SkillStars
	err := r.DB(ctx).
		Table("session_drills").
		Select("drills.skill_category AS category, COALESCE(SUM(session_drills.stars_earned), 0) AS stars").
		Joins("JOIN sessions ON sessions.id = session_drills.session_id").
		Joins("JOIN drills ON drills.id = session_drills.drill_id").
		Where("sessions.child_id = ? AND sessions.status = ? AND session_drills.completed = ?",
			childID, enums.SessionStatusCompleted, true).
		Group("drills.skill_category").
		Order("drills.skill_category ASC").
		Scan(&out).Error
	return out, err
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
