package sessions

import (
	"context"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/internal/repo"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/angelmondragon/juniorgolf-backend/pkg/pagination"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists sessions and their drill slots. Reads are scoped to
// the parent owning the session's child.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, session *models.Session) error
	FindOwned(ctx context.Context, parentID, sessionID uuid.UUID) (*models.Session, error)
	List(ctx context.Context, parentID uuid.UUID, filters ListFilters, page pagination.Params) (pagination.Page[models.Session], error)
	MarkDrillCompleted(ctx context.Context, sessionID, sessionDrillID uuid.UUID, stars int, at time.Time) (bool, error)
	AddStars(ctx context.Context, sessionID uuid.UUID, stars int) (bool, error)
	Close(ctx context.Context, sessionID uuid.UUID, status enums.SessionStatus, at time.Time) (bool, error)
	StarsEarned(ctx context.Context, sessionID uuid.UUID) (int, error)
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

// Create inserts the session row then its drill slots. Drill catalog rows are never written.
func (r *repository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if err := r.DB(ctx).Omit(clause.Associations).Create(session).Error; err != nil {
		return err
	}
	if len(session.Drills) == 0 {
		return nil
	}
	for i := range session.Drills {
		session.Drills[i].SessionID = session.ID
		if session.Drills[i].ID == uuid.Nil {
			session.Drills[i].ID = uuid.New()
		}
	}
	return r.DB(ctx).Omit(clause.Associations).Create(&session.Drills).Error
}

func (r *repository) FindOwned(ctx context.Context, parentID, sessionID uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := withDrills(r.DB(ctx)).
		Joins("JOIN children ON children.id = sessions.child_id").
		Where("sessions.id = ? AND children.parent_id = ?", sessionID, parentID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// List returns the parent's sessions newest first, loading the page and total concurrently.
func (r *repository) List(ctx context.Context, parentID uuid.UUID, filters ListFilters, page pagination.Params) (pagination.Page[models.Session], error) {
	page = page.Normalize()
	out := pagination.Page[models.Session]{Limit: page.Limit, Offset: page.Offset}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return withDrills(r.scoped(gctx, parentID, filters)).
			Order("sessions.started_at DESC").
			Order("sessions.id ASC").
			Limit(page.Limit).
			Offset(page.Offset).
			Find(&out.Items).Error
	})
	g.Go(func() error {
		return r.scoped(gctx, parentID, filters).Count(&out.Total).Error
	})
	if err := g.Wait(); err != nil {
		return pagination.Page[models.Session]{}, err
	}
	return out, nil
}

func (r *repository) scoped(ctx context.Context, parentID uuid.UUID, filters ListFilters) *gorm.DB {
	q := r.DB(ctx).
		Model(&models.Session{}).
		Joins("JOIN children ON children.id = sessions.child_id").
		Where("children.parent_id = ?", parentID)
	if filters.ChildID != nil {
		q = q.Where("sessions.child_id = ?", *filters.ChildID)
	}
	if filters.Status != nil {
		q = q.Where("sessions.status = ?", *filters.Status)
	}
	return q
}

func withDrills(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Drills", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Drills.Drill")
}

// MarkDrillCompleted flips an incomplete drill slot; false means it was already completed or absent.
func (r *repository) MarkDrillCompleted(ctx context.Context, sessionID, sessionDrillID uuid.UUID, stars int, at time.Time) (bool, error) {
	res := r.DB(ctx).
		Model(&models.SessionDrill{}).
		Where("id = ? AND session_id = ? AND completed = ?", sessionDrillID, sessionID, false).
		Updates(map[string]any{
			"completed":    true,
			"stars_earned": stars,
			"verified_at":  at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AddStars increments the session tally while it is still in progress.
func (r *repository) AddStars(ctx context.Context, sessionID uuid.UUID, stars int) (bool, error) {
	res := r.DB(ctx).
		Model(&models.Session{}).
		Where("id = ? AND status = ?", sessionID, enums.SessionStatusInProgress).
		Updates(map[string]any{
			"total_stars_earned": gorm.Expr("total_stars_earned + ?", stars),
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Close moves an in-progress session to a terminal status.
func (r *repository) Close(ctx context.Context, sessionID uuid.UUID, status enums.SessionStatus, at time.Time) (bool, error) {
	res := r.DB(ctx).
		Model(&models.Session{}).
		Where("id = ? AND status = ?", sessionID, enums.SessionStatusInProgress).
		Updates(map[string]any{
			"status":       status,
			"completed_at": at,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) StarsEarned(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var stars int
	err := r.DB(ctx).
		Model(&models.Session{}).
		Where("id = ?", sessionID).
		Pluck("total_stars_earned", &stars).Error
	return stars, err
}
