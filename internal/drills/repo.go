package drills

import (
	"context"

	"github.com/angelmondragon/juniorgolf-backend/internal/repo"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/angelmondragon/juniorgolf-backend/pkg/pagination"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Repository reads the drill catalog.
type Repository interface {
	List(ctx context.Context, filters ListFilters, page pagination.Params) (pagination.Page[models.Drill], error)
	Categories(ctx context.Context, band *enums.AgeBand) ([]string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Drill, error)
	ListByAgeBand(ctx context.Context, band enums.AgeBand) ([]models.Drill, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

// List loads one page and the matching total concurrently.
func (r *repository) List(ctx context.Context, filters ListFilters, page pagination.Params) (pagination.Page[models.Drill], error) {
	page = page.Normalize()
	out := pagination.Page[models.Drill]{Limit: page.Limit, Offset: page.Offset}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.filtered(gctx, filters).
			Order("skill_category ASC").
			Order("title ASC").
			Limit(page.Limit).
			Offset(page.Offset).
			Find(&out.Items).Error
	})
	g.Go(func() error {
		return r.filtered(gctx, filters).Count(&out.Total).Error
	})
	if err := g.Wait(); err != nil {
		return pagination.Page[models.Drill]{}, err
	}
	return out, nil
}

func (r *repository) filtered(ctx context.Context, filters ListFilters) *gorm.DB {
	q := r.DB(ctx).Model(&models.Drill{})
	if filters.AgeBand != nil {
		q = q.Where("age_band = ?", *filters.AgeBand)
	}
	if filters.SkillCategory != nil {
		q = q.Where("skill_category = ?", *filters.SkillCategory)
	}
	if filters.IsPremium != nil {
		q = q.Where("is_premium = ?", *filters.IsPremium)
	}
	return q
}

func (r *repository) Categories(ctx context.Context, band *enums.AgeBand) ([]string, error) {
	q := r.DB(ctx).Model(&models.Drill{}).Distinct("skill_category")
	if band != nil {
		q = q.Where("age_band = ?", *band)
	}
	var out []string
	err := q.Order("skill_category ASC").Pluck("skill_category", &out).Error
	return out, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Drill, error) {
	var drill models.Drill
	if err := r.DB(ctx).Where("id = ?", id).First(&drill).Error; err != nil {
		return nil, err
	}
	return &drill, nil
}

// ListByAgeBand returns every drill for band in a stable order.
func (r *repository) ListByAgeBand(ctx context.Context, band enums.AgeBand) ([]models.Drill, error) {
	var out []models.Drill
	err := r.DB(ctx).
		Where("age_band = ?", band).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
