package drills

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/juniorgolf-backend/pkg/db"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service exposes the read-only drill catalog.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Categories(ctx context.Context, band *enums.AgeBand) ([]string, error)
	Get(ctx context.Context, id uuid.UUID) (*DrillDTO, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("drills repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	filters := input.Filters
	if filters.AgeBand != nil && !filters.AgeBand.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid age band")
	}
	if filters.SkillCategory != nil {
		category := strings.TrimSpace(*filters.SkillCategory)
		if category == "" {
			filters.SkillCategory = nil
		} else {
			filters.SkillCategory = &category
		}
	}

	page, err := s.repo.List(ctx, filters, input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list drills")
	}
	result := &ListResult{
		Drills: make([]DrillDTO, 0, len(page.Items)),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for i := range page.Items {
		result.Drills = append(result.Drills, *FromModel(&page.Items[i]))
	}
	return result, nil
}

func (s *service) Categories(ctx context.Context, band *enums.AgeBand) ([]string, error) {
	if band != nil && !band.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid age band")
	}
	categories, err := s.repo.Categories(ctx, band)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list drill categories")
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DrillDTO, error) {
	drill, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "drill not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup drill")
	}
	return FromModel(drill), nil
}
