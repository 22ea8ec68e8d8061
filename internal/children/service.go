package children

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/juniorgolf-backend/pkg/db"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	maxNameLength      = 50
	recentSessionLimit = 5
	childNotFound      = "child not found"
)

// Service exposes ownership-scoped child profile operations.
type Service interface {
	Create(ctx context.Context, parentID uuid.UUID, input CreateChildInput) (*ChildDTO, error)
	List(ctx context.Context, parentID uuid.UUID) ([]ChildDTO, error)
	Get(ctx context.Context, parentID, childID uuid.UUID) (*ChildDTO, error)
	GetWithStats(ctx context.Context, parentID, childID uuid.UUID) (*ChildStatsDTO, error)
	Update(ctx context.Context, parentID, childID uuid.UUID, input UpdateChildInput) (*ChildDTO, error)
	Delete(ctx context.Context, parentID, childID uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("children repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, parentID uuid.UUID, input CreateChildInput) (*ChildDTO, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}
	if !input.AgeBand.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid age band")
	}
	skill := enums.SkillLevelBeginner
	if input.SkillLevel != nil {
		if !input.SkillLevel.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid skill level")
		}
		skill = *input.SkillLevel
	}
	state, err := parseAvatarState(input.AvatarState)
	if err != nil {
		return nil, err
	}

	child := &models.Child{
		ID:          uuid.New(),
		ParentID:    parentID,
		Name:        name,
		AgeBand:     input.AgeBand,
		SkillLevel:  skill,
		AvatarState: state,
	}
	if err := s.repo.Create(ctx, child); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create child")
	}
	return FromModel(child), nil
}

func (s *service) List(ctx context.Context, parentID uuid.UUID) ([]ChildDTO, error) {
	rows, err := s.repo.ListByParent(ctx, parentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list children")
	}
	out := make([]ChildDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, parentID, childID uuid.UUID) (*ChildDTO, error) {
	child, err := s.findOwned(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}
	return FromModel(child), nil
}

// GetWithStats loads the child then its streak, recent sessions and session count concurrently.
func (s *service) GetWithStats(ctx context.Context, parentID, childID uuid.UUID) (*ChildStatsDTO, error) {
	child, err := s.findOwned(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}

	var (
		streak *models.Streak
		recent []models.Session
		total  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		streak, err = s.repo.FindStreak(gctx, child.ID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.repo.RecentSessions(gctx, child.ID, recentSessionLimit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountSessions(gctx, child.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load child stats")
	}

	return &ChildStatsDTO{
		ChildDTO:       *FromModel(child),
		Streak:         streakSummary(streak),
		RecentSessions: sessionSummaries(recent),
		TotalSessions:  total,
	}, nil
}

func (s *service) Update(ctx context.Context, parentID, childID uuid.UUID, input UpdateChildInput) (*ChildDTO, error) {
	child, err := s.findOwned(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name, err := normalizeName(*input.Name)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
		child.Name = name
	}
	if input.AgeBand != nil {
		if !input.AgeBand.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid age band")
		}
		updates["age_band"] = *input.AgeBand
		child.AgeBand = *input.AgeBand
	}
	if input.SkillLevel != nil {
		if !input.SkillLevel.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid skill level")
		}
		updates["skill_level"] = *input.SkillLevel
		child.SkillLevel = *input.SkillLevel
	}
	if len(updates) == 0 {
		return FromModel(child), nil
	}

	if err := s.repo.Update(ctx, child.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update child")
	}
	return s.Get(ctx, parentID, childID)
}

func (s *service) Delete(ctx context.Context, parentID, childID uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, parentID, childID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete child")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, childNotFound)
	}
	return nil
}

func (s *service) findOwned(ctx context.Context, parentID, childID uuid.UUID) (*models.Child, error) {
	return FindOwned(ctx, s.repo, parentID, childID)
}

// FindOwned loads a child through the ownership chain, mapping absence and
// foreign ownership alike to NotFound.
func FindOwned(ctx context.Context, repo Repository, parentID, childID uuid.UUID) (*models.Child, error) {
	child, err := repo.FindOwned(ctx, parentID, childID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, childNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup child")
	}
	return child, nil
}

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	return name, nil
}

func parseAvatarState(raw map[string]string) (types.AvatarState, error) {
	var state types.AvatarState
	for key, value := range raw {
		itemType, err := enums.ParseItemType(key)
		if err != nil {
			return types.AvatarState{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		id, err := uuid.Parse(value)
		if err != nil {
			return types.AvatarState{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid item id for %s", itemType))
		}
		state.Set(itemType, id)
	}
	return state, nil
}
