package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/internal/children"
	"github.com/angelmondragon/juniorgolf-backend/internal/parents"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Service reports practice progress and maintains weekly streaks.
type Service interface {
	Stats(ctx context.Context, parentID, childID uuid.UUID) (*StatsDTO, error)
	GetStreak(ctx context.Context, parentID, childID uuid.UUID) (*StreakDTO, error)
	UpdateStreak(ctx context.Context, parentID, childID uuid.UUID) (*StreakDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx       txRunner
	repo     Repository
	children children.Repository
	parents  parents.Repository
	loc      *time.Location
	now      func() time.Time
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies of the progress service.
type ServiceParams struct {
	TxRunner   txRunner
	Repo       Repository
	ChildRepo  children.Repository
	ParentRepo parents.Repository
	Location   *time.Location
	Clock      func() time.Time
	Logger     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("progress repository is required")
	}
	if params.ChildRepo == nil {
		return nil, fmt.Errorf("children repository is required")
	}
	if params.ParentRepo == nil {
		return nil, fmt.Errorf("parent repository is required")
	}
	svc := &service{
		tx:       params.TxRunner,
		repo:     params.Repo,
		children: params.ChildRepo,
		parents:  params.ParentRepo,
		loc:      params.Location,
		now:      params.Clock,
		logg:     params.Logger,
	}
	if svc.loc == nil {
		svc.loc = time.Local
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	return svc, nil
}

func (s *service) Stats(ctx context.Context, parentID, childID uuid.UUID) (*StatsDTO, error) {
	child, err := children.FindOwned(ctx, s.children, parentID, childID)
	if err != nil {
		return nil, err
	}

	var (
		totals SessionTotals
		skills []SkillStars
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.repo.SessionTotals(gctx, child.ID)
		return err
	})
	g.Go(func() error {
		var err error
		skills, err = s.repo.SkillStars(gctx, child.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load progress stats")
	}

	progress := make(map[string]int, len(skills))
	for _, sk := range skills {
		progress[sk.Category] = int(sk.Stars)
	}
	return &StatsDTO{
		ChildID:                child.ID,
		Name:                   child.Name,
		TotalStars:             child.TotalStars,
		AvailableStars:         child.AvailableStars,
		TotalSessions:          totals.Total,
		CompletedSessions:      totals.Completed,
		AverageStarsPerSession: averageStars(totals.CompletedStars, totals.Completed),
		SkillProgress:          progress,
	}, nil
}

// GetStreak returns the child's streak, creating an empty one for the current week on first read.
func (s *service) GetStreak(ctx context.Context, parentID, childID uuid.UUID) (*StreakDTO, error) {
	child, err := children.FindOwned(ctx, s.children, parentID, childID)
	if err != nil {
		return nil, err
	}
	goal, err := s.goal(ctx, parentID)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.FindStreak(ctx, child.ID, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load streak")
	}
	if row == nil {
		row, err = s.repo.EnsureStreak(ctx, child.ID, WeekStart(s.now(), s.loc))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create streak")
		}
	}
	return streakDTO(child.ID, *stateFromModel(row), goal), nil
}

// UpdateStreak records one practice session against the child's weekly goal.
func (s *service) UpdateStreak(ctx context.Context, parentID, childID uuid.UUID) (*StreakDTO, error) {
	child, err := children.FindOwned(ctx, s.children, parentID, childID)
	if err != nil {
		return nil, err
	}
	goal, err := s.goal(ctx, parentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var next State
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		// concurrent first updates converge on one row before locking it
		if err := repo.InitStreak(ctx, child.ID, WeekStart(now, s.loc)); err != nil {
			return err
		}
		row, err := repo.FindStreak(ctx, child.ID, true)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("streak row missing for child %s", child.ID)
		}
		next = Advance(stateFromModel(row), goal, now, s.loc)
		return repo.SaveStreak(ctx, row.ID, next)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update streak")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"child_id":       child.ID.String(),
		"current_streak": next.CurrentStreak,
		"weekly_count":   next.WeeklySessionCount,
	})
	s.logg.Debug(ctx, "streak updated")
	return streakDTO(child.ID, next, goal), nil
}

func (s *service) goal(ctx context.Context, parentID uuid.UUID) (enums.StreakGoal, error) {
	parent, err := s.parents.FindByID(ctx, parentID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent settings")
	}
	return parent.Settings.Goal(), nil
}
