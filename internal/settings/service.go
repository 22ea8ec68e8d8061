package settings

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/juniorgolf-backend/internal/parents"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service reads and updates a user's preferences.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*SettingsDTO, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*SettingsDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx      txRunner
	repo    Repository
	parents parents.Repository
}

func NewService(tx txRunner, repo Repository, parentRepo parents.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	if parentRepo == nil {
		return nil, fmt.Errorf("parent repository is required")
	}
	return &service{tx: tx, repo: repo, parents: parentRepo}, nil
}

// Get returns the user's settings, storing the defaults on first read.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*SettingsDTO, error) {
	row, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	if row == nil {
		row, err = s.repo.CreateIfMissing(ctx, defaults(userID))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create settings")
		}
	}
	parent, err := s.loadParent(ctx, s.parents, userID)
	if err != nil {
		return nil, err
	}
	return fromModel(row, goalOf(parent)), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*SettingsDTO, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	var (
		row  *models.UserSettings
		goal enums.StreakGoal
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		parentRepo := s.parents.WithTx(tx)

		current, err := repo.FindByUserID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
		}
		if current == nil {
			current = defaults(userID)
		}
		applyUpdate(current, req)
		if err := repo.Upsert(ctx, current); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save settings")
		}

		parent, err := s.loadParent(ctx, parentRepo, userID)
		if err != nil {
			return err
		}
		if parent != nil && req.StreakGoal != nil {
			next := parent.Settings
			g := *req.StreakGoal
			next.StreakGoal = &g
			if err := parentRepo.UpdateSettings(ctx, parent.ID, next); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save streak goal")
			}
			parent.Settings = next
		}
		goal = goalOf(parent)

		row, err = repo.FindByUserID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload settings")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fromModel(row, goal), nil
}

// loadParent returns nil for accounts without a parent profile.
func (s *service) loadParent(ctx context.Context, repo parents.Repository, userID uuid.UUID) (*models.Parent, error) {
	parent, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent settings")
	}
	return parent, nil
}

func goalOf(parent *models.Parent) enums.StreakGoal {
	if parent == nil {
		return enums.DefaultStreakGoal
	}
	return parent.Settings.Goal()
}

func validateUpdate(req UpdateRequest) error {
	if req.Theme != nil {
		if _, err := enums.ParseTheme(*req.Theme); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "theme must be one of light, dark, system")
		}
	}
	if req.Language != nil {
		n := utf8.RuneCountInString(strings.TrimSpace(*req.Language))
		if n < 2 || n > 5 {
			return pkgerrors.New(pkgerrors.CodeValidation, "language must be 2 to 5 characters")
		}
	}
	if req.DailyReminderTime.Value != nil && !types.IsClockTime(*req.DailyReminderTime.Value) {
		return pkgerrors.New(pkgerrors.CodeValidation, "dailyReminderTime must be HH:MM")
	}
	if req.StreakGoal != nil && !req.StreakGoal.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid streak goal")
	}
	return nil
}

func applyUpdate(row *models.UserSettings, req UpdateRequest) {
	if req.NotificationsEnabled != nil {
		row.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.DailyReminderTime.Valid {
		if req.DailyReminderTime.Value == nil {
			row.DailyReminderTime = nil
		} else {
			v := *req.DailyReminderTime.Value
			row.DailyReminderTime = &v
		}
	}
	if req.SoundEnabled != nil {
		row.SoundEnabled = *req.SoundEnabled
	}
	if req.Theme != nil {
		row.Theme = *req.Theme
	}
	if req.Language != nil {
		row.Language = strings.TrimSpace(*req.Language)
	}
}
