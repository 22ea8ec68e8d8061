package avatar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/internal/children"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
	"github.com/angelmondragon/juniorgolf-backend/pkg/metrics"
	"github.com/angelmondragon/juniorgolf-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	itemNotFound   = "item not found"
	itemNotOwned   = "item not owned"
	notEnoughStars = "not enough stars"
)

// Service runs the star shop and the child's avatar wardrobe.
type Service interface {
	Shop(ctx context.Context, category string) ([]ItemDTO, error)
	ChildAvatar(ctx context.Context, parentID, childID uuid.UUID) (*ChildAvatarDTO, error)
	Purchase(ctx context.Context, parentID, childID, itemID uuid.UUID) error
	Equip(ctx context.Context, parentID, childID, itemID uuid.UUID) (types.AvatarState, error)
	Unequip(ctx context.Context, parentID, childID uuid.UUID, category string) (types.AvatarState, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx       txRunner
	repo     Repository
	children children.Repository
	metrics  *metrics.RewardMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams bundles the dependencies of the avatar service.
type ServiceParams struct {
	TxRunner  txRunner
	Repo      Repository
	ChildRepo children.Repository
	Metrics   *metrics.RewardMetrics
	Logger    *logger.Logger
	Clock     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("avatar repository is required")
	}
	if params.ChildRepo == nil {
		return nil, fmt.Errorf("children repository is required")
	}
	svc := &service{
		tx:       params.TxRunner,
		repo:     params.Repo,
		children: params.ChildRepo,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      params.Clock,
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

func (s *service) Shop(ctx context.Context, category string) ([]ItemDTO, error) {
	var filter *enums.ItemType
	if category = strings.TrimSpace(category); category != "" {
		itemType, err := enums.ParseItemType(category)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		filter = &itemType
	}
	items, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list avatar items")
	}
	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, itemFromModel(&items[i]))
	}
	return out, nil
}

func (s *service) ChildAvatar(ctx context.Context, parentID, childID uuid.UUID) (*ChildAvatarDTO, error) {
	child, err := children.FindOwned(ctx, s.children, parentID, childID)
	if err != nil {
		return nil, err
	}
	owned, err := s.repo.ListOwned(ctx, child.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owned items")
	}

	out := &ChildAvatarDTO{
		ChildID:       child.ID,
		EquippedItems: []ItemDTO{},
		OwnedItems:    make([]ItemDTO, 0, len(owned)),
		AvatarState:   child.AvatarState,
	}
	for _, o := range owned {
		if o.Item == nil {
			continue
		}
		item := itemFromModel(o.Item)
		out.OwnedItems = append(out.OwnedItems, item)
		if o.Equipped {
			out.EquippedItems = append(out.EquippedItems, item)
		}
	}
	return out, nil
}

// Purchase spends available stars on an item. Lifetime totals are untouched.
func (s *service) Purchase(ctx context.Context, parentID, childID, itemID uuid.UUID) error {
	child, err := children.FindOwned(ctx, s.children, parentID, childID)
	if err != nil {
		return err
	}
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, itemNotFound)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup item")
	}
	if _, err := s.repo.FindOwned(ctx, child.ID, item.ID); err == nil {
		return pkgerrors.New(pkgerrors.CodeAlreadyOwned, "item already owned")
	} else if !db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup owned item")
	}
	if child.AvailableStars < item.UnlockStars {
		return insufficientStars(item.UnlockStars, child.AvailableStars)
	}

	now := s.now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		debited, err := s.children.WithTx(tx).DebitAvailableStars(ctx, child.ID, item.UnlockStars)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit stars")
		}
		if !debited {
			return insufficientStars(item.UnlockStars, child.AvailableStars)
		}
		if err := s.repo.WithTx(tx).AddOwned(ctx, child.ID, item.ID, now); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeAlreadyOwned, "item already owned")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record purchase")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.AddStarsSpent(item.UnlockStars)
	s.metrics.IncItemPurchased(item.Type.String())
	ctx = s.logg.WithFields(ctx, map[string]any{
		"child_id": child.ID.String(),
		"item_id":  item.ID.String(),
		"cost":     item.UnlockStars,
	})
	s.logg.Info(ctx, "avatar item purchased")
	return nil
}

func insufficientStars(required, available int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStars, notEnoughStars).
		WithDetails(InsufficientStarsDetails{Required: required, Available: available})
}

// Equip wears an owned item, replacing whatever was worn in the same slot.
func (s *service) Equip(ctx context.Context, parentID, childID, itemID uuid.UUID) (types.AvatarState, error) {
	child, err := children.FindOwned(ctx, s.children, parentID, childID)
	if err != nil {
		return types.AvatarState{}, err
	}
	owned, err := s.repo.FindOwned(ctx, child.ID, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return types.AvatarState{}, pkgerrors.New(pkgerrors.CodeNotFound, itemNotOwned)
		}
		return types.AvatarState{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup owned item")
	}
	if owned.Item == nil {
		return types.AvatarState{}, pkgerrors.New(pkgerrors.CodeNotFound, itemNotFound)
	}
	itemType := owned.Item.Type

	var state types.AvatarState
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		childRepo := s.children.WithTx(tx)
		current, err := childRepo.AvatarStateForUpdate(ctx, child.ID)
		if err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)
		if err := repo.UnequipType(ctx, child.ID, itemType); err != nil {
			return err
		}
		if err := repo.MarkEquipped(ctx, owned.ID); err != nil {
			return err
		}
		current.Set(itemType, owned.ItemID)
		state = current
		return childRepo.UpdateAvatarState(ctx, child.ID, state)
	})
	if err != nil {
		return types.AvatarState{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "equip item")
	}
	return state, nil
}

// Unequip empties the slot for category.
func (s *service) Unequip(ctx context.Context, parentID, childID uuid.UUID, category string) (types.AvatarState, error) {
	itemType, err := enums.ParseItemType(strings.TrimSpace(category))
	if err != nil {
		return types.AvatarState{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	child, err := children.FindOwned(ctx, s.children, parentID, childID)
	if err != nil {
		return types.AvatarState{}, err
	}

	var state types.AvatarState
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		childRepo := s.children.WithTx(tx)
		current, err := childRepo.AvatarStateForUpdate(ctx, child.ID)
		if err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).UnequipType(ctx, child.ID, itemType); err != nil {
			return err
		}
		current.Clear(itemType)
		state = current
		return childRepo.UpdateAvatarState(ctx, child.ID, state)
	})
	if err != nil {
		return types.AvatarState{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unequip item")
	}
	return state, nil
}
