package auth

import (
	"context"

	"github.com/angelmondragon/juniorgolf-backend/pkg/db"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/security"
	"github.com/google/uuid"
)

const (
	pinFormatMessage = "pin must be exactly 4 digits"
	pinNotSetMessage = "pin has not been set"
)

// SetPin stores the parent's first PIN. An existing PIN must be changed instead.
func (s *service) SetPin(ctx context.Context, userID uuid.UUID, pin string) error {
	if !security.IsValidPin(pin) {
		return pkgerrors.New(pkgerrors.CodeValidation, pinFormatMessage)
	}
	parent, err := s.loadParent(ctx, userID)
	if err != nil {
		return err
	}
	if parent.HasPin() {
		return pkgerrors.New(pkgerrors.CodePinAlreadySet, "pin already set")
	}

	hash, err := security.HashPin(pin, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash pin")
	}
	stored, err := s.parents.SetPinHashIfUnset(ctx, parent.ID, hash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store pin")
	}
	if !stored {
		return pkgerrors.New(pkgerrors.CodePinAlreadySet, "pin already set")
	}
	return nil
}

func (s *service) VerifyPin(ctx context.Context, userID uuid.UUID, pin string) error {
	parent, err := s.loadParent(ctx, userID)
	if err != nil {
		return err
	}
	if !parent.HasPin() {
		return pkgerrors.New(pkgerrors.CodeValidation, pinNotSetMessage)
	}
	ok, err := security.VerifyPin(pin, *parent.PinHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify pin")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeInvalidPin, "invalid pin")
	}
	return nil
}

func (s *service) ChangePin(ctx context.Context, userID uuid.UUID, req ChangePinRequest) error {
	parent, err := s.loadParent(ctx, userID)
	if err != nil {
		return err
	}
	if !parent.HasPin() {
		return pkgerrors.New(pkgerrors.CodeValidation, pinNotSetMessage)
	}
	ok, err := security.VerifyPin(req.CurrentPin, *parent.PinHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify pin")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeInvalidPin, "current pin is incorrect")
	}
	if !security.IsValidPin(req.NewPin) {
		return pkgerrors.New(pkgerrors.CodeValidation, pinFormatMessage)
	}

	hash, err := security.HashPin(req.NewPin, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash pin")
	}
	if err := s.parents.UpdatePinHash(ctx, parent.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store pin")
	}
	return nil
}

func (s *service) PinStatus(ctx context.Context, userID uuid.UUID) (*PinStatus, error) {
	parent, err := s.loadParent(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PinStatus{HasPin: parent.HasPin()}, nil
}

func (s *service) loadParent(ctx context.Context, userID uuid.UUID) (*models.Parent, error) {
	parent, err := s.parents.FindByUserID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parent profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup parent")
	}
	return parent, nil
}
