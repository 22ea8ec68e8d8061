package auth

import (
	"context"

	"github.com/angelmondragon/juniorgolf-backend/internal/users"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return users.FromModel(user), nil
}

// UpdateProfile changes the account email, keeping it unique.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Email == nil {
		return users.FromModel(user), nil
	}

	email := normalizeEmail(*req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
	}
	if email == user.Email {
		return users.FromModel(user), nil
	}

	taken, err := s.users.EmailTaken(ctx, email, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
	}
	if err := s.users.UpdateEmail(ctx, user.ID, email); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update email")
	}
	user.Email = email
	return users.FromModel(user), nil
}

// ChangePassword replaces the password and signs the user out everywhere.
func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	valid, err := security.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if err := security.CheckPasswordStrength(req.NewPassword); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	now := s.now().UTC()
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
		}
		if _, err := s.tokens.WithTx(tx).RevokeAllForUser(ctx, user.ID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke refresh tokens")
		}
		return nil
	})
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	return user, nil
}
