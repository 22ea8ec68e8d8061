package auth

import (
	"context"

	"github.com/angelmondragon/juniorgolf-backend/internal/users"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const emailTakenMessage = "email already registered"

// Register opens a parent account: user, parent profile and first token pair in one transaction.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if err := security.CheckPasswordStrength(req.Password); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	taken, err := s.users.EmailTaken(ctx, email, uuid.Nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	now := s.now().UTC()
	var (
		user   *models.User
		tokens *TokenPair
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		role, err := s.roles.WithTx(tx).EnsureRole(ctx, enums.RoleParent, "Parent account")
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure parent role")
		}

		user, err = s.users.WithTx(tx).Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			RoleID:       role.ID,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		user.Role = role

		parent, err := s.parents.WithTx(tx).Create(ctx, user.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create parent profile")
		}
		user.Parent = parent

		tokens, err = s.issueTokens(ctx, s.tokens.WithTx(tx), user, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: users.FromModel(user), Tokens: *tokens}, nil
}
