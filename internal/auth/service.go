package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/internal/parents"
	"github.com/angelmondragon/juniorgolf-backend/internal/permissions"
	"github.com/angelmondragon/juniorgolf-backend/internal/users"
	pkgAuth "github.com/angelmondragon/juniorgolf-backend/pkg/auth"
	"github.com/angelmondragon/juniorgolf-backend/pkg/config"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
	"github.com/angelmondragon/juniorgolf-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	invalidRefreshMessage     = "invalid or expired refresh token"
	// hashed once at startup and compared against when no account matches
	unknownAccountSecret = "juniorgolf-unknown-account"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string)
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error
	SetPin(ctx context.Context, userID uuid.UUID, pin string) error
	VerifyPin(ctx context.Context, userID uuid.UUID, pin string) error
	ChangePin(ctx context.Context, userID uuid.UUID, req ChangePinRequest) error
	PinStatus(ctx context.Context, userID uuid.UUID) (*PinStatus, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx          txRunner
	users       users.Repository
	parents     parents.Repository
	roles       permissions.Repository
	tokens      TokenRepository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time

	dummyHash      string
	verifyPassword func(password, encoded string) (bool, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	TxRunner       txRunner
	UserRepo       users.Repository
	ParentRepo     parents.Repository
	RoleRepo       permissions.Repository
	TokenRepo      TokenRepository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
	Clock          func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.ParentRepo == nil {
		return nil, fmt.Errorf("parent repository is required")
	}
	if params.RoleRepo == nil {
		return nil, fmt.Errorf("role repository is required")
	}
	if params.TokenRepo == nil {
		return nil, fmt.Errorf("refresh token repository is required")
	}
	if params.JWTConfig.AccessTokenTTL() <= 0 || params.JWTConfig.RefreshTokenTTL() <= 0 {
		return nil, fmt.Errorf("token ttls must be positive")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	dummyHash, err := security.HashPassword(unknownAccountSecret, params.PasswordConfig)
	if err != nil {
		return nil, fmt.Errorf("prepare login hash: %w", err)
	}
	return &service{
		tx:          params.TxRunner,
		users:       params.UserRepo,
		parents:     params.ParentRepo,
		roles:       params.RoleRepo,
		tokens:      params.TokenRepo,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
		now:         clock,

		dummyHash:      dummyHash,
		verifyPassword: security.VerifyPassword,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update last login")
	}
	user.LastLoginAt = &now

	tokens, err := s.issueTokens(ctx, s.tokens, user, now)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: users.FromModel(user), Tokens: *tokens}, nil
}

// Refresh redeems a refresh token exactly once and returns a new pair.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	raw := strings.TrimSpace(refreshToken)
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidRefreshToken, invalidRefreshMessage)
	}
	hash := security.HashRefreshToken(raw, s.jwtCfg.RefreshPepper())
	now := s.now().UTC()

	var pair *TokenPair
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		tokens := s.tokens.WithTx(tx)
		stored, err := tokens.FindByHash(ctx, hash)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeInvalidRefreshToken, invalidRefreshMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup refresh token")
		}
		if stored.RevokedAt != nil || !now.Before(stored.ExpiresAt) {
			return pkgerrors.New(pkgerrors.CodeInvalidRefreshToken, invalidRefreshMessage)
		}

		user, err := s.users.WithTx(tx).FindByID(ctx, stored.UserID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeInvalidRefreshToken, invalidRefreshMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
		}
		if !user.IsActive {
			return pkgerrors.New(pkgerrors.CodeInvalidRefreshToken, invalidRefreshMessage)
		}

		revoked, err := tokens.Revoke(ctx, stored.ID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke refresh token")
		}
		if !revoked {
			return pkgerrors.New(pkgerrors.CodeInvalidRefreshToken, invalidRefreshMessage)
		}

		pair, err = s.issueTokens(ctx, tokens, user, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the presented token. Unknown or already revoked tokens are ignored.
func (s *service) Logout(ctx context.Context, refreshToken string) {
	raw := strings.TrimSpace(refreshToken)
	if raw == "" {
		return
	}
	hash := security.HashRefreshToken(raw, s.jwtCfg.RefreshPepper())
	if _, err := s.tokens.RevokeByHash(ctx, hash, s.now()); err != nil && s.logg != nil {
		s.logg.Error(ctx, "auth.logout.revoke_failed", err)
	}
}

func (s *service) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.tokens.RevokeAllForUser(ctx, userID, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke refresh tokens")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := normalizeEmail(email)
	if input == "" {
		s.rejectUnknown(password)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if db.IsNotFound(err) {
			s.rejectUnknown(password)
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	valid, err := s.verifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

// rejectUnknown spends one bcrypt comparison so a missing account costs the
// same as a wrong password.
func (s *service) rejectUnknown(password string) {
	_, _ = s.verifyPassword(password, s.dummyHash)
}

// issueTokens mints an access token and persists a fresh refresh token through tokens.
func (s *service) issueTokens(ctx context.Context, tokens TokenRepository, user *models.User, now time.Time) (*TokenPair, error) {
	if user.Role == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user role not loaded")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID:   user.ID,
		Email:    user.Email,
		RoleID:   user.Role.ID,
		RoleName: enums.RoleName(user.Role.Name),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	refreshToken, err := security.GenerateRefreshToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate refresh token")
	}
	record := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: security.HashRefreshToken(refreshToken, s.jwtCfg.RefreshPepper()),
		ExpiresAt: now.Add(s.jwtCfg.RefreshTokenTTL()),
	}
	if err := tokens.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtCfg.AccessTokenTTL().Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
