package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/juniorgolf-backend/api/responses"
	"github.com/angelmondragon/juniorgolf-backend/internal/permissions"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
	"github.com/google/uuid"
)

// Authorizer answers permission checks for an authenticated principal.
type Authorizer interface {
	RequireAll(ctx context.Context, p permissions.Principal, required ...enums.Permission) error
	RequireAny(ctx context.Context, p permissions.Principal, candidates ...enums.Permission) error
}

// RequirePermission rejects callers whose role lacks perm.
func RequirePermission(authz Authorizer, perm enums.Permission, logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireAll(authz, logg, perm)
}

// RequireAll rejects callers missing any of the listed permissions.
func RequireAll(authz Authorizer, logg *logger.Logger, required ...enums.Permission) func(http.Handler) http.Handler {
	return guard(authz, logg, func(ctx context.Context, p permissions.Principal) error {
		return authz.RequireAll(ctx, p, required...)
	})
}

// RequireAny admits callers holding at least one of the listed permissions.
func RequireAny(authz Authorizer, logg *logger.Logger, candidates ...enums.Permission) func(http.Handler) http.Handler {
	return guard(authz, logg, func(ctx context.Context, p permissions.Principal) error {
		return authz.RequireAny(ctx, p, candidates...)
	})
}

func guard(authz Authorizer, logg *logger.Logger, check func(context.Context, permissions.Principal) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if authz == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "authorizer unavailable"))
				return
			}
			principal, err := principalFromContext(ctx)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if err := check(ctx, principal); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principalFromContext(ctx context.Context) (permissions.Principal, error) {
	roleID, err := uuid.Parse(RoleIDFromContext(ctx))
	if err != nil {
		return permissions.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing role context")
	}
	return permissions.Principal{
		RoleID:   roleID,
		RoleName: enums.RoleName(RoleFromContext(ctx)),
	}, nil
}
