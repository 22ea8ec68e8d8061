package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/juniorgolf-backend/api/responses"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
	"github.com/google/uuid"
)

// ParentResolver finds the parent profile owned by a user.
type ParentResolver interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Parent, error)
}

// ParentContext resolves the caller's parent profile once per request and
// stores its id for ownership-scoped handlers.
func ParentContext(resolver ParentResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if resolver == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parent resolver unavailable"))
				return
			}
			userID, err := uuid.Parse(UserIDFromContext(ctx))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context"))
				return
			}

			parent, err := resolver.FindByUserID(ctx, userID)
			if err != nil {
				if db.IsNotFound(err) {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "parent profile required"))
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent profile"))
				return
			}
			if parent == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "parent profile required"))
				return
			}

			ctx = WithParentID(ctx, parent.ID.String())
			if logg != nil {
				ctx = logg.WithParentID(ctx, parent.ID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
