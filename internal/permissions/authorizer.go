package permissions

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
	"github.com/angelmondragon/juniorgolf-backend/pkg/redis"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Set is the precomputed capability set of a role.
type Set map[enums.Permission]struct{}

// NewSet builds a Set from raw permission names, ignoring unknown keys.
func NewSet(names ...string) Set {
	set := make(Set, len(names))
	for _, name := range names {
		perm, err := enums.ParsePermission(strings.TrimSpace(name))
		if err != nil {
			continue
		}
		set[perm] = struct{}{}
	}
	return set
}

func (s Set) Has(p enums.Permission) bool {
	_, ok := s[p]
	return ok
}

// Names returns the sorted permission keys.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p.String())
	}
	sort.Strings(out)
	return out
}

// MissingPermissionError names one permission a principal lacks.
type MissingPermissionError struct {
	Permission enums.Permission
}

func (e MissingPermissionError) Error() string {
	return "missing permission " + e.Permission.String()
}

// Principal identifies the caller being authorized.
type Principal struct {
	RoleID   uuid.UUID
	RoleName enums.RoleName
}

type permissionCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	PermissionsKey(roleID string) string
}

type roleReader interface {
	ListPermissionNames(ctx context.Context, roleID uuid.UUID) ([]string, error)
}

// Authorizer answers permission checks from a per-role cache backed by the store.
type Authorizer struct {
	repo  roleReader
	cache permissionCache
	ttl   time.Duration
	logg  *logger.Logger
}

// NewAuthorizer builds an Authorizer. cache may be nil, in which case every lookup hits the store.
func NewAuthorizer(repo roleReader, cache permissionCache, ttl time.Duration, logg *logger.Logger) (*Authorizer, error) {
	if repo == nil {
		return nil, fmt.Errorf("permissions repository required")
	}
	return &Authorizer{repo: repo, cache: cache, ttl: ttl, logg: logg}, nil
}

// PermissionsFor loads the capability set of roleID, preferring the cache.
func (a *Authorizer) PermissionsFor(ctx context.Context, roleID uuid.UUID) (Set, error) {
	key := ""
	if a.cache != nil {
		key = a.cache.PermissionsKey(roleID.String())
		raw, err := a.cache.Get(ctx, key)
		switch {
		case err == nil:
			if raw == "" {
				return Set{}, nil
			}
			return NewSet(strings.Split(raw, ",")...), nil
		case !redis.IsMiss(err):
			a.warn(ctx, "permissions.cache.get_failed", err)
		}
	}

	names, err := a.repo.ListPermissionNames(ctx, roleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role permissions")
	}
	set := NewSet(names...)

	if a.cache != nil {
		if err := a.cache.Set(ctx, key, strings.Join(set.Names(), ","), a.ttl); err != nil {
			a.warn(ctx, "permissions.cache.set_failed", err)
		}
	}
	return set, nil
}

// RequireAll fails with Forbidden naming every permission the principal lacks.
func (a *Authorizer) RequireAll(ctx context.Context, p Principal, required ...enums.Permission) error {
	if p.RoleName.IsAdmin() {
		return nil
	}
	set, err := a.PermissionsFor(ctx, p.RoleID)
	if err != nil {
		return err
	}
	if set.Has(enums.PermissionAdminAll) {
		return nil
	}

	var missing error
	for _, perm := range required {
		if !set.Has(perm) {
			missing = multierr.Append(missing, MissingPermissionError{Permission: perm})
		}
	}
	if missing == nil {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, missingMessage(missing))
}

// RequireAny fails with Forbidden unless the principal holds at least one permission.
func (a *Authorizer) RequireAny(ctx context.Context, p Principal, candidates ...enums.Permission) error {
	if p.RoleName.IsAdmin() || len(candidates) == 0 {
		return nil
	}
	set, err := a.PermissionsFor(ctx, p.RoleID)
	if err != nil {
		return err
	}
	if set.Has(enums.PermissionAdminAll) {
		return nil
	}
	for _, perm := range candidates {
		if set.Has(perm) {
			return nil
		}
	}
	names := make([]string, 0, len(candidates))
	for _, perm := range candidates {
		names = append(names, perm.String())
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "requires one of: "+strings.Join(names, ", "))
}

func missingMessage(err error) string {
	errs := multierr.Errors(err)
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if mp, ok := e.(MissingPermissionError); ok {
			parts = append(parts, mp.Permission.String())
		}
	}
	return "missing permissions: " + strings.Join(parts, ", ")
}

func (a *Authorizer) warn(ctx context.Context, msg string, err error) {
	if a.logg == nil {
		return
	}
	a.logg.Warn(a.logg.WithField(ctx, "error", err.Error()), msg)
}
