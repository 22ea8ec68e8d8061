package middleware

import "context"

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxEmail    contextKey = "email"
	ctxRoleID   contextKey = "role_id"
	ctxRole     contextKey = "role"
	ctxParentID contextKey = "parent_id"
)

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

func EmailFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxEmail)
}

func RoleIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRoleID)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

// ParentIDFromContext returns the caller's parent profile id, set by ParentContext.
func ParentIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxParentID)
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRole injects the role identity into the context.
func WithRole(ctx context.Context, roleID, roleName string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxRoleID, roleID)
	return context.WithValue(ctx, ctxRole, roleName)
}

// WithParentID injects the parent identifier into the context for downstream handlers.
func WithParentID(ctx context.Context, parentID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxParentID, parentID)
}
