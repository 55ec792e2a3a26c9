package middleware

import "context"

type contextKey string

const (
	ctxAdminID contextKey = "admin_id"
	ctxEmail   contextKey = "admin_email"
	ctxRole    contextKey = "admin_role"
)

func AdminIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminID).(string); ok {
		return v
	}
	return ""
}

func EmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// WithAdmin injects the authenticated admin identity, used by tests.
func WithAdmin(ctx context.Context, adminID, email, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxAdminID, adminID)
	ctx = context.WithValue(ctx, ctxEmail, email)
	return context.WithValue(ctx, ctxRole, role)
}
