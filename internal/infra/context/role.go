package context

import (
	"context"

	"github.com/mkrupp/shopcase/internal/domain"
)

const contextKeyRole = contextKey("role")

// RoleFromContext extracts the authenticated user's role from the context.
// Returns the role and true if present, or empty role and false if not present.
func RoleFromContext(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(contextKeyRole).(domain.Role)

	return role, ok
}

// WithRole creates a new context carrying the given role value.
// This context can be used to guard routes for the remainder of a request.
func WithRole(ctx context.Context, role domain.Role) context.Context {
	return context.WithValue(ctx, contextKeyRole, role)
}
