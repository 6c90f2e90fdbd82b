// Package auth carries the caller's role claim through the request context.
// The claim is validated by the surrounding authorization gate before it
// reaches this module; nothing here re-derives or verifies permissions. The
// role is always an explicit context value, never ambient process state.
package auth

import (
	"context"

	"github.com/alderbrook/civicd/internal/model"
)

type roleKey struct{}

// WithRole returns a context carrying the caller's role claim.
func WithRole(ctx context.Context, role model.Role) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFrom returns the role claim on the context, if any.
func RoleFrom(ctx context.Context) (model.Role, bool) {
	role, ok := ctx.Value(roleKey{}).(model.Role)
	return role, ok
}

// CanMutate reports whether the role may perform admin mutations.
func CanMutate(role model.Role) bool {
	return role == model.RoleAdmin
}

// CanReadMembers reports whether the role may read the members collection
// and the merged identity view. The legacy site mixed admin-only and
// admin-or-member checks on these paths; the admin-or-member reading is the
// documented policy here.
func CanReadMembers(role model.Role) bool {
	return role == model.RoleAdmin || role == model.RoleMember
}
