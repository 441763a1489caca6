package common

import "context"

type ctxKey string

const (
	staffIDKey   ctxKey = "auth/staff-id"
	staffNameKey ctxKey = "auth/staff-name"
	staffRoleKey ctxKey = "auth/staff-role"
)

// WithStaff stores the authenticated staff identity on the context.
func WithStaff(ctx context.Context, id, name, role string) context.Context {
	ctx = context.WithValue(ctx, staffIDKey, id)
	ctx = context.WithValue(ctx, staffNameKey, name)
	return context.WithValue(ctx, staffRoleKey, role)
}

// StaffID extracts the authenticated staff identifier if present.
func StaffID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(staffIDKey).(string)
	return id, ok && id != ""
}

// StaffName extracts the authenticated staff display name if present.
func StaffName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(staffNameKey).(string)
	return name, ok && name != ""
}

// StaffRole extracts the authenticated staff role if present.
func StaffRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(staffRoleKey).(string)
	return role, ok && role != ""
}
