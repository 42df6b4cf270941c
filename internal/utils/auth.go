package utils

import "context"

// SetUserContext sets user info into context (called by middleware)
func SetUserContext(ctx context.Context, id int64, email string, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return ctx
}

// GetUserIDFromContext retrieves userID safely
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}

// UserIDPtrFromContext is nil for anonymous requests.
func UserIDPtrFromContext(ctx context.Context) *int64 {
	id, ok := GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &id
}

func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}
