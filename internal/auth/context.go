package auth

import "context"

type ctxKey struct{}

// UserContext is the caller resolved from a verified token.
type UserContext struct {
	UserID int64
	Role   string
}

func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func FromContext(ctx context.Context) (UserContext, bool) {
	u, ok := ctx.Value(ctxKey{}).(UserContext)
	return u, ok
}

// GetUserID returns the acting user id placed on ctx by the interceptor.
func GetUserID(ctx context.Context) (int64, bool) {
	u, ok := FromContext(ctx)
	if !ok || u.UserID <= 0 {
		return 0, false
	}
	return u.UserID, true
}
