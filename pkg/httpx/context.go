package httpx

import "context"

type ctxKey string

const CtxKeyUserID ctxKey = "user_id"

// WithUserID records the authenticated user id for downstream middleware
// such as per-user rate limiting.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, userID)
}

// UserIDFromContext returns the user id set by WithUserID, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyUserID).(string)
	return v, ok && v != ""
}
