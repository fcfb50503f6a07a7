package httpx

import "context"

type ctxKey string

const (
	CtxKeyEmail  ctxKey = "email"
	CtxKeyClaims ctxKey = "claims"
)

// EmailFromContext returns the authenticated email injected by
// AuthnMiddleware, or "" when the request is unauthenticated.
func EmailFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyEmail).(string); ok {
		return v
	}
	return ""
}
