package httpapi

import (
	"context"

	"github.com/riskibarqy/bolao/internal/domain/user"
)

type contextKey string

const (
	principalContextKey contextKey = "auth_principal"
	sessionContextKey   contextKey = "auth_session_token"
)

func withPrincipal(ctx context.Context, p user.Principal, token string) context.Context {
	ctx = context.WithValue(ctx, principalContextKey, p)
	return context.WithValue(ctx, sessionContextKey, token)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(user.Principal)
	return p, ok
}

// sessionTokenFromContext returns the token RequireAuth resolved the principal from.
func sessionTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(sessionContextKey).(string)
	return token
}
