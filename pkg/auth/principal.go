package auth

import "context"

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID string
	Email  string
}

type contextKey string

const principalContextKey contextKey = "principal"

// ContextWithPrincipal returns a new context with the given Principal attached.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext extracts the Principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}
