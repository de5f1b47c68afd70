package utils

import "context"

type contextKey string

// UserClaimsKey holds *UserClaims in fiber Locals and in the request context
const UserClaimsKey contextKey = "user_claims"

// ClaimsFromContext returns the caller attached by the auth middleware, if any
func ClaimsFromContext(ctx context.Context) (*UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*UserClaims)
	return claims, ok && claims != nil
}

// WithClaims returns ctx carrying claims
func WithClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, claims)
}
