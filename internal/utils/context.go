package utils

import (
	"context"
)

type contextKey string

const ContextClaimsKey contextKey = "claims"

// Claims is the identity carried by a session token. It reflects the account
// as of token issuance.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, ContextClaimsKey, c)
}

func GetClaimsFromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(ContextClaimsKey).(Claims)
	return c, ok
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	c, ok := GetClaimsFromContext(ctx)
	if !ok || c.ID == "" {
		return "", false
	}
	return c.ID, true
}
