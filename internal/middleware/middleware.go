package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
)

// TokenCookie is the cookie the session token travels in.
const TokenCookie = "token"

// ErrTokenExpired is returned by a TokenVerifier for a well-signed token past
// its expiry.
var ErrTokenExpired = errors.New("token expired")

type TokenVerifier interface {
	Verify(token string) (utils.Claims, error)
}

// RequireAuth rejects requests without a valid session token and stores the
// token's claims in the request context. The claims are trusted as issued; no
// account lookup happens here.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				apierror.Write(w, r, apierror.Unauthorized(apierror.CodeNoToken, "No token, access denied"))
				return
			}

			claims, err := verifier.Verify(token)
			if errors.Is(err, ErrTokenExpired) {
				apierror.Write(w, r, apierror.Unauthorized(apierror.CodeTokenExpired, "Token expired"))
				return
			}
			if err != nil {
				apierror.Write(w, r, apierror.Unauthorized(apierror.CodeInvalidToken, "Invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithClaims(r.Context(), claims)))
		})
	}
}

// tokenFromRequest prefers the cookie and falls back to a bearer header for
// non-browser clients.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := utils.GetClaimsFromContext(r.Context())
			if !ok || claims.ID == "" {
				apierror.Write(w, r, apierror.Unauthorized(apierror.CodeNoToken, "Unauthorized: missing user ID in context"))
				return
			}

			if _, ok := allowed[claims.Role]; !ok {
				apierror.Write(w, r, apierror.Forbidden("Forbidden: "+strings.Join(roles, " or ")+" access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
