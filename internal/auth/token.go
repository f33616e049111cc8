package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/EmpoweredVote/EV-Dashboard/internal/middleware"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens. It satisfies
// middleware.TokenVerifier.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (ti *TokenIssuer) TTL() time.Duration { return ti.ttl }

// Issue signs a token carrying the account's identity as of now.
func (ti *TokenIssuer) Issue(a Admin) (string, time.Time, error) {
	now := ti.now()
	exp := now.Add(ti.ttl)

	claims := tokenClaims{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Role:  a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (ti *TokenIssuer) Verify(token string) (utils.Claims, error) {
	claims := new(tokenClaims)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ti.now),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return ti.secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return utils.Claims{}, fmt.Errorf("%w: %v", middleware.ErrTokenExpired, err)
	}
	if err != nil {
		return utils.Claims{}, err
	}

	return utils.Claims{
		ID:    claims.ID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}, nil
}
