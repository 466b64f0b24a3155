// Package auth signs the admin in, tracks the session token and guards the
// admin console.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/portfolio-site-backend/errs"
)

const issuer = "portfolio-site"

// TokenService signs and verifies session tokens with HS256.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errs.NewConfigError("SESSION_SECRET", errors.New("secret must be at least 16 characters"))
	}
	return &TokenService{secret: []byte(secret)}, nil
}

type Claims struct {
	jwt.RegisteredClaims
}

// Generate signs a token for subject whose jti is sessionID.
func (s *TokenService) Generate(sessionID, subject string, issuedAt time.Time, ttl time.Duration) (string, error) {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("signing session token", err)
	}
	return signed, nil
}

// Validate returns the token's claims. Expired tokens still return their
// claims alongside the expired error so the session id can be reported.
func (s *TokenService) Validate(tokenStr string, now time.Time) (*Claims, error) {
	if tokenStr == "" {
		return nil, errs.NewMissingTokenError()
	}

	c := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenStr,
		c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return c, errs.NewExpiredTokenError()
	case err != nil:
		return nil, errs.NewInvalidTokenError(err)
	case c.ID == "" || c.Subject == "":
		return nil, errs.NewInvalidTokenError(errors.New("token has no session id"))
	}
	return c, nil
}
