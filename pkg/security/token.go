package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL applies when no TTL is configured.
const DefaultTokenTTL = 15 * time.Minute

var (
	ErrTokenMalformed = errors.New("token is malformed or has an invalid signature")
	ErrTokenExpired   = errors.New("token is expired")
	ErrTokenNoSubject = errors.New("token has no subject claim")
)

// TokenIssuer signs and verifies the bearer tokens handed out on login.
// Tokens are stateless, validity depends only on the signature and the
// embedded expiry. There is no revocation.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenIssuer{
		secret: secret,
		ttl:    ttl,
	}
}

// Issue signs a token carrying subject and an expiry of now plus the
// configured TTL.
func (t *TokenIssuer) Issue(subject string) (string, error) {
	return t.IssueWithTTL(subject, t.ttl)
}

func (t *TokenIssuer) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := time.Now()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	return tok.SignedString(t.secret)
}

// Validate checks the signature and expiry of tokenStr and returns the
// embedded subject. The three failure modes are kept apart for logging, the
// HTTP layer collapses them all into one unauthorized response.
func (t *TokenIssuer) Validate(tokenStr string) (subject string, err error) {
	claims := &jwt.RegisteredClaims{}

	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}

		return "", ErrTokenMalformed
	}

	if !tok.Valid {
		return "", ErrTokenMalformed
	}

	if claims.Subject == "" {
		return "", ErrTokenNoSubject
	}

	return claims.Subject, nil
}
