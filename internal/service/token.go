package service

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/francot77/cashflow-fp/pkg/apierror"
)

// tokenClaims is the signed identity claim carried by every token: subject
// (user id), username, issued-at and expiry. Tokens are self-contained, so
// validity is purely a function of the signature and the clock.
type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (c *tokenClaims) userID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid token subject %q", c.Subject)
	}
	return id, nil
}

// tokenCodec signs and verifies identity claims with a process-wide HS256
// secret injected at startup. The secret is never rotated at runtime.
type tokenCodec struct {
	secret []byte
	now    func() time.Time
}

func newTokenCodec(secret string) (*tokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	return &tokenCodec{secret: []byte(secret), now: time.Now}, nil
}

func (c *tokenCodec) Encode(userID int64, username string, ttl time.Duration) (string, time.Time, error) {
	now := c.now().UTC()
	expiresAt := now.Add(ttl)

	claims := &tokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Decode verifies the signature and, when verifyExpiry is set, the expiry.
// The relaxed mode exists for a grace-period refresh window; no current
// caller uses it, refresh demands a still-valid token.
func (c *tokenCodec) Decode(token string, verifyExpiry bool) (*tokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	}
	if !verifyExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apierror.New("TOKEN_EXPIRED", "token expired", http.StatusUnauthorized)
		}
		return nil, apierror.New("TOKEN_INVALID", "token invalid", http.StatusUnauthorized)
	}
	if !parsed.Valid {
		return nil, apierror.New("TOKEN_INVALID", "token invalid", http.StatusUnauthorized)
	}

	if _, err := claims.userID(); err != nil {
		return nil, apierror.New("TOKEN_INVALID", "token invalid", http.StatusUnauthorized)
	}
	return claims, nil
}
