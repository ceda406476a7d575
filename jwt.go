package main

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token classes. Access tokens authenticate requests; refresh tokens only
// mint new pairs. Parse does not enforce the class — callers compare
// Claims.Type against what they expect and reject with ErrInvalidToken.
const (
	tokenClassAccess  = "access"
	tokenClassRefresh = "refresh"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

// tokenService signs and verifies HS256 tokens with a process-wide secret.
// Tokens are stateless: validity is a function of signature and expiry only,
// no server-side lookup.
type tokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func newTokenService(cfg Settings) *tokenService {
	return &tokenService{
		secret:     []byte(cfg.SecretKey),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}
}

func (s *tokenService) ttl(class string) time.Duration {
	if class == tokenClassRefresh {
		return s.refreshTTL
	}
	return s.accessTTL
}

func (s *tokenService) Issue(userID uint, class string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl(class))),
		},
		Type: class,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifies signature integrity before expiry: a tampered or malformed
// token is ErrInvalidToken even if it is also past its exp.
func (s *tokenService) Parse(tokenStr string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, ErrInvalidToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, ErrInvalidToken
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// subjectID decodes the numeric user id carried in the sub claim.
func (c *tokenClaims) subjectID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
