package utils // package utils provides helpers for token creation and password hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// DefaultAccessTTL is the lifetime of a session token when the caller does
// not configure one.
const DefaultAccessTTL = time.Hour

// ErrInvalidToken covers every reason a presented token is rejected:
// malformed, signed with another key or algorithm, expired, or missing
// identity claims.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the identity fields embedded in a session token.
type Claims struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AccessToken represents a signed JWT along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT carrying the user's id and
// email.  A non-positive ttl falls back to DefaultAccessTTL.
func NewAccessToken(secret string, userID uint64, email string, ttl time.Duration) (AccessToken, error) {
	return newAccessTokenAt(secret, userID, email, ttl, time.Now().UTC())
}

func newAccessTokenAt(secret string, userID uint64, email string, ttl time.Duration, now time.Time) (AccessToken, error) {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	exp := now.Add(ttl)
	claims := Claims{
		ID:    userID,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw against secret and returns its claims.  Only
// HS256 is accepted and the exp claim is required.  Any failure is reported
// as ErrInvalidToken wrapping the parser's reason.
func ParseAccessToken(secret, raw string) (Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}
	if !tok.Valid || claims.ID == 0 {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
