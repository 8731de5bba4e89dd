package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 7, "ann@example.com", 0)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if d := time.Until(tok.Exp); d < 59*time.Minute || d > time.Hour {
		t.Fatalf("default expiry should be one hour, got %s", d)
	}
	claims, err := ParseAccessToken(testSecret, tok.Token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.ID != 7 || claims.Email != "ann@example.com" || claims.Subject != "7" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	expired, err := newAccessTokenAt(testSecret, 7, "ann@example.com", time.Hour, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	otherKey, err := NewAccessToken("other-secret", 7, "ann@example.com", time.Hour)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	claims := Claims{ID: 7, Email: "ann@example.com", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: 7}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign no exp: %v", err)
	}
	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: claims.RegisteredClaims}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign no id: %v", err)
	}

	cases := map[string]string{
		"garbage":   "not-a-token",
		"expired":   expired.Token,
		"wrong key": otherKey.Token,
		"alg none":  none,
		"hs512":     hs512,
		"no exp":    noExp,
		"no id":     noID,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseAccessToken(testSecret, raw); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
