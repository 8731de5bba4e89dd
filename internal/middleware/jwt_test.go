package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticket-booking/internal/utils"
)

const testSecret = "test-secret"

func run(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, c
}

func TestJWTAuth(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "ann@example.com", 0)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusForbidden},
		{"valid", "Bearer " + tok.Token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := run(t, JWTAuth(testSecret), tc.header)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestJWTAuthSetsIdentity(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "ann@example.com", 0)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	_, c := run(t, JWTAuth(testSecret), "Bearer "+tok.Token)
	if id, ok := UserID(c); !ok || id != 7 {
		t.Fatalf("expected user 7, got %d (%v)", id, ok)
	}
	if email, _ := c.Get(CtxEmail).(string); email != "ann@example.com" {
		t.Fatalf("unexpected email %q", email)
	}
	if got := currentUserID(c); got != "7" {
		t.Fatalf("rate limit identity: got %q", got)
	}
}

func TestOptionalJWT(t *testing.T) {
	rec, c := run(t, OptionalJWT(testSecret), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous request: expected 200, got %d", rec.Code)
	}
	if _, ok := UserID(c); ok {
		t.Fatalf("anonymous request must carry no identity")
	}
	if got := currentUserID(c); got != "anon" {
		t.Fatalf("rate limit identity: got %q", got)
	}

	rec, _ = run(t, OptionalJWT(testSecret), "Bearer nope")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("invalid token: expected 403, got %d", rec.Code)
	}
}
