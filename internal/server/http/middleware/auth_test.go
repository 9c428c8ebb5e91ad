package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pktikkani/forecastio/internal/server/service"
)

func authedRequest(t *testing.T, tokens *service.TokenService, header string) *httptest.ResponseRecorder {
	t.Helper()

	var gotUserID int64
	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Fatal("user id missing from context")
		}
		gotUserID = id
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/customers/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK && gotUserID != 42 {
		t.Fatalf("user id = %d, want 42", gotUserID)
	}
	return rec
}

func TestAuthAcceptsRawToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	issued, err := tokens.GenerateToken(42, "a@b.test")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if rec := authedRequest(t, tokens, issued); rec.Code != http.StatusOK {
		t.Fatalf("raw token status = %d, want 200", rec.Code)
	}
}

func TestAuthAcceptsBearerPrefix(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	issued, err := tokens.GenerateToken(42, "a@b.test")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if rec := authedRequest(t, tokens, "Bearer "+issued); rec.Code != http.StatusOK {
		t.Fatalf("bearer token status = %d, want 200", rec.Code)
	}
}

func TestAuthRejectsMissingAndBogusTokens(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)

	if rec := authedRequest(t, tokens, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header status = %d, want 401", rec.Code)
	}
	if rec := authedRequest(t, tokens, "not-a-jwt"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bogus token status = %d, want 401", rec.Code)
	}
}
