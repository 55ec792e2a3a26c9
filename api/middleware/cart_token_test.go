package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestCartTokenMintsWhenHeaderMissing(t *testing.T) {
	var seen string
	handler := CartToken(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen == "" {
		t.Fatal("expected a minted token in context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("minted token is not a uuid: %s", seen)
	}
	if echoed := resp.Header().Get("X-Cart-Token"); echoed != seen {
		t.Fatalf("header %q does not match context token %q", echoed, seen)
	}
}

func TestCartTokenKeepsValidHeader(t *testing.T) {
	token := uuid.NewString()
	var seen string
	handler := CartToken(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("X-Cart-Token", token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen != token {
		t.Fatalf("expected %s got %s", token, seen)
	}
	if echoed := resp.Header().Get("X-Cart-Token"); echoed != token {
		t.Fatalf("header should echo the presented token, got %q", echoed)
	}
}

func TestCartTokenReplacesMalformedHeader(t *testing.T) {
	var seen string
	handler := CartToken(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("X-Cart-Token", "not-a-uuid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen == "not-a-uuid" {
		t.Fatal("malformed token must not survive")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("replacement token is not a uuid: %s", seen)
	}
}
