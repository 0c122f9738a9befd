package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/auth"
)

func adminTestHandler(t *testing.T, wantID string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, ok := AdminFromContext(r.Context())
		if !ok {
			t.Fatal("admin missing from context")
		}
		if admin.ID != wantID {
			t.Fatalf("admin id = %s, want %s", admin.ID, wantID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminAuthAllowsValidToken(t *testing.T) {
	manager := &auth.Manager{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "test"}
	token, err := manager.NewToken("admin-1")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	lookup := func(_ context.Context, id string) (AdminIdentity, error) {
		if id != "admin-1" {
			return AdminIdentity{}, errors.New("unknown admin")
		}
		return AdminIdentity{ID: id, Name: "Test Admin", Email: "admin@example.org"}, nil
	}

	handler := AdminAuth(manager, lookup)(adminTestHandler(t, "admin-1"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
}

func TestAdminAuthRejectsMissingToken(t *testing.T) {
	manager := &auth.Manager{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "test"}
	lookup := func(_ context.Context, _ string) (AdminIdentity, error) {
		t.Fatal("lookup should not run without a token")
		return AdminIdentity{}, nil
	}

	handler := AdminAuth(manager, lookup)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminAuthRejectsGarbageToken(t *testing.T) {
	manager := &auth.Manager{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "test"}
	lookup := func(_ context.Context, _ string) (AdminIdentity, error) {
		t.Fatal("lookup should not run for an unparseable token")
		return AdminIdentity{}, nil
	}

	handler := AdminAuth(manager, lookup)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminAuthRejectsDeletedAdmin(t *testing.T) {
	manager := &auth.Manager{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "test"}
	token, err := manager.NewToken("gone")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	lookup := func(_ context.Context, _ string) (AdminIdentity, error) {
		return AdminIdentity{}, errors.New("admin not found")
	}

	handler := AdminAuth(manager, lookup)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminAuthRejectsExpiredToken(t *testing.T) {
	manager := &auth.Manager{Secret: []byte("test-secret"), TTL: -time.Hour, Issuer: "test"}
	token, err := manager.NewToken("admin-1")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	lookup := func(_ context.Context, _ string) (AdminIdentity, error) {
		t.Fatal("lookup should not run for an expired token")
		return AdminIdentity{}, nil
	}

	handler := AdminAuth(manager, lookup)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
