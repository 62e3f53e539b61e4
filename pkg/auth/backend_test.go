package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPBackendLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var creds Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != "a@b.c" {
			t.Errorf("unexpected credentials: %+v", creds)
		}

		json.NewEncoder(w).Encode(Grant{
			User:   User{ID: "u1", Email: creds.Email},
			Tokens: Tokens{Access: "acc"},
		})
	}))
	defer srv.Close()

	backend := NewHTTPBackend(srv.URL)
	grant, err := backend.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if grant.User.ID != "u1" || grant.Tokens.Access != "acc" {
		t.Errorf("unexpected grant: %+v", grant)
	}
}

func TestHTTPBackendErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
	}))
	defer srv.Close()

	backend := NewHTTPBackend(srv.URL)
	_, err := backend.Login(context.Background(), Credentials{})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "auth: bad credentials" {
		t.Errorf("expected backend message surfaced, got %q", err.Error())
	}
}

func TestHTTPBackendStatusFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	backend := NewHTTPBackend(srv.URL)
	err := backend.RequestVerificationCode(context.Background(), "a@b.c")
	if err == nil {
		t.Fatal("expected error for non-2xx without message body")
	}
}

func TestHTTPBackendCurrentUserBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer acc" {
			t.Errorf("expected bearer token, got %q", got)
		}
		json.NewEncoder(w).Encode(User{ID: "u1"})
	}))
	defer srv.Close()

	backend := NewHTTPBackend(srv.URL)
	user, err := backend.CurrentUser(context.Background(), Tokens{Access: "acc"})
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("unexpected user: %+v", user)
	}
}
