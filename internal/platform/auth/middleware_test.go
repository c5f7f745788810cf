package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func extractTo(t *testing.T, req *http.Request) *LoggedUser {
	t.Helper()
	var captured *LoggedUser
	handler := Extract()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return captured
}

func TestExtractFromQuery(t *testing.T) {
	descriptor := url.QueryEscape(`{"id":"abc123","role":"USER"}`)
	req := httptest.NewRequest(http.MethodGet, "/v1/user?loggedUser="+descriptor, nil)

	user := extractTo(t, req)
	if user == nil {
		t.Fatal("expected logged user in context")
	}
	if user.ID != "abc123" || user.Role != "USER" {
		t.Fatalf("unexpected descriptor: %+v", user)
	}
}

func TestExtractFromBody(t *testing.T) {
	body := `{"fullName":"John Doe","loggedUser":{"id":"abc123","role":"ADMIN","extraUserData":{"apps":["gfw"]}}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/user", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	user := extractTo(t, req)
	if user == nil {
		t.Fatal("expected logged user in context")
	}
	if !user.IsAdmin() {
		t.Fatalf("expected admin descriptor, got %+v", user)
	}
}

func TestExtractBodyOverridesQuery(t *testing.T) {
	descriptor := url.QueryEscape(`{"id":"from-query","role":"USER"}`)
	body := `{"loggedUser":{"id":"from-body"}}`
	req := httptest.NewRequest(http.MethodPatch, "/v1/user/x?loggedUser="+descriptor, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	user := extractTo(t, req)
	if user == nil {
		t.Fatal("expected logged user in context")
	}
	if user.ID != "from-body" {
		t.Fatalf("expected body id to win, got %q", user.ID)
	}
	if user.Role != "USER" {
		t.Fatalf("expected query role to survive overlay, got %q", user.Role)
	}
}

func TestExtractRestoresBodyForDownstream(t *testing.T) {
	body := `{"fullName":"John Doe","loggedUser":{"id":"abc123"}}`
	var seen string
	handler := Extract()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, len(body))
		n, _ := r.Body.Read(buf)
		seen = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/user", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != body {
		t.Fatalf("expected body to be restored for downstream, got %q", seen)
	}
}

func TestExtractMissingDescriptor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/user", nil)
	if user := extractTo(t, req); user != nil {
		t.Fatalf("expected no descriptor, got %+v", user)
	}
}

func TestRequire(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/user", nil)
	if _, err := Require(req.Context()); err == nil {
		t.Fatal("expected ErrNoUser for empty context")
	}

	ctx := WithUser(req.Context(), TestUser("abc123"))
	user, err := Require(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "abc123" {
		t.Fatalf("unexpected id %q", user.ID)
	}
}
