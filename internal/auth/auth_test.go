package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/robalobadob/bagels/internal/database"
)

func newTestAuth(t *testing.T) *Authenticator {
	t.Helper()
	db, err := database.OpenAndMigrate(database.Memory)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewAuthenticator(NewUsers(db), Options{Secret: "test-secret"})
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuth(t)

	u, err := a.Users().Create(ctx, "  alice ", "correct horse")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Username != "alice" || u.ID == "" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if _, err := a.Users().Create(ctx, "ALICE", "another password"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate err = %v", err)
	}

	got, err := a.Users().Authenticate(ctx, "Alice", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated %q, want %q", got.ID, u.ID)
	}
	if _, err := a.Users().Authenticate(ctx, "alice", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := a.Users().Authenticate(ctx, "nobody", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v", err)
	}
}

func TestValidateSignup(t *testing.T) {
	cases := []struct {
		user, pass string
		ok         bool
	}{
		{"bob", "password1", true},
		{"bo", "password1", false},
		{"bob!", "password1", false},
		{"bob", "short", false},
		{strings.Repeat("b", 25), "password1", false},
	}
	for _, tc := range cases {
		err := validateSignup(tc.user, tc.pass)
		if (err == nil) != tc.ok {
			t.Errorf("validateSignup(%q, %q) = %v", tc.user, tc.pass, err)
		}
	}
}

func TestSignAndParse(t *testing.T) {
	ctx := context.Background()
	a := newTestAuth(t)
	u, err := a.Users().Create(ctx, "carol", "password123")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	tok, exp, err := a.Sign(u.ID, u.Username)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if exp.IsZero() {
		t.Fatal("zero expiry")
	}
	got, err := a.Parse(ctx, tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("parsed %q, want %q", got.ID, u.ID)
	}

	other := NewAuthenticator(a.Users(), Options{Secret: "other-secret"})
	if _, err := other.Parse(ctx, tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign secret err = %v", err)
	}
	if _, err := a.Parse(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage err = %v", err)
	}
}

func TestRequireAndOptional(t *testing.T) {
	ctx := context.Background()
	a := newTestAuth(t)
	u, _ := a.Users().Create(ctx, "dave", "password123")
	tok, _, _ := a.Sign(u.ID, u.Username)

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if me := UserFrom(r.Context()); me != nil {
			_, _ = w.Write([]byte(me.Username))
			return
		}
		_, _ = w.Write([]byte("guest"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	a.Require()(echo).ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Require without token: status %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	a.Require()(echo).ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "dave" {
		t.Fatalf("Require with token: %d %q", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "bagels_token", Value: "not-a-jwt"})
	w = httptest.NewRecorder()
	a.Optional()(echo).ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "guest" {
		t.Fatalf("Optional with bad cookie: %d %q", w.Code, w.Body.String())
	}
}

func TestOwner(t *testing.T) {
	a := newTestAuth(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	first := a.Owner(w, r)
	if !strings.HasPrefix(first, "anon:") {
		t.Fatalf("guest owner = %q", first)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != anonCookieName {
		t.Fatalf("expected anon cookie, got %v", cookies)
	}

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookies[0])
	if again := a.Owner(httptest.NewRecorder(), r2); again != first {
		t.Fatalf("owner changed: %q vs %q", again, first)
	}

	r3 := httptest.NewRequest(http.MethodGet, "/", nil)
	r3 = r3.WithContext(WithUser(r3.Context(), &User{ID: "u1", Username: "eve"}))
	if got := a.Owner(httptest.NewRecorder(), r3); got != "user:u1" {
		t.Fatalf("user owner = %q", got)
	}
}
