// internal/auth/middleware.go
//
// JWT issuing and request authentication.
//   - Tokens are HS256 JWTs carrying id/username, read from an
//     "Authorization: Bearer" header or the auth cookie.
//   - Optional decorates requests with the user when a valid token is present;
//     Require rejects requests without one.
//   - Guests get a stable anonymous ID cookie so their games have an owner.

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrInvalidToken is returned for missing, malformed, or expired tokens.
var ErrInvalidToken = errors.New("invalid token")

const anonCookieName = "bagels_anon"

// Options configures an Authenticator.
type Options struct {
	Secret      string
	ExpiresDays int
	CookieName  string
	Production  bool // Secure cookies with SameSite=None
}

// Authenticator signs tokens and guards routes.
type Authenticator struct {
	users *Users
	opts  Options
}

// NewAuthenticator builds an Authenticator over users.
func NewAuthenticator(users *Users, opts Options) *Authenticator {
	if opts.ExpiresDays <= 0 {
		opts.ExpiresDays = 14
	}
	if opts.CookieName == "" {
		opts.CookieName = "bagels_token"
	}
	return &Authenticator{users: users, opts: opts}
}

// Users exposes the account repository.
func (a *Authenticator) Users() *Users { return a.users }

// Sign creates a token for the user and returns it with its expiry.
func (a *Authenticator) Sign(id, username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(time.Duration(a.opts.ExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(a.opts.Secret))
	return ss, exp, err
}

// Parse verifies a token and returns the user it names.
func (a *Authenticator) Parse(ctx context.Context, tokenStr string) (*User, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(a.opts.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return nil, ErrInvalidToken
	}
	// Ensure user still exists
	u, err := a.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return u, nil
}

// ctxUserKey is the context key type for storing *User.
type ctxUserKey struct{}

// UserFrom returns the authenticated user, or nil for guests.
func UserFrom(ctx context.Context) *User {
	u, _ := ctx.Value(ctxUserKey{}).(*User)
	return u
}

// WithUser stores u in ctx.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, u)
}

// Optional decorates requests with the user if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (a *Authenticator) Optional() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := a.bearerOrCookie(r); tok != "" {
				if u, err := a.Parse(r.Context(), tok); err == nil {
					r = r.WithContext(WithUser(r.Context(), u))
				} else {
					log.Debug().Err(err).Msg("ignoring bad token")
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Require enforces a valid JWT and injects the user into request context.
func (a *Authenticator) Require() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := a.bearerOrCookie(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			u, err := a.Parse(r.Context(), tokenStr)
			if err != nil {
				http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// Owner returns the ID that owns games started by this request: the user ID
// when logged in, otherwise the anonymous cookie ID (set if missing).
func (a *Authenticator) Owner(w http.ResponseWriter, r *http.Request) string {
	if u := UserFrom(r.Context()); u != nil {
		return UserOwner(u.ID)
	}
	return "anon:" + a.ensureAnonID(w, r)
}

// UserOwner is the owner ID for games of the user with the given ID.
func UserOwner(id string) string { return "user:" + id }

// ensureAnonID returns an existing anon cookie or sets a new one.
func (a *Authenticator) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.opts.Production,
		SameSite: a.sameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// SetCookie writes the auth token cookie.
func (a *Authenticator) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.opts.Production,
		SameSite: a.sameSite(),
		Expires:  exp,
	})
}

// ClearCookie deletes the auth token cookie.
func (a *Authenticator) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.opts.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   a.opts.Production,
		SameSite: a.sameSite(),
		MaxAge:   -1,
	})
}

func (a *Authenticator) sameSite() http.SameSite {
	if a.opts.Production {
		return http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return http.SameSiteLaxMode
}

// bearerOrCookie extracts a token from the Authorization header or auth cookie.
func (a *Authenticator) bearerOrCookie(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if c, err := r.Cookie(a.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}
