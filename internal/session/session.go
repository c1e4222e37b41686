// Package session keeps server-side login state keyed by an opaque cookie id.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// CookieName is the cookie carrying the session id.
const CookieName = "sid"

// DefaultTTL is how long a session lives after login.
const DefaultTTL = time.Hour

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is the state stored for a logged-in user.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists sessions.
type Store interface {
	Create(ctx context.Context, username string) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// SetCookie writes the session cookie with a max age matching ttl.
func SetCookie(w http.ResponseWriter, s Session, ttl time.Duration, secure bool) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
