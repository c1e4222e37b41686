package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus/internal/session"
)

// TokenGate decorates the request context with the username carried by a
// valid token cookie. Requests without one pass through undecorated.
func TokenGate(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(TokenCookie)
		if err != nil || tokenStr == "" {
			c.Next()
			return
		}
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), claims.Username))
		c.Next()
	}
}

// SessionGate decorates the request context with the username of a live
// session referenced by the session cookie.
func SessionGate(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(session.CookieName)
		if err != nil || id == "" {
			c.Next()
			return
		}
		sess, err := store.Get(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.Printf("session lookup failed: %v", err)
			}
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), sess.Username))
		c.Next()
	}
}

// RequireUser redirects to loginPath unless a gate authenticated the request.
func RequireUser(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFrom(c.Request.Context()); !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
