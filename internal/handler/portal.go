package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus/internal/accounts"
	"campus/internal/auth"
	"campus/internal/session"
)

type credentialsForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type portalHandler struct {
	accounts *accounts.Service
	sessions session.Store
	ttl      time.Duration
	secure   bool
}

// NewPortalRouter serves the session-based login demo.
func NewPortalRouter(opts Options, accts *accounts.Service, sessions session.Store, ttl time.Duration) *gin.Engine {
	h := &portalHandler{accounts: accts, sessions: sessions, ttl: ttl, secure: opts.CookieSecure}
	r := newEngine(opts)
	r.Use(auth.SessionGate(sessions))

	r.GET("/", redirectTo("/login"))
	r.GET("/login", describe("POST /login with fields: username, password\n"))
	r.GET("/register", describe("POST /register with fields: username, password\n"))
	r.POST("/register", h.register)
	r.POST("/login", h.login)
	r.GET("/logout", h.logout)

	r.GET("/dashboard", auth.RequireUser("/login"), h.dashboard)
	return r
}

func (h *portalHandler) register(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Malformed form")
		return
	}
	if _, err := h.accounts.Register(c.Request.Context(), form.Username, form.Password); err != nil {
		writeRegisterError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *portalHandler) login(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Malformed form")
		return
	}
	cred, err := h.accounts.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		writeLoginError(c, "session", err)
		return
	}

	sess, err := h.sessions.Create(c.Request.Context(), cred.Username)
	if err != nil {
		log.Printf("create session for %s failed: %v", cred.Username, err)
		loginsTotal.WithLabelValues("session", "error").Inc()
		c.String(http.StatusInternalServerError, "Login failed")
		return
	}
	loginsTotal.WithLabelValues("session", "success").Inc()
	session.SetCookie(c.Writer, sess, h.ttl, h.secure)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *portalHandler) logout(c *gin.Context) {
	if id, err := c.Cookie(session.CookieName); err == nil && id != "" {
		if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
			log.Printf("delete session failed: %v", err)
			c.String(http.StatusInternalServerError, "Error logging out")
			return
		}
	}
	session.ClearCookie(c.Writer, h.secure)
	c.Redirect(http.StatusFound, "/login")
}

func (h *portalHandler) dashboard(c *gin.Context) {
	user, _ := auth.UserFrom(c.Request.Context())
	c.String(http.StatusOK, "Welcome, %s\n", user)
}

func redirectTo(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, path)
	}
}

func describe(text string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, text)
	}
}

func writeRegisterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, accounts.ErrDuplicate):
		c.String(http.StatusConflict, "User already exists")
	case errors.Is(err, accounts.ErrMissingFields):
		c.String(http.StatusBadRequest, err.Error())
	default:
		log.Printf("register failed: %v", err)
		c.String(http.StatusInternalServerError, "Registration failed")
	}
}

func writeLoginError(c *gin.Context, flow string, err error) {
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		loginsTotal.WithLabelValues(flow, "rejected").Inc()
		c.String(http.StatusUnauthorized, "Invalid username or password")
		return
	}
	loginsTotal.WithLabelValues(flow, "error").Inc()
	log.Printf("%s login failed: %v", flow, err)
	c.String(http.StatusInternalServerError, "Login failed")
}
