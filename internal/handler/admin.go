package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"campus/internal/accounts"
	"campus/internal/auth"
	"campus/internal/students"
)

// TokenConfig controls how the admin app signs its tokens.
type TokenConfig struct {
	SigningKey string
	Issuer     string
	TTL        time.Duration
}

type adminHandler struct {
	accounts *accounts.Service
	students students.Repository
	tokens   TokenConfig
	secure   bool
}

// NewAdminRouter serves the token-gated student admin panel.
func NewAdminRouter(opts Options, accts *accounts.Service, repo students.Repository, tokens TokenConfig) *gin.Engine {
	h := &adminHandler{accounts: accts, students: repo, tokens: tokens, secure: opts.CookieSecure}
	r := newEngine(opts)
	r.Use(auth.TokenGate(tokens.SigningKey, tokens.Issuer))

	r.GET("/", redirectTo("/login"))
	r.GET("/login", describe("POST /login with fields: username, password\n"))
	r.GET("/register", describe("POST /register with fields: username, password\n"))
	r.POST("/register", h.register)
	r.POST("/login", h.login)
	r.GET("/logout", h.logout)

	private := r.Group("/", auth.RequireUser("/login"))
	private.GET("/dashboard", h.dashboard)
	private.GET("/students", h.listStudents)
	private.GET("/students/create", describe("POST /students with fields: name, age, email\n"))
	private.POST("/students", h.createStudent)
	private.GET("/students/:id", h.showStudent)
	private.GET("/students/:id/edit", h.showStudent)
	private.POST("/students/:id", h.updateStudent)
	private.POST("/students/:id/delete", h.deleteStudent)
	return r
}

func (h *adminHandler) register(c *gin.Context) {
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

func (h *adminHandler) login(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Malformed form")
		return
	}
	cred, err := h.accounts.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		writeLoginError(c, "token", err)
		return
	}

	tok, err := auth.Issue(cred.Username, h.tokens.Issuer, h.tokens.SigningKey, h.tokens.TTL)
	if err != nil {
		log.Printf("issue token for %s failed: %v", cred.Username, err)
		loginsTotal.WithLabelValues("token", "error").Inc()
		c.String(http.StatusInternalServerError, "Login failed")
		return
	}
	loginsTotal.WithLabelValues("token", "success").Inc()
	auth.SetTokenCookie(c.Writer, tok, h.secure)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *adminHandler) logout(c *gin.Context) {
	auth.ClearTokenCookie(c.Writer, h.secure)
	c.Redirect(http.StatusFound, "/login")
}

func (h *adminHandler) dashboard(c *gin.Context) {
	user, _ := auth.UserFrom(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *adminHandler) listStudents(c *gin.Context) {
	list, err := h.students.List(c.Request.Context())
	if err != nil {
		log.Printf("list students failed: %v", err)
		c.String(http.StatusInternalServerError, "Error retrieving students")
		return
	}
	if list == nil {
		list = []students.Student{}
	}
	c.JSON(http.StatusOK, gin.H{"students": list})
}

func (h *adminHandler) createStudent(c *gin.Context) {
	p, err := studentPatch(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.students.Create(c.Request.Context(), p.Apply(students.Student{})); err != nil {
		log.Printf("create student failed: %v", err)
		c.String(http.StatusInternalServerError, "Error creating student")
		return
	}
	c.Redirect(http.StatusFound, "/students")
}

func (h *adminHandler) showStudent(c *gin.Context) {
	s, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeStudentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": s})
}

func (h *adminHandler) updateStudent(c *gin.Context) {
	p, err := studentPatch(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.students.Update(c.Request.Context(), c.Param("id"), p); err != nil {
		writeStudentError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/students")
}

func (h *adminHandler) deleteStudent(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeStudentError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/students")
}

// studentPatch reads the name, age and email form fields that were sent.
func studentPatch(c *gin.Context) (students.Patch, error) {
	var p students.Patch
	if v, ok := c.GetPostForm("name"); ok {
		p.Name = &v
	}
	if v, ok := c.GetPostForm("email"); ok {
		p.Email = &v
	}
	if v, ok := c.GetPostForm("age"); ok && strings.TrimSpace(v) != "" {
		age, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return students.Patch{}, errors.New("age must be a whole number")
		}
		p.Age = &age
	}
	return p, nil
}

func writeStudentError(c *gin.Context, err error) {
	if errors.Is(err, students.ErrNotFound) {
		c.String(http.StatusNotFound, "Student not found")
		return
	}
	log.Printf("student operation failed: %v", err)
	c.String(http.StatusInternalServerError, "Student operation failed")
}
