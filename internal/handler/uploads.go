package handler

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus/internal/registry"
	"campus/internal/uploads"
)

type uploadsHandler struct {
	svc *uploads.Service
}

// NewUploadsRouter serves the registration-with-files app.
func NewUploadsRouter(opts Options, svc *uploads.Service) *gin.Engine {
	h := &uploadsHandler{svc: svc}
	r := newEngine(opts)
	r.GET("/", h.form)
	r.POST("/register", h.register)
	r.GET("/files", h.files)
	r.GET("/download/:filename", h.download)
	return r
}

func (h *uploadsHandler) form(c *gin.Context) {
	rules := h.svc.Rules()
	c.String(http.StatusOK,
		"POST /register as multipart/form-data with fields: name, email, files (up to %d JPEG/PNG/PDF files, %d bytes each)\n",
		rules.MaxFiles, rules.MaxFileBytes)
}

func (h *uploadsHandler) register(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.svc.Rules().MaxBodyBytes())

	var files []*multipart.FileHeader
	form, err := c.MultipartForm()
	switch {
	case err == nil:
		defer func() { _ = form.RemoveAll() }()
		files = form.File["files"]
	case errors.Is(err, http.ErrNotMultipart):
		// A plain form carries no files.
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.String(http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		c.String(http.StatusBadRequest, "Malformed upload")
		return
	}

	_, err = h.svc.Register(c.Request.Context(), c.PostForm("name"), c.PostForm("email"), files)
	if err != nil {
		var verr *uploads.ValidationError
		switch {
		case errors.As(err, &verr):
			c.String(http.StatusBadRequest, verr.Error())
		case errors.Is(err, registry.ErrDuplicate):
			c.String(http.StatusConflict, err.Error())
		default:
			log.Printf("registration failed: %v", err)
			c.String(http.StatusInternalServerError, "Registration failed")
		}
		return
	}
	c.String(http.StatusOK, "User registered successfully")
}

type fileListing struct {
	Name  string   `json:"name"`
	Files []string `json:"files"`
}

func (h *uploadsHandler) files(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		log.Printf("list registrations failed: %v", err)
		c.String(http.StatusInternalServerError, "Error retrieving files")
		return
	}
	out := make([]fileListing, 0, len(users))
	for _, u := range users {
		files := u.Files
		if files == nil {
			files = []string{}
		}
		out = append(out, fileListing{Name: u.Name, Files: files})
	}
	c.JSON(http.StatusOK, out)
}

func (h *uploadsHandler) download(c *gin.Context) {
	name := c.Param("filename")
	path, err := h.svc.Path(name)
	if err != nil {
		c.String(http.StatusNotFound, "File not found")
		return
	}
	c.FileAttachment(path, name)
}
