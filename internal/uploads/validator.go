// Package uploads validates multipart uploads, writes them to disk and
// records who uploaded what.
package uploads

import (
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Rejection reasons, also used as metric labels.
const (
	ReasonTooManyFiles  = "too_many_files"
	ReasonExtension     = "extension"
	ReasonContentType   = "content_type"
	ReasonContent       = "content"
	ReasonSize          = "size"
	ReasonMissingFields = "missing_fields"
	ReasonUnreadable    = "unreadable"
)

// ValidationError rejects a whole upload request.
type ValidationError struct {
	Reason string
	File   string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.File == "" {
		return e.Detail
	}
	return fmt.Sprintf("%s: %s", e.File, e.Detail)
}

// Rules limits what an upload request may carry.
type Rules struct {
	MaxFiles     int
	MaxFileBytes int64
	Extensions   map[string]bool
	ContentTypes map[string]bool
}

// DefaultRules allows up to 5 JPEG, PNG or PDF files of at most 5 MiB each.
func DefaultRules() Rules {
	return Rules{
		MaxFiles:     5,
		MaxFileBytes: 5 * 1024 * 1024,
		Extensions: map[string]bool{
			".jpeg": true,
			".jpg":  true,
			".png":  true,
			".pdf":  true,
		},
		ContentTypes: map[string]bool{
			"image/jpeg":      true,
			"image/jpg":       true,
			"image/png":       true,
			"application/pdf": true,
		},
	}
}

// MaxBodyBytes bounds the whole request body: every file at the size limit
// plus room for the text fields and multipart framing.
func (r Rules) MaxBodyBytes() int64 {
	return int64(r.MaxFiles)*r.MaxFileBytes + 1<<20
}

// Validate checks every file and fails on the first violation.
func (r Rules) Validate(files []*multipart.FileHeader) error {
	if len(files) > r.MaxFiles {
		return &ValidationError{
			Reason: ReasonTooManyFiles,
			Detail: fmt.Sprintf("at most %d files allowed, got %d", r.MaxFiles, len(files)),
		}
	}
	for _, fh := range files {
		if err := r.validateFile(fh); err != nil {
			return err
		}
	}
	return nil
}

func (r Rules) validateFile(fh *multipart.FileHeader) error {
	name := fh.Filename
	ext := strings.ToLower(filepath.Ext(name))
	if !r.Extensions[ext] {
		return &ValidationError{Reason: ReasonExtension, File: name, Detail: "only JPEG, PNG, and PDF files are allowed"}
	}

	declared, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if err != nil || !r.ContentTypes[strings.ToLower(declared)] {
		return &ValidationError{Reason: ReasonContentType, File: name, Detail: "only JPEG, PNG, and PDF files are allowed"}
	}

	if fh.Size > r.MaxFileBytes {
		return &ValidationError{
			Reason: ReasonSize,
			File:   name,
			Detail: fmt.Sprintf("file exceeds %d bytes", r.MaxFileBytes),
		}
	}

	f, err := fh.Open()
	if err != nil {
		return &ValidationError{Reason: ReasonUnreadable, File: name, Detail: "file could not be read"}
	}
	defer f.Close()

	sniffed, err := mimetype.DetectReader(f)
	if err != nil {
		return &ValidationError{Reason: ReasonUnreadable, File: name, Detail: "file could not be read"}
	}
	for ct := range r.ContentTypes {
		if sniffed.Is(ct) {
			return nil
		}
	}
	return &ValidationError{Reason: ReasonContent, File: name, Detail: "file content is not JPEG, PNG, or PDF"}
}
