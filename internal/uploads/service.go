package uploads

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"campus/internal/registry"
)

var rejectedUploads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "campus_upload_rejections_total",
		Help: "Upload requests rejected by validation, by reason.",
	},
	[]string{"reason"},
)

// Service registers a person together with their uploaded files.
type Service struct {
	rules Rules
	disk  *Disk
	users registry.Repository
}

// NewService wires validation, storage and the registry.
func NewService(rules Rules, disk *Disk, users registry.Repository) *Service {
	return &Service{rules: rules, disk: disk, users: users}
}

// Rules returns the active validation rules.
func (s *Service) Rules() Rules { return s.rules }

// Register validates all files, stores them and saves the record. Either
// everything is kept or nothing is.
func (s *Service) Register(ctx context.Context, name, email string, files []*multipart.FileHeader) (registry.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return registry.User{}, s.reject(&ValidationError{Reason: ReasonMissingFields, Detail: "name and email are required"})
	}
	if err := s.rules.Validate(files); err != nil {
		return registry.User{}, s.reject(err)
	}

	stored := make([]string, 0, len(files))
	for _, fh := range files {
		saved, err := s.disk.Save(fh)
		if err != nil {
			s.discard(stored)
			return registry.User{}, fmt.Errorf("save %s: %w", fh.Filename, err)
		}
		stored = append(stored, saved)
	}

	u, err := s.users.Create(ctx, registry.User{Name: name, Email: email, Files: stored})
	if err != nil {
		s.discard(stored)
		return registry.User{}, err
	}
	return u, nil
}

// List returns every registration.
func (s *Service) List(ctx context.Context) ([]registry.User, error) {
	return s.users.List(ctx)
}

// Path resolves a stored file for download.
func (s *Service) Path(name string) (string, error) {
	return s.disk.Path(name)
}

func (s *Service) reject(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		rejectedUploads.WithLabelValues(verr.Reason).Inc()
	}
	return err
}

func (s *Service) discard(names []string) {
	for _, n := range names {
		if err := s.disk.Remove(n); err != nil {
			log.Printf("cleanup of %s failed: %v", n, err)
		}
	}
}
