package uploads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"campus/internal/registry"
)

func newService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	d, err := NewDisk(dir)
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}
	return NewService(DefaultRules(), d, registry.NewMemoryRepository()), dir
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	return len(entries)
}

func TestServiceRegister(t *testing.T) {
	svc, dir := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Ann", "ann@example.com", fileHeaders(t,
		part{"a.png", "image/png", pngBytes},
		part{"b.pdf", "application/pdf", pdfBytes},
	))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(u.Files) != 2 {
		t.Fatalf("files = %v", u.Files)
	}
	for _, f := range u.Files {
		if _, err := svc.Path(f); err != nil {
			t.Errorf("stored file %s missing: %v", f, err)
		}
	}
	if n := countFiles(t, dir); n != 2 {
		t.Errorf("dir has %d files, want 2", n)
	}

	users, err := svc.List(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("list = %v, %v", users, err)
	}
}

func TestServiceRejectsWithoutWriting(t *testing.T) {
	svc, dir := newService(t)
	_, err := svc.Register(context.Background(), "Ann", "ann@example.com", fileHeaders(t,
		part{"a.png", "image/png", pngBytes},
		part{"b.txt", "text/plain", []byte("hello")},
	))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Errorf("rejected upload left %d files", n)
	}
}

func TestServiceDuplicateEmailDiscardsFiles(t *testing.T) {
	svc, dir := newService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "Ann", "ann@example.com", nil); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "Ann Again", "ann@example.com", fileHeaders(t, part{"a.png", "image/png", pngBytes}))
	if !errors.Is(err, registry.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Errorf("failed registration left %d files", n)
	}
}

func TestServiceRequiresNameAndEmail(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Register(context.Background(), " ", "ann@example.com", nil)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Reason != ReasonMissingFields {
		t.Errorf("err = %v, want missing_fields", err)
	}
}

func TestRejectCountsWrappedValidationErrors(t *testing.T) {
	svc, _ := newService(t)
	counter := rejectedUploads.WithLabelValues(ReasonExtension)
	before := testutil.ToFloat64(counter)

	err := svc.reject(fmt.Errorf("file 2: %w", &ValidationError{Reason: ReasonExtension, File: "x.sh"}))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("reject changed the error: %v", err)
	}
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("counter moved by %v, want 1", got)
	}

	_ = svc.reject(errors.New("disk full"))
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("non-validation error counted: moved by %v", got)
	}
}
