package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrFileNotFound is returned for unknown or unsafe download names.
var ErrFileNotFound = errors.New("file not found")

// Disk writes uploads into a single directory.
type Disk struct {
	dir string
	now func() time.Time
}

// NewDisk creates dir if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{dir: dir, now: time.Now}, nil
}

// Dir returns the storage directory.
func (d *Disk) Dir() string { return d.dir }

// Save stores the upload as "<unix-millis>-<original name>" and returns the
// stored name.
func (d *Disk) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	base := storedBase(fh.Filename)
	stamp := d.now().UnixMilli()

	// Two uploads of the same name in one millisecond get consecutive stamps.
	for attempt := 0; attempt < 100; attempt++ {
		name := strconv.FormatInt(stamp+int64(attempt), 10) + "-" + base
		dst, err := os.OpenFile(filepath.Join(d.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			_ = os.Remove(dst.Name())
			return "", err
		}
		if err := dst.Close(); err != nil {
			_ = os.Remove(dst.Name())
			return "", err
		}
		return name, nil
	}
	return "", fmt.Errorf("no free name for %s", base)
}

// Remove deletes a stored file.
func (d *Disk) Remove(name string) error {
	p, err := d.Path(name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// Path resolves a stored name to an existing regular file.
func (d *Disk) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrFileNotFound
	}
	p := filepath.Join(d.dir, name)
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrFileNotFound
	}
	return p, nil
}

// storedBase strips any client path, Windows or POSIX, from name.
func storedBase(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	return filepath.Base(filepath.Clean("/" + name))
}
