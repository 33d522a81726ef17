package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UploadsRoute is where disk uploads are served from.
const UploadsRoute = "/uploads"

// DiskStore saves uploaded files to a local directory.
type DiskStore struct {
	basePath string
	now      func() time.Time
}

// NewDiskStore creates the base directory if missing.
func NewDiskStore(basePath string) (*DiskStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &DiskStore{basePath: basePath, now: time.Now}, nil
}

// Dir returns the directory files are written to.
func (d *DiskStore) Dir() string {
	return d.basePath
}

func (d *DiskStore) Save(ctx context.Context, upload Upload) (Stored, error) {
	if err := ctx.Err(); err != nil {
		return Stored{}, err
	}
	name := objectName(d.now(), upload.FileName)
	target := filepath.Join(d.basePath, name)

	out, err := os.Create(target)
	if err != nil {
		return Stored{}, fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(out, upload.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(target)
		return Stored{}, fmt.Errorf("write file: %w", err)
	}
	if err := out.Close(); err != nil {
		return Stored{}, fmt.Errorf("close file: %w", err)
	}
	return Stored{Key: name, URL: UploadsRoute + "/" + name}, nil
}
