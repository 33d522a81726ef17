package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spec-kit/chat-service/internal/config"
)

// Upload is a file received from a client.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Stored describes where an upload ended up.
type Stored struct {
	Key string
	URL string
}

// FileStore persists chat attachments.
type FileStore interface {
	Save(ctx context.Context, upload Upload) (Stored, error)
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Driver {
	case config.StorageMinio:
		return NewMinioStore(ctx, cfg)
	case config.StorageDisk, "":
		return NewDiskStore(cfg.UploadsDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// objectName returns "<unix millis>-<sanitised name>".
func objectName(now time.Time, original string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), safeFilename(original))
}

func safeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20, r == '/', r == '?', r == '#', r == '%':
			return -1
		}
		return r
	}, name)
}
