package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chat-service/internal/config"
)

func TestSafeFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":           "report.pdf",
		"../../etc/passwd":     "passwd",
		`C:\Users\ana\a b.png`: "a_b.png",
		"   ":                  "file",
		"50%#off?.txt":         "50off.txt",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeFilename(in), in)
	}
}

func TestDiskStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)
	store.now = func() time.Time { return time.UnixMilli(1700000000123) }

	stored, err := store.Save(context.Background(), Upload{FileName: "notes.txt", Body: strings.NewReader("hello")})
	require.NoError(t, err)
	assert.Equal(t, "1700000000123-notes.txt", stored.Key)
	assert.Equal(t, "/uploads/1700000000123-notes.txt", stored.URL)

	content, err := os.ReadFile(filepath.Join(dir, stored.Key))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestDiskStore_RespectsCancelledContext(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Save(ctx, Upload{FileName: "a.txt", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	fs, err := New(context.Background(), config.StorageConfig{Driver: config.StorageDisk, UploadsDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &DiskStore{}, fs)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)

	_, err = NewDiskStore(" ")
	assert.Error(t, err)
}
