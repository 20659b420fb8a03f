package local

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"registration-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using the local filesystem. It exists for dev
// and tests; key and URL semantics mirror the S3 store.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Upload writes the file under a generated key in the given folder.
func (s *Store) Upload(ctx context.Context, folder string, in object.FileInput) (object.UploadedFile, error) {
	if err := ctx.Err(); err != nil {
		return object.UploadedFile{}, err
	}

	storageKey, err := object.ObjectKey(folder, in.OriginalName)
	if err != nil {
		return object.UploadedFile{}, err
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(storageKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return object.UploadedFile{}, fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return object.UploadedFile{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, in.Content)
	if err != nil {
		return object.UploadedFile{}, fmt.Errorf("write body: %w", err)
	}

	return object.UploadedFile{
		Key:          storageKey,
		URL:          "file://" + fullPath,
		OriginalName: in.OriginalName,
		Size:         written,
		MimeType:     in.MimeType,
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Delete removes a stored object.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Head stats a stored object. MIME type is inferred from the extension.
func (s *Store) Head(ctx context.Context, key string) (object.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return object.ObjectInfo{}, err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return object.ObjectInfo{}, err
	}
	stat, err := os.Stat(fullPath)
	if err != nil {
		return object.ObjectInfo{}, fmt.Errorf("stat %s: %w", key, err)
	}
	return object.ObjectInfo{
		Key:      key,
		Size:     stat.Size(),
		MimeType: mime.TypeByExtension(filepath.Ext(fullPath)),
	}, nil
}

// Presign returns the file URL; local objects need no signing.
func (s *Store) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	_ = ttl
	return "file://" + fullPath, nil
}

func (s *Store) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, clean), nil
}

var _ object.ObjectStore = (*Store)(nil)
