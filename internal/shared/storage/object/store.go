package object

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"registration-backend/internal/shared/telemetry"
	"registration-backend/internal/shared/util"
)

// UploadedFile describes a stored attachment as persisted on a registration.
type UploadedFile struct {
	Key          string `json:"key"`
	URL          string `json:"url"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
	UploadedAt   string `json:"uploadedAt"`
}

// FileInput carries one file to be uploaded.
type FileInput struct {
	OriginalName string
	MimeType     string
	Size         int64
	Content      io.Reader
}

// ObjectInfo is the metadata of a stored object.
type ObjectInfo struct {
	Key      string
	Size     int64
	MimeType string
}

// ObjectStore is the contract for persisting and releasing binary attachments.
// Transport failures are wrapped with the backend operation so callers can log
// the vendor cause while returning a generic message.
type ObjectStore interface {
	Upload(ctx context.Context, folder string, in FileInput) (UploadedFile, error)
	Delete(ctx context.Context, key string) error
	Head(ctx context.Context, key string) (ObjectInfo, error)
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// UploadMany uploads all files in parallel. Any single failure surfaces as one
// aggregate error; objects already written are not rolled back here — the
// caller owns compensation.
func UploadMany(ctx context.Context, store ObjectStore, folder string, ins []FileInput) ([]UploadedFile, error) {
	out := make([]UploadedFile, len(ins))
	g, gctx := errgroup.WithContext(ctx)
	for i, in := range ins {
		g.Go(func() error {
			uploaded, err := store.Upload(gctx, folder, in)
			if err != nil {
				return fmt.Errorf("upload %s: %w", in.OriginalName, err)
			}
			out[i] = uploaded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteMany deletes all keys in parallel, best-effort. Every key is attempted
// regardless of other failures; failed keys are logged and reported in one
// aggregate error.
func DeleteMany(ctx context.Context, store ObjectStore, keys []string) error {
	var g errgroup.Group
	failed := make([]error, len(keys))
	for i, key := range keys {
		g.Go(func() error {
			if err := store.Delete(ctx, key); err != nil {
				telemetry.Warn("object.delete.failed", map[string]any{
					"key": key,
					"err": err.Error(),
				})
				failed[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	var msgs []string
	for i, err := range failed {
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("%s: %v", keys[i], err))
		}
	}
	if len(msgs) > 0 {
		return fmt.Errorf("delete objects: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// ObjectKey builds a collision-resistant key under the given folder:
// {folder}/{unixMillis}-{token}-{sanitizedName}. Token entropy is the
// collision guard; keys are never checked against the store.
func ObjectKey(folder, originalName string) (string, error) {
	sanitized, err := util.SanitizeFileName(originalName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	name := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), randomToken(), sanitized)
	return path.Join(strings.Trim(folder, "/"), name), nil
}

func randomToken() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%08x", time.Now().UnixNano()&0xffffffff)
	}
	return hex.EncodeToString(b[:])
}
