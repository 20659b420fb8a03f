package object

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestObjectKeyShape(t *testing.T) {
	key, err := ObjectKey("registrations/abc/idCard", "my id.pdf")
	if err != nil {
		t.Fatalf("ObjectKey: %v", err)
	}
	if !strings.HasPrefix(key, "registrations/abc/idCard/") {
		t.Fatalf("key missing folder prefix: %s", key)
	}
	base := key[strings.LastIndex(key, "/")+1:]
	if !regexp.MustCompile(`^\d+-[0-9a-f]{8}-my_id\.pdf$`).MatchString(base) {
		t.Fatalf("unexpected key basename: %s", base)
	}
}

func TestObjectKeyUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		key, err := ObjectKey("f", "a.pdf")
		if err != nil {
			t.Fatalf("ObjectKey: %v", err)
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key generated: %s", key)
		}
		seen[key] = struct{}{}
	}
}

func TestObjectKeyRejectsTraversal(t *testing.T) {
	if _, err := ObjectKey("f", "../evil.pdf"); err == nil {
		t.Fatal("expected error for traversal name")
	}
}

type fakeStore struct {
	mu       sync.Mutex
	uploads  []string
	deleted  []string
	failName string
	failKeys map[string]bool
}

func (f *fakeStore) Upload(ctx context.Context, folder string, in FileInput) (UploadedFile, error) {
	if in.OriginalName == f.failName {
		return UploadedFile{}, errors.New("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, in.OriginalName)
	return UploadedFile{Key: folder + "/" + in.OriginalName, OriginalName: in.OriginalName}, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	if f.failKeys[key] {
		return fmt.Errorf("delete %s failed", key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) Head(ctx context.Context, key string) (ObjectInfo, error) {
	return ObjectInfo{Key: key}, nil
}

func (f *fakeStore) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://signed/" + key, nil
}

func TestUploadManyAllOrNothing(t *testing.T) {
	store := &fakeStore{}
	ins := []FileInput{{OriginalName: "a.pdf"}, {OriginalName: "b.pdf"}}
	out, err := UploadMany(context.Background(), store, "folder", ins)
	if err != nil {
		t.Fatalf("UploadMany: %v", err)
	}
	if len(out) != 2 || out[0].OriginalName != "a.pdf" || out[1].OriginalName != "b.pdf" {
		t.Fatalf("results out of order: %+v", out)
	}

	store = &fakeStore{failName: "b.pdf"}
	if _, err := UploadMany(context.Background(), store, "folder", ins); err == nil {
		t.Fatal("expected aggregate error")
	}
}

func TestDeleteManyBestEffort(t *testing.T) {
	store := &fakeStore{failKeys: map[string]bool{"k2": true}}
	err := DeleteMany(context.Background(), store, []string{"k1", "k2", "k3"})
	if err == nil {
		t.Fatal("expected aggregate error")
	}
	if !strings.Contains(err.Error(), "k2") {
		t.Fatalf("error should name failed key: %v", err)
	}
	if len(store.deleted) != 2 {
		t.Fatalf("expected 2 successful deletes, got %v", store.deleted)
	}
}
