package registrations

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo, used in dev mode and
// tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Registration
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Registration)}
}

// Create stores a new registration with server-assigned ID and timestamps.
func (r *MemoryRepo) Create(ctx context.Context, reg Registration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	reg.ID = uuid.NewString()
	reg.SubmittedAt = now
	reg.UpdatedAt = now
	if reg.Status == "" {
		reg.Status = DefaultStatus
	}
	reg.Committees = NormalizeStringList(reg.Committees)
	reg.Positions = NormalizeStringList(reg.Positions)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[reg.ID] = reg
	return reg.ID, nil
}

// GetByID returns a registration or ErrNotFound.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Registration, error) {
	if err := ctx.Err(); err != nil {
		return Registration{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.data[id]
	if !ok {
		return Registration{}, ErrNotFound
	}
	return reg, nil
}

// List returns all registrations ordered by the whitelisted field.
func (r *MemoryRepo) List(ctx context.Context, orderBy string, desc bool) ([]Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Registration, 0, len(r.data))
	for _, reg := range r.data {
		out = append(out, reg)
	}
	r.mu.RUnlock()

	key := orderKey(orderBy)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := key(out[i]), key(out[j])
		if desc {
			return a > b
		}
		return a < b
	})
	return out, nil
}

// Update merges the patch and refreshes the update timestamp.
func (r *MemoryRepo) Update(ctx context.Context, id string, patch map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	if err := applyPatch(&reg, patch); err != nil {
		return err
	}
	reg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	r.data[id] = reg
	return nil
}

// Delete removes a registration.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// FindByEmail returns all registrations with the given email.
func (r *MemoryRepo) FindByEmail(ctx context.Context, email string) ([]Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Registration
	for _, reg := range r.data {
		if reg.Email == email {
			out = append(out, reg)
		}
	}
	return out, nil
}

// Stats aggregates counts over the full registration set.
func (r *MemoryRepo) Stats(ctx context.Context) (Stats, error) {
	regs, err := r.List(ctx, "submittedAt", true)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(regs), nil
}

func orderKey(orderBy string) func(Registration) string {
	switch orderBy {
	case "name":
		return func(reg Registration) string { return strings.ToLower(reg.Name) }
	case "email":
		return func(reg Registration) string { return reg.Email }
	case "year":
		return func(reg Registration) string { return reg.Year }
	case "status":
		return func(reg Registration) string { return reg.Status }
	default:
		// RFC3339 UTC strings sort chronologically.
		return func(reg Registration) string { return reg.SubmittedAt }
	}
}

var _ Repo = (*MemoryRepo)(nil)
