package registrations

import "context"

// Repo defines persistence operations for registrations. Implementations
// assign the ID and both timestamps on Create, normalize list-valued fields to
// arrays on every read, and hand timestamps out only as RFC3339 UTC strings.
type Repo interface {
	// Create inserts a new registration and returns its assigned ID.
	Create(ctx context.Context, reg Registration) (string, error)
	// GetByID returns a registration or ErrNotFound.
	GetByID(ctx context.Context, id string) (Registration, error)
	// List returns the full ordered registration set. orderBy is restricted to
	// a known field whitelist; unknown values fall back to submission time.
	// Pagination, when needed, is the caller's concern.
	List(ctx context.Context, orderBy string, desc bool) ([]Registration, error)
	// Update merges the patch into the stored record and refreshes the update
	// timestamp. Returns ErrNotFound for unknown IDs.
	Update(ctx context.Context, id string, patch map[string]any) error
	// Delete removes a registration. Returns ErrNotFound for unknown IDs.
	Delete(ctx context.Context, id string) error
	// FindByEmail returns all registrations with the given (lower-cased) email.
	FindByEmail(ctx context.Context, email string) ([]Registration, error)
	// Stats aggregates counts over the full registration set.
	Stats(ctx context.Context) (Stats, error)
}
