package registrations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"registration-backend/internal/shared/storage/object"
)

// PGRepo implements Repo using Postgres. List-valued fields live in JSONB
// columns; both array and JSON-string-encoded historical rows are normalized
// to arrays on read.
type PGRepo struct {
	DB *sql.DB
}

const registrationColumns = `
id, name, email, phone, college, department, year,
muns_participated, muns_with_awards, muns_chaired, organizing_experience,
committees, positions, files, status, submitter_ip, user_agent,
submitted_at, updated_at`

// Create inserts a new registration with server-assigned ID and timestamps.
func (r *PGRepo) Create(ctx context.Context, reg Registration) (string, error) {
	const query = `
INSERT INTO registrations (
    id, name, email, phone, college, department, year,
    muns_participated, muns_with_awards, muns_chaired, organizing_experience,
    committees, positions, files, status, submitter_ip, user_agent,
    submitted_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	now := time.Now().UTC()
	reg.ID = uuid.NewString()
	if reg.Status == "" {
		reg.Status = DefaultStatus
	}

	committees, err := json.Marshal(NormalizeStringList(reg.Committees))
	if err != nil {
		return "", fmt.Errorf("marshal committees: %w", err)
	}
	positions, err := json.Marshal(NormalizeStringList(reg.Positions))
	if err != nil {
		return "", fmt.Errorf("marshal positions: %w", err)
	}
	files, err := marshalFiles(reg.Files)
	if err != nil {
		return "", err
	}

	_, err = r.DB.ExecContext(ctx, query,
		reg.ID,
		reg.Name,
		reg.Email,
		reg.Phone,
		reg.College,
		reg.Department,
		reg.Year,
		reg.MUNsParticipated,
		reg.MUNsWithAwards,
		reg.MUNsChaired,
		reg.OrganizingExperience,
		committees,
		positions,
		files,
		reg.Status,
		reg.SubmitterIP,
		reg.UserAgent,
		now,
		now,
	)
	if err != nil {
		return "", err
	}
	return reg.ID, nil
}

// GetByID returns a registration or ErrNotFound.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Registration{}, ErrNotFound
		}
		return Registration{}, err
	}
	return reg, nil
}

// List returns the full registration set ordered by the whitelisted field.
func (r *PGRepo) List(ctx context.Context, orderBy string, desc bool) ([]Registration, error) {
	column := orderColumn(orderBy)
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	query := `SELECT ` + registrationColumns +
		` FROM registrations ORDER BY ` + column + ` ` + direction

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

// Update merges the patch into the stored row and refreshes updated_at. The
// row is read, patched in Go and written back so merge semantics stay
// identical to the in-memory repository.
func (r *PGRepo) Update(ctx context.Context, id string, patch map[string]any) error {
	reg, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := applyPatch(&reg, patch); err != nil {
		return err
	}

	const query = `
UPDATE registrations SET
    name = $2, email = $3, phone = $4, college = $5, department = $6, year = $7,
    muns_participated = $8, muns_with_awards = $9, muns_chaired = $10,
    organizing_experience = $11, committees = $12, positions = $13, files = $14,
    status = $15, updated_at = $16
WHERE id = $1`

	committees, err := json.Marshal(NormalizeStringList(reg.Committees))
	if err != nil {
		return fmt.Errorf("marshal committees: %w", err)
	}
	positions, err := json.Marshal(NormalizeStringList(reg.Positions))
	if err != nil {
		return fmt.Errorf("marshal positions: %w", err)
	}
	files, err := marshalFiles(reg.Files)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, query,
		id,
		reg.Name,
		reg.Email,
		reg.Phone,
		reg.College,
		reg.Department,
		reg.Year,
		reg.MUNsParticipated,
		reg.MUNsWithAwards,
		reg.MUNsChaired,
		reg.OrganizingExperience,
		committees,
		positions,
		files,
		reg.Status,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a registration.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByEmail returns all registrations with the given email.
func (r *PGRepo) FindByEmail(ctx context.Context, email string) ([]Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE email = $1`
	rows, err := r.DB.QueryContext(ctx, query, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

// Stats aggregates counts over the full registration set.
func (r *PGRepo) Stats(ctx context.Context) (Stats, error) {
	regs, err := r.List(ctx, "submittedAt", true)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(regs), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (Registration, error) {
	var (
		reg         Registration
		committees  []byte
		positions   []byte
		files       []byte
		submittedAt time.Time
		updatedAt   time.Time
	)
	err := row.Scan(
		&reg.ID,
		&reg.Name,
		&reg.Email,
		&reg.Phone,
		&reg.College,
		&reg.Department,
		&reg.Year,
		&reg.MUNsParticipated,
		&reg.MUNsWithAwards,
		&reg.MUNsChaired,
		&reg.OrganizingExperience,
		&committees,
		&positions,
		&files,
		&reg.Status,
		&reg.SubmitterIP,
		&reg.UserAgent,
		&submittedAt,
		&updatedAt,
	)
	if err != nil {
		return Registration{}, err
	}

	reg.Committees = NormalizeStringList(committees)
	reg.Positions = NormalizeStringList(positions)
	if len(files) > 0 {
		if err := json.Unmarshal(files, &reg.Files); err != nil {
			return Registration{}, fmt.Errorf("unmarshal files: %w", err)
		}
	}
	reg.SubmittedAt = submittedAt.UTC().Format(time.RFC3339)
	reg.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return reg, nil
}

func marshalFiles(files map[string]object.UploadedFile) ([]byte, error) {
	if files == nil {
		files = map[string]object.UploadedFile{}
	}
	data, err := json.Marshal(files)
	if err != nil {
		return nil, fmt.Errorf("marshal files: %w", err)
	}
	return data, nil
}

func orderColumn(orderBy string) string {
	switch orderBy {
	case "name":
		return "name"
	case "email":
		return "email"
	case "year":
		return "year"
	case "status":
		return "status"
	default:
		return "submitted_at"
	}
}

var _ Repo = (*PGRepo)(nil)
