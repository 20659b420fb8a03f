package registrations

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var pgColumns = []string{
	"id", "name", "email", "phone", "college", "department", "year",
	"muns_participated", "muns_with_awards", "muns_chaired", "organizing_experience",
	"committees", "positions", "files", "status", "submitter_ip", "user_agent",
	"submitted_at", "updated_at",
}

func pgRow(id string, committees, positions []byte) []driver.Value {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, "Asha Rao", "asha@example.com", "+91 98765 43210", "NIT Trichy", "CSE", "2nd Year",
		4, 1, 0, "yes",
		committees, positions, []byte(`{}`), "submitted", "", "",
		now, now,
	}
}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGCreateAssignsID(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO registrations").
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.Create(context.Background(), Registration{
		Name:       "Asha Rao",
		Email:      "asha@example.com",
		Committees: []string{"UNSC"},
		Positions:  []string{"Delegate"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("expected assigned ID")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM registrations WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGGetByIDNormalizesListColumns(t *testing.T) {
	repo, mock := newMockRepo(t)

	// One column stored as a plain JSON array, the other doubly encoded the
	// way older write paths left it.
	rows := sqlmock.NewRows(pgColumns).
		AddRow(pgRow("reg-1", []byte(`["UNSC","DISEC"]`), []byte(`"[\"Delegate\"]"`))...)
	mock.ExpectQuery("SELECT (.+) FROM registrations WHERE id").
		WithArgs("reg-1").
		WillReturnRows(rows)

	reg, err := repo.GetByID(context.Background(), "reg-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(reg.Committees) != 2 || reg.Committees[0] != "UNSC" {
		t.Fatalf("committees = %v", reg.Committees)
	}
	if len(reg.Positions) != 1 || reg.Positions[0] != "Delegate" {
		t.Fatalf("positions = %v", reg.Positions)
	}
	if reg.SubmittedAt != "2026-02-01T10:00:00Z" {
		t.Fatalf("submittedAt = %q", reg.SubmittedAt)
	}
}

func TestPGListUsesWhitelistedOrderColumn(t *testing.T) {
	repo, mock := newMockRepo(t)

	// An unknown order key must fall back to submitted_at, never reach SQL.
	mock.ExpectQuery("SELECT (.+) FROM registrations ORDER BY submitted_at DESC").
		WillReturnRows(sqlmock.NewRows(pgColumns))

	if _, err := repo.List(context.Background(), "submittedAt; DROP TABLE registrations", true); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGUpdateMergesPatch(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows(pgColumns).
		AddRow(pgRow("reg-1", []byte(`["UNSC"]`), []byte(`["Delegate"]`))...)
	mock.ExpectQuery("SELECT (.+) FROM registrations WHERE id").
		WithArgs("reg-1").
		WillReturnRows(rows)
	mock.ExpectExec("UPDATE registrations SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "reg-1", map[string]any{"status": "approved"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM registrations WHERE id").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
