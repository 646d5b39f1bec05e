package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"baaisahab/backend/internal/session/domain"
)

func TestPostgresRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer db.Close()
	r := NewPostgresRepository(db)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s := &domain.Session{ID: "sid1", UserID: "u1", VersionID: "v1", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs("sid1", "u1", "v1", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := r.Create(context.Background(), s); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestPostgresRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer db.Close()
	r := NewPostgresRepository(db)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "version_id", "created_at", "updated_at"}).
		AddRow("sid1", "u1", "v1", now, now)
	mock.ExpectQuery("SELECT (.+) FROM sessions WHERE id").WithArgs("sid1").WillReturnRows(rows)

	s, err := r.GetByID(context.Background(), "sid1")
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if s == nil || s.ID != "sid1" || s.UserID != "u1" || s.VersionID != "v1" {
		t.Errorf("GetByID() = %+v, want sid1/u1/v1", s)
	}
}

func TestPostgresRepository_GetByID_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer db.Close()
	r := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "version_id", "created_at", "updated_at"})
	mock.ExpectQuery("SELECT (.+) FROM sessions WHERE id").WithArgs("nope").WillReturnRows(rows)

	s, err := r.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if s != nil {
		t.Errorf("GetByID() missing row = %+v, want nil", s)
	}
}

func TestPostgresRepository_RotateVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer db.Close()
	r := NewPostgresRepository(db)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "version_id", "created_at", "updated_at"}).
		AddRow("sid1", "u1", "v2", now, now)
	mock.ExpectQuery("UPDATE sessions SET version_id").
		WithArgs("sid1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	s, err := r.RotateVersion(context.Background(), "sid1")
	if err != nil {
		t.Fatalf("RotateVersion() error: %v", err)
	}
	if s == nil || s.VersionID != "v2" {
		t.Errorf("RotateVersion() = %+v, want version v2", s)
	}
}

func TestPostgresRepository_RotateVersion_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer db.Close()
	r := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "version_id", "created_at", "updated_at"})
	mock.ExpectQuery("UPDATE sessions SET version_id").
		WithArgs("nope", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	s, err := r.RotateVersion(context.Background(), "nope")
	if err != nil {
		t.Fatalf("RotateVersion() error: %v", err)
	}
	if s != nil {
		t.Errorf("RotateVersion() missing row = %+v, want nil", s)
	}
}

func TestPostgresRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer db.Close()
	r := NewPostgresRepository(db)

	mock.ExpectExec("DELETE FROM sessions WHERE id").WithArgs("sid1").WillReturnResult(sqlmock.NewResult(0, 1))
	removed, err := r.Delete(context.Background(), "sid1")
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if !removed {
		t.Error("Delete() = false, want true")
	}

	mock.ExpectExec("DELETE FROM sessions WHERE id").WithArgs("sid1").WillReturnResult(sqlmock.NewResult(0, 0))
	removed, err = r.Delete(context.Background(), "sid1")
	if err != nil {
		t.Fatalf("Delete() second call error: %v", err)
	}
	if removed {
		t.Error("Delete() second call = true, want false")
	}
}

func TestPostgresRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer db.Close()
	r := NewPostgresRepository(db)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "version_id", "created_at", "updated_at"}).
		AddRow("sid2", "u1", "v2", now.Add(time.Minute), now.Add(time.Minute)).
		AddRow("sid1", "u1", "v1", now, now)
	mock.ExpectQuery("SELECT (.+) FROM sessions WHERE user_id").WithArgs("u1").WillReturnRows(rows)

	list, err := r.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByUser() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListByUser() len = %d, want 2", len(list))
	}
	if list[0].ID != "sid2" || list[1].ID != "sid1" {
		t.Errorf("ListByUser() order = %s, %s; want sid2, sid1", list[0].ID, list[1].ID)
	}
}
