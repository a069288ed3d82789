package evidence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"veritax.org/internal/faults"
	"veritax.org/internal/models"
)

var evidenceRows = []string{
	"id", "related_action", "hash", "storage_location", "retention_expiry", "created_at",
}

func TestPostgresCreateAssignsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("insert into evidence_records").
		WithArgs(sqlmock.AnyArg(), "urn:filing:fc-1:submission", "abc123", "evidence/2026/06/abc123.json", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepository(db)
	now := time.Now().UTC()
	rec := &models.EvidenceRecord{
		RelatedAction:   "urn:filing:fc-1:submission",
		Hash:            "abc123",
		StorageLocation: "evidence/2026/06/abc123.json",
		RetentionExpiry: now.AddDate(0, 0, 365*7),
		CreatedAt:       now,
	}
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresListByAction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("select .* from evidence_records").
		WithArgs("urn:consent:c-1:grant").
		WillReturnRows(sqlmock.NewRows(evidenceRows).
			AddRow("ev-1", "urn:consent:c-1:grant", "h1", "evidence/2026/06/h1.json", now, now).
			AddRow("ev-2", "urn:consent:c-1:grant", "h2", "evidence/2026/06/h2.json", now, now))

	repo := NewPostgresRepository(db)
	recs, err := repo.ListByAction(context.Background(), "urn:consent:c-1:grant")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "ev-1" || recs[1].Hash != "h2" {
		t.Fatalf("unexpected records %+v", recs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresFindByIDMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select .* from evidence_records where id=\\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(evidenceRows))

	repo := NewPostgresRepository(db)
	if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
