package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	doc := Document{
		ID:           "doc-1",
		OwnerID:      "owner-1",
		OriginalName: "lease.pdf",
		Title:        "Lease Agreement",
		MediaType:    "application/pdf",
		SizeBytes:    2048,
		StorageKey:   "owner/lease.pdf",
		Status:       StatusUploaded,
		UploadedAt:   time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.OwnerID,
			doc.OriginalName,
			sqlmock.AnyArg(), // title
			doc.MediaType,
			doc.SizeBytes,
			doc.StorageKey,
			string(StatusUploaded),
			doc.UploadedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkProcessingClaims(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE documents").
		WithArgs(string(StatusProcessing), "doc-1", string(StatusUploaded)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkProcessing(context.Background(), "doc-1"); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkProcessingAlreadyClaimed(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE documents").
		WithArgs(string(StatusProcessing), "doc-1", string(StatusUploaded)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM documents").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("processing"))

	err := repo.MarkProcessing(context.Background(), "doc-1")
	if !errors.Is(err, ErrNotClaimable) {
		t.Fatalf("expected ErrNotClaimable, got %v", err)
	}
}

func TestPGRepoMarkProcessingMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE documents").
		WithArgs(string(StatusProcessing), "ghost", string(StatusUploaded)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM documents").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	err := repo.MarkProcessing(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByOwnerScopesQuery(t *testing.T) {
	repo, mock := newMockRepo(t)
	uploadedAt := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "original_name", "title", "media_type", "size_bytes",
		"storage_key", "status", "summary", "error_message", "uploaded_at", "processed_at",
	}).AddRow(
		"doc-1", "owner-1", "lease.pdf", "Lease Agreement", "application/pdf", int64(2048),
		"owner/lease.pdf", "completed", []byte(`{"keyPoints":["a"],"tables":[],"highlights":[]}`), nil, uploadedAt, uploadedAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE owner_id").
		WithArgs("owner-1", "doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByOwner(context.Background(), "owner-1", "doc-1")
	if err != nil {
		t.Fatalf("GetByOwner: %v", err)
	}
	if doc.Summary == nil || len(doc.Summary.KeyPoints) != 1 {
		t.Fatalf("summary not decoded: %+v", doc.Summary)
	}
	if doc.ProcessedAt == nil {
		t.Fatal("processed_at not decoded")
	}
}

func TestPGRepoGetByOwnerMissingIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE owner_id").
		WithArgs("owner-2", "doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByOwner(context.Background(), "owner-2", "doc-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoCompleteRequiresProcessing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE documents").
		WithArgs(string(StatusCompleted), sqlmock.AnyArg(), sqlmock.AnyArg(), "doc-1", string(StatusProcessing)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Complete(context.Background(), "doc-1", summaryFixture(), time.Now().UTC())
	if !errors.Is(err, ErrNotClaimable) {
		t.Fatalf("expected ErrNotClaimable, got %v", err)
	}
}
