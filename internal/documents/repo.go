package documents

import (
	"context"
	"time"

	"legaldocs-backend/internal/summarizer"
)

// Repo defines persistence operations for documents.
//
// GetByID is unscoped and reserved for the processing orchestrator, which runs
// detached from any request and holds only the document id. All caller-facing
// reads go through the owner-scoped methods.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	GetByOwner(ctx context.Context, ownerID, documentID string) (Document, error)
	ListCompleted(ctx context.Context, ownerID string, limit int) ([]Document, error)

	// MarkProcessing claims the uploaded -> processing transition via
	// compare-and-set. ErrNotClaimable when the record is already claimed or
	// terminal; ErrNotFound when it does not exist.
	MarkProcessing(ctx context.Context, documentID string) error

	// Complete and Fail write the terminal transitions. Each succeeds only
	// from the processing state.
	Complete(ctx context.Context, documentID string, summary summarizer.Summary, processedAt time.Time) error
	Fail(ctx context.Context, documentID string, errorMessage string, processedAt time.Time) error

	// Delete removes an owner's record and returns it so the caller can
	// release the stored file.
	Delete(ctx context.Context, ownerID, documentID string) (Document, error)
}
