package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"legaldocs-backend/internal/summarizer"
)

// MemoryRepo stores documents in memory and is safe for concurrent use. It is
// the dev fallback when no database is configured and the test double.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Document)}
}

// Create stores the document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[doc.ID] = doc
	return nil
}

// GetByID returns a document regardless of owner.
func (r *MemoryRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.byID[documentID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// GetByOwner returns a document only when the requester owns it.
func (r *MemoryRepo) GetByOwner(ctx context.Context, ownerID, documentID string) (Document, error) {
	doc, err := r.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.OwnerID != ownerID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListCompleted returns an owner's completed documents, newest first.
func (r *MemoryRepo) ListCompleted(ctx context.Context, ownerID string, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	var out []Document
	for _, doc := range r.byID {
		if doc.OwnerID == ownerID && doc.Status == StatusCompleted {
			out = append(out, doc)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []Document{}
	}
	return out, nil
}

// MarkProcessing claims the uploaded -> processing transition.
func (r *MemoryRepo) MarkProcessing(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.byID[documentID]
	if !ok {
		return ErrNotFound
	}
	if doc.Status != StatusUploaded {
		return ErrNotClaimable
	}
	doc.Status = StatusProcessing
	r.byID[documentID] = doc
	return nil
}

// Complete writes the processing -> completed transition.
func (r *MemoryRepo) Complete(ctx context.Context, documentID string, summary summarizer.Summary, processedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.byID[documentID]
	if !ok {
		return ErrNotFound
	}
	if doc.Status != StatusProcessing {
		return ErrNotClaimable
	}
	doc.Status = StatusCompleted
	doc.Summary = &summary
	doc.ErrorMessage = nil
	doc.ProcessedAt = &processedAt
	r.byID[documentID] = doc
	return nil
}

// Fail writes the processing -> failed transition.
func (r *MemoryRepo) Fail(ctx context.Context, documentID string, errorMessage string, processedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.byID[documentID]
	if !ok {
		return ErrNotFound
	}
	if doc.Status != StatusProcessing {
		return ErrNotClaimable
	}
	doc.Status = StatusFailed
	doc.Summary = nil
	doc.ErrorMessage = &errorMessage
	doc.ProcessedAt = &processedAt
	r.byID[documentID] = doc
	return nil
}

// Delete removes an owner's document and returns the removed record.
func (r *MemoryRepo) Delete(ctx context.Context, ownerID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.byID[documentID]
	if !ok || doc.OwnerID != ownerID {
		return Document{}, ErrNotFound
	}
	delete(r.byID, documentID)
	return doc, nil
}

var _ Repo = (*MemoryRepo)(nil)
