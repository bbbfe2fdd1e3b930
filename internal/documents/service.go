package documents

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"legaldocs-backend/internal/preview"
	"legaldocs-backend/internal/shared/metrics"
	"legaldocs-backend/internal/shared/storage/object"
	"legaldocs-backend/internal/shared/telemetry"
)

// ProcessTrigger hands a freshly created document to the processing pipeline.
// The upload path calls it exactly once per record, immediately after
// creation; nothing else ever re-triggers processing for a document.
type ProcessTrigger interface {
	TriggerProcessing(ctx context.Context, documentID, requestID string)
}

const summariesPageSize = 20

// Service contains business logic for documents.
type Service struct {
	Repo           Repo
	Store          object.ObjectStore
	Trigger        ProcessTrigger
	MaxUploadBytes int64
}

// Upload validates the incoming file, stores its bytes, persists the initial
// record with status uploaded, and triggers processing.
func (s *Service) Upload(ctx context.Context, ownerID, fileName, declaredType, headerType string, size int64, r io.Reader, requestID string) (Document, error) {
	if ownerID == "" {
		return Document{}, fmt.Errorf("%w: owner id required", ErrInvalidInput)
	}
	if fileName == "" {
		return Document{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	if size <= 0 {
		return Document{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if s.MaxUploadBytes > 0 && size > s.MaxUploadBytes {
		return Document{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.MaxUploadBytes)
	}

	mediaType, err := ResolveMediaType(declaredType, headerType, fileName)
	if err != nil {
		return Document{}, err
	}

	storageKey, storedSize, _, err := s.Store.Save(ctx, ownerID, fileName, r)
	if err != nil {
		return Document{}, fmt.Errorf("store upload: %w", err)
	}

	doc := Document{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		OriginalName: fileName,
		Title:        s.deriveTitle(ctx, storageKey, mediaType, fileName),
		MediaType:    mediaType,
		SizeBytes:    storedSize,
		StorageKey:   storageKey,
		Status:       StatusUploaded,
		UploadedAt:   time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		// The record never existed; release the orphaned file.
		if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Warn("upload.cleanup_failed", map[string]any{
				"storage_key": storageKey,
				"error":       delErr.Error(),
			})
		}
		return Document{}, fmt.Errorf("persist document: %w", err)
	}

	metrics.IncDocumentUploaded()
	telemetry.Info("document.uploaded", map[string]any{
		"request_id":  requestID,
		"owner_id":    ownerID,
		"document_id": doc.ID,
		"media_type":  mediaType,
		"size_bytes":  storedSize,
	})

	if s.Trigger != nil {
		s.Trigger.TriggerProcessing(ctx, doc.ID, requestID)
	}

	return doc, nil
}

// Get returns an owner's document. Reads go straight to the repo on every
// call; the orchestrator may be mutating the record concurrently.
func (s *Service) Get(ctx context.Context, ownerID, documentID string) (Document, error) {
	if ownerID == "" || documentID == "" {
		return Document{}, fmt.Errorf("%w: owner and document id required", ErrInvalidInput)
	}
	return s.Repo.GetByOwner(ctx, ownerID, documentID)
}

// ListSummaries returns the owner's completed documents, newest first,
// bounded to a fixed page size.
func (s *Service) ListSummaries(ctx context.Context, ownerID string) ([]Document, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id required", ErrInvalidInput)
	}
	return s.Repo.ListCompleted(ctx, ownerID, summariesPageSize)
}

// Delete removes an owner's document and releases the stored file.
func (s *Service) Delete(ctx context.Context, ownerID, documentID string) error {
	if ownerID == "" || documentID == "" {
		return fmt.Errorf("%w: owner and document id required", ErrInvalidInput)
	}
	doc, err := s.Repo.Delete(ctx, ownerID, documentID)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		telemetry.Warn("document.delete_file_failed", map[string]any{
			"document_id": documentID,
			"storage_key": doc.StorageKey,
			"error":       err.Error(),
		})
	}
	return nil
}

func (s *Service) deriveTitle(ctx context.Context, storageKey, mediaType, fileName string) string {
	body, err := s.Store.Open(ctx, storageKey)
	if err != nil {
		return preview.FallbackTitle(fileName)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return preview.FallbackTitle(fileName)
	}
	return preview.Title(data, mediaType, fileName)
}
