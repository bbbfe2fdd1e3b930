// Package processing drives a document from uploaded to a terminal state.
// The orchestrator runs detached from the upload request, either in a
// spawned goroutine or inside the queue worker.
package processing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"legaldocs-backend/internal/documents"
	"legaldocs-backend/internal/shared/metrics"
	"legaldocs-backend/internal/shared/storage/object"
	"legaldocs-backend/internal/shared/telemetry"
	"legaldocs-backend/internal/summarizer"
)

const defaultSummarizeTimeout = 120 * time.Second

// Orchestrator owns the processing pipeline for a single document: claim the
// record, stream the stored file to the summarization service, and write the
// terminal transition.
type Orchestrator struct {
	Repo       documents.Repo
	Store      object.ObjectStore
	Summarizer summarizer.Client
	Timeout    time.Duration
}

// Process runs the pipeline for one document. It returns a non-nil error
// only for infrastructure failures the caller may want to retry at the
// delivery layer; a document that reaches the failed state is a handled
// outcome, not an error. A record that cannot be claimed is skipped.
func (o *Orchestrator) Process(ctx context.Context, documentID, requestID string) error {
	defer func() {
		if r := recover(); r != nil {
			o.fail(ctx, documentID, requestID, "", fmt.Errorf("panic: %v", r), nil)
		}
	}()

	if err := o.Repo.MarkProcessing(ctx, documentID); err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			telemetry.Warn("processing.skip", map[string]any{
				"request_id":  requestID,
				"document_id": documentID,
				"reason":      "not_found",
			})
			return nil
		case errors.Is(err, documents.ErrNotClaimable):
			telemetry.Info("processing.skip", map[string]any{
				"request_id":  requestID,
				"document_id": documentID,
				"reason":      "already_claimed",
			})
			return nil
		default:
			return fmt.Errorf("claim document %s: %w", documentID, err)
		}
	}

	startedAt := time.Now().UTC()
	metrics.IncProcessingStarted()

	doc, err := o.Repo.GetByID(ctx, documentID)
	if err != nil {
		o.fail(ctx, documentID, requestID, "", fmt.Errorf("document lookup: %w", err), &startedAt)
		return nil
	}

	telemetry.Info("document.status", map[string]any{
		"request_id":        requestID,
		"owner_id":          doc.OwnerID,
		"document_id":       doc.ID,
		"status":            documents.StatusProcessing,
		"status_transition": "uploaded->processing",
	})

	body, err := o.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		o.fail(ctx, documentID, requestID, doc.OwnerID, fmt.Errorf("open stored file key=%s: %w", doc.StorageKey, err), &startedAt)
		return nil
	}
	defer body.Close()

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = defaultSummarizeTimeout
	}
	sumCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := o.Summarizer.Summarize(sumCtx, body, doc.OriginalName, doc.MediaType)
	if err != nil {
		o.fail(ctx, documentID, requestID, doc.OwnerID, fmt.Errorf("summarize document %s: %w", doc.ID, err), &startedAt)
		return nil
	}

	summary := result.Normalize()
	processedAt := time.Now().UTC()
	if err := o.Repo.Complete(ctx, documentID, summary, processedAt); err != nil {
		o.fail(ctx, documentID, requestID, doc.OwnerID, fmt.Errorf("set document result failed: %w", err), &startedAt)
		return nil
	}

	metrics.IncProcessingCompleted()
	metrics.ObserveProcessingDurationMs(durationMs(&startedAt, &processedAt))
	telemetry.Info("document.status", map[string]any{
		"request_id":        requestID,
		"owner_id":          doc.OwnerID,
		"document_id":       doc.ID,
		"status":            documents.StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       durationMs(&startedAt, &processedAt),
	})
	return nil
}

// fail writes the failed terminal state. The write uses a fresh context so a
// cancelled pipeline context cannot strand the record in processing.
func (o *Orchestrator) fail(ctx context.Context, documentID, requestID, ownerID string, err error, startedAt *time.Time) {
	code := classifyFailure(err)
	msg := code + ": " + sanitizeError(err)
	processedAt := time.Now().UTC()
	if updateErr := o.Repo.Fail(context.Background(), documentID, msg, processedAt); updateErr != nil {
		telemetry.Error("processing.fail_write", map[string]any{
			"request_id":  requestID,
			"document_id": documentID,
			"error":       updateErr.Error(),
			"cause":       err.Error(),
		})
	}
	metrics.IncProcessingFailed()
	if startedAt != nil {
		metrics.ObserveProcessingDurationMs(durationMs(startedAt, &processedAt))
	}
	telemetry.Info("document.status", map[string]any{
		"request_id":        requestID,
		"owner_id":          ownerID,
		"document_id":       documentID,
		"status":            documents.StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"duration_ms":       durationMs(startedAt, &processedAt),
	})
}

func durationMs(startedAt, processedAt *time.Time) float64 {
	if startedAt == nil || processedAt == nil {
		return 0
	}
	return float64(processedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func classifyFailure(err error) string {
	if err == nil {
		return documents.ErrorCodeInternal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return documents.ErrorCodeSummarizeTimeout
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "summarizer request timeout") {
		return documents.ErrorCodeSummarizeTimeout
	}
	var sumErr *summarizer.Error
	if errors.As(err, &sumErr) {
		return documents.ErrorCodeSummarizer
	}
	if strings.Contains(msg, "summarize") {
		return documents.ErrorCodeSummarizer
	}
	if strings.Contains(msg, "stored file") || strings.Contains(msg, "document lookup") || strings.Contains(msg, "document result") {
		return documents.ErrorCodeStorage
	}
	return documents.ErrorCodeInternal
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
