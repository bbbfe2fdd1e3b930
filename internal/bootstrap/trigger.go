package bootstrap

import (
	"context"
	"time"

	"legaldocs-backend/internal/documents"
	"legaldocs-backend/internal/processing"
	"legaldocs-backend/internal/queue"
	"legaldocs-backend/internal/shared/telemetry"
)

// asyncTrigger runs the orchestrator in a detached goroutine. Used when no
// queue is configured; the upload response never waits on processing.
type asyncTrigger struct {
	Orchestrator *processing.Orchestrator
}

func (t *asyncTrigger) TriggerProcessing(ctx context.Context, documentID, requestID string) {
	go func() {
		if err := t.Orchestrator.Process(context.Background(), documentID, requestID); err != nil {
			telemetry.Error("trigger.process_failed", map[string]any{
				"request_id":  requestID,
				"document_id": documentID,
				"error":       err.Error(),
			})
		}
	}()
}

// queueTrigger hands the document to the work queue for cmd/worker. If the
// enqueue fails the document would otherwise sit in uploaded forever, so it
// falls back to detached in-process processing.
type queueTrigger struct {
	Queue    queue.Client
	Fallback *processing.Orchestrator
}

func (t *queueTrigger) TriggerProcessing(ctx context.Context, documentID, requestID string) {
	msg := queue.Message{
		DocumentID: documentID,
		RequestID:  requestID,
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    1,
	}
	if err := t.Queue.Send(ctx, msg); err != nil {
		telemetry.Error("trigger.enqueue_failed", map[string]any{
			"request_id":  requestID,
			"document_id": documentID,
			"error":       err.Error(),
		})
		fallback := &asyncTrigger{Orchestrator: t.Fallback}
		fallback.TriggerProcessing(ctx, documentID, requestID)
		return
	}
	telemetry.Info("trigger.enqueued", map[string]any{
		"request_id":  requestID,
		"document_id": documentID,
	})
}

var (
	_ documents.ProcessTrigger = (*asyncTrigger)(nil)
	_ documents.ProcessTrigger = (*queueTrigger)(nil)
)
