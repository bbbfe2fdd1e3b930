package summarizer

import (
	"context"
	"io"
)

// Client dispatches a stored document to the summarization collaborator.
type Client interface {
	Summarize(ctx context.Context, file io.Reader, fileName, mediaType string) (Result, error)
}

// Error describes a failed summarization call. The orchestrator copies the
// message onto the document record; callers observe it via a status query.
type Error struct {
	Cause string
}

func (e *Error) Error() string {
	return "summarize: " + e.Cause
}
