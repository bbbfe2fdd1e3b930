package documents

import (
	"time"

	"legaldocs-backend/internal/summarizer"
)

// Status is the processing lifecycle state of a document. Transitions only
// move forward: uploaded -> processing -> completed | failed.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transitions can occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Document represents one uploaded file and its processing state. Status,
// Summary, ErrorMessage, and ProcessedAt are mutated only by the processing
// orchestrator; everything else is immutable after creation.
type Document struct {
	ID           string
	OwnerID      string
	OriginalName string
	Title        string
	MediaType    string
	SizeBytes    int64
	StorageKey   string
	Status       Status
	Summary      *summarizer.Summary
	ErrorMessage *string
	UploadedAt   time.Time
	ProcessedAt  *time.Time
}
