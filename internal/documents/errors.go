package documents

import "errors"

var (
	// ErrNotFound covers both a missing record and an owner mismatch, so a
	// cross-owner read cannot reveal that a document exists.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks a user-correctable upload validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotClaimable means a processing claim lost the compare-and-set: the
	// record is already processing or terminal.
	ErrNotClaimable = errors.New("document not claimable")
)

const (
	ErrorCodeValidation       = "VALIDATION_ERROR"
	ErrorCodeSummarizer       = "SUMMARIZER_ERROR"
	ErrorCodeSummarizeTimeout = "SUMMARIZER_TIMEOUT"
	ErrorCodeStorage          = "STORAGE_ERROR"
	ErrorCodeInternal         = "INTERNAL_ERROR"
)
