package translate

import "context"

// Client translates a single piece of text into the given locale.
type Client interface {
	Translate(ctx context.Context, text, locale string) (string, error)
}

// Error carries a human-readable cause for a failed translation. A single
// failed leaf fails the whole operation; no partial result is returned.
type Error struct {
	Cause string
}

func (e *Error) Error() string {
	return "translate: " + e.Cause
}
