// Package pollwait implements the client side of the polling protocol: query
// a document's status at a bounded interval until it reaches a terminal
// state or the wall-clock budget runs out.
package pollwait

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout means the polling budget was exhausted before the document
// reached a terminal state. It is distinct from a server-reported failure,
// which arrives as a terminal status, not an error.
var ErrTimeout = errors.New("polling timed out")

const (
	DefaultInterval = 2 * time.Second
	DefaultMaxWait  = 2 * time.Minute
)

// StatusFunc fetches the current status of a document.
type StatusFunc func(ctx context.Context) (status string, terminal bool, err error)

// Wait polls statusFn every interval until it reports a terminal status.
func Wait(ctx context.Context, statusFn StatusFunc, interval, maxWait time.Duration) (string, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}

	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, terminal, err := statusFn(ctx)
		if err != nil {
			return "", err
		}
		if terminal {
			return status, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return status, ErrTimeout
			}
			return status, ctx.Err()
		case <-ticker.C:
		}
	}
}
