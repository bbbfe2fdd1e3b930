package queue

import "context"

// Client hands processing jobs to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}
