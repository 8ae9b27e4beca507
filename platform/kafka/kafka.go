package kafka

import (
	"context"
)

type (
	// Middleware wraps a MessageHandler, composed outermost-first.
	Middleware     func(next MessageHandler) MessageHandler
	MessageHandler func(ctx context.Context, msg Message) error
)

// Consumer blocks in Consume until ctx is done, invoking handler for
// every record delivered to the group member.
type Consumer interface {
	Consume(ctx context.Context, handler MessageHandler) error
}

// Producer sends a single keyed record to a preconfigured topic.
type Producer interface {
	Send(ctx context.Context, key, value []byte) error
}
