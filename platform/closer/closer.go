package closer

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Logger interface {
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
}

type namedCloser struct {
	name string
	fn   func(ctx context.Context) error
}

var (
	mu      sync.Mutex
	log     Logger
	closers []namedCloser
)

func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

func AddNamed(name string, fn func(ctx context.Context) error) {
	mu.Lock()
	defer mu.Unlock()
	closers = append(closers, namedCloser{name: name, fn: fn})
}

// CloseAll runs registered closers in reverse registration order so
// dependents shut down before their dependencies. The first error is
// returned, but every closer still runs.
func CloseAll(ctx context.Context) error {
	mu.Lock()
	toClose := closers
	closers = nil
	mu.Unlock()

	var firstErr error
	for i := len(toClose) - 1; i >= 0; i-- {
		c := toClose[i]
		if err := c.fn(ctx); err != nil {
			if log != nil {
				log.Error(ctx, "failed to close", zap.String("name", c.name), zap.Error(err))
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if log != nil {
			log.Info(ctx, "closed", zap.String("name", c.name))
		}
	}

	return firstErr
}
