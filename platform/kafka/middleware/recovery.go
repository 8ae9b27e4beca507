package middleware

import (
	"context"

	"go.uber.org/zap"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/kafka"
)

type ErrorLogger interface {
	Error(ctx context.Context, msg string, fields ...zap.Field)
}

// Recovery keeps a panicking handler from taking the whole consumer
// group session down. The offset is still marked, so a poison message
// is logged and skipped rather than redelivered forever.
func Recovery(logger ErrorLogger) kafka.Middleware {
	return func(next kafka.MessageHandler) kafka.MessageHandler {
		return func(ctx context.Context, msg kafka.Message) error {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(ctx, "Recovered from panic in message processing",
						zap.Any("error", r),
						zap.String("topic", msg.Topic),
						zap.Stack("stack"),
					)
				}
			}()
			return next(ctx, msg)
		}
	}
}
