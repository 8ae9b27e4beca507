package logger

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	zl *zap.Logger
}

var (
	mu     sync.RWMutex
	global = &Logger{zl: zap.NewNop()}
)

// Init builds the process-wide logger. level is one of
// debug|info|warn|error, asJSON switches the console encoder
// to JSON output.
func Init(level string, asJSON bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logger.Init: parse level %q: %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if asJSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl)

	mu.Lock()
	global = &Logger{zl: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))}
	mu.Unlock()

	return nil
}

func L() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// SetNopLogger silences all output; used by tests.
func SetNopLogger() {
	mu.Lock()
	global = &Logger{zl: zap.NewNop()}
	mu.Unlock()
}

func With(fields ...Field) *Logger {
	return L().With(fields...)
}

func Debug(ctx context.Context, msg string, fields ...Field) { L().Debug(ctx, msg, fields...) }
func Info(ctx context.Context, msg string, fields ...Field)  { L().Info(ctx, msg, fields...) }
func Warn(ctx context.Context, msg string, fields ...Field)  { L().Warn(ctx, msg, fields...) }
func Error(ctx context.Context, msg string, fields ...Field) { L().Error(ctx, msg, fields...) }
func Fatal(ctx context.Context, msg string, fields ...Field) { L().Fatal(ctx, msg, fields...) }

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{zl: l.zl.With(fields...)}
}

// The context parameter is accepted on every level so call sites stay
// stable when trace enrichment is added.
func (l *Logger) Debug(_ context.Context, msg string, fields ...Field) { l.zl.Debug(msg, fields...) }
func (l *Logger) Info(_ context.Context, msg string, fields ...Field)  { l.zl.Info(msg, fields...) }
func (l *Logger) Warn(_ context.Context, msg string, fields ...Field)  { l.zl.Warn(msg, fields...) }
func (l *Logger) Error(_ context.Context, msg string, fields ...Field) { l.zl.Error(msg, fields...) }
func (l *Logger) Fatal(_ context.Context, msg string, fields ...Field) { l.zl.Fatal(msg, fields...) }

func (l *Logger) Sync() error { return l.zl.Sync() }
