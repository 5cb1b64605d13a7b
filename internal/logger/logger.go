package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	viewerIDKey  contextKey = "viewer_id"
)

var (
	log  *slog.Logger
	mu   sync.RWMutex
	once sync.Once
)

// Init 初始化全局 logger：development 输出文本，其它环境输出 JSON
func Init(env string) {
	InitWithWriter(env, os.Stdout)
}

func InitWithWriter(env string, w io.Writer) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	mu.Lock()
	log = slog.New(handler)
	mu.Unlock()
	slog.SetDefault(log)
}

func GetLogger() *slog.Logger {
	once.Do(func() {
		mu.RLock()
		missing := log == nil
		mu.RUnlock()
		if missing {
			Init("development")
		}
	})
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func WithViewerID(ctx context.Context, viewerID int64) context.Context {
	return context.WithValue(ctx, viewerIDKey, viewerID)
}

func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext 返回带有 request_id / viewer_id 字段的 logger
func FromContext(ctx context.Context) *slog.Logger {
	l := GetLogger()
	if ctx == nil {
		return l
	}

	var fields []any
	if id := RequestID(ctx); id != "" {
		fields = append(fields, "request_id", id)
	}
	if viewer, ok := ctx.Value(viewerIDKey).(int64); ok && viewer > 0 {
		fields = append(fields, "viewer_id", viewer)
	}
	if len(fields) > 0 {
		l = l.With(fields...)
	}
	return l
}

func Info(msg string, args ...any)  { GetLogger().Info(msg, args...) }
func Warn(msg string, args ...any)  { GetLogger().Warn(msg, args...) }
func Error(msg string, args ...any) { GetLogger().Error(msg, args...) }
func Debug(msg string, args ...any) { GetLogger().Debug(msg, args...) }

func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

// CtxWithError 记录错误并附带 error 字段
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	fields := append([]any{"error", err.Error()}, args...)
	FromContext(ctx).Error(msg, fields...)
}
