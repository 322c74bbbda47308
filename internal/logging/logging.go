package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Options configures the process logger.
type Options struct {
	Level             string
	SentryDSN         string
	SentryEnvironment string
	// Output defaults to stdout.
	Output io.Writer
}

// New 创建 JSON 格式的 slog.Logger；配置了 Sentry DSN 时同时把 WARN/ERROR 转发到 Sentry。
// 返回的 flush 函数应在进程退出前调用。
func New(opts Options) (*slog.Logger, func()) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	stdout := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	noop := func() {}

	if opts.SentryDSN == "" {
		return slog.New(NewContextHandler(stdout, RequestIDExtractor)), noop
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.SentryDSN,
		Environment: opts.SentryEnvironment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdout).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(NewContextHandler(stdout, RequestIDExtractor)), noop
	}

	forward := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	handler := NewContextHandler(newFanoutHandler(stdout, forward), RequestIDExtractor)
	return slog.New(handler), func() { sentry.Flush(2 * time.Second) }
}

// ParseLevel maps LOG_LEVEL values to slog levels. Unknown values mean info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
