// Package logging builds the service logger: JSON to stdout locally, or a
// Loki push handler when a remote URL is configured.
package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/grafana/loki-client-go/loki"
	slogloki "github.com/samber/slog-loki/v3"

	"github.com/lojapix/lojapix-payments/config"
)

type ctxKey int

const slogFields ctxKey = 0

// WithAttrs returns a context carrying extra log attributes, picked up by
// every log line emitted with that context. The parent's attribute slice is
// copied so sibling contexts cannot share a backing array.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	existing, _ := ctx.Value(slogFields).([]slog.Attr)
	merged := make([]slog.Attr, 0, len(existing)+len(attrs))
	merged = append(merged, existing...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, slogFields, merged)
}

func attrsFromContext(ctx context.Context) []slog.Attr {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		return attrs
	}
	return nil
}

// ContextHandler decorates a slog.Handler with the attributes stored in the
// record's context.
type ContextHandler struct {
	slog.Handler
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(attrsFromContext(ctx)...)
	return h.Handler.Handle(ctx, record)
}

// GetLogger builds the logger for the given configuration.
func GetLogger(cfg config.ObservabilityConfig) *slog.Logger {
	if cfg.LokiURL == "" {
		return localLogger()
	}
	return remoteLogger(cfg.LokiURL)
}

func localLogger() *slog.Logger {
	return slog.New(&ContextHandler{Handler: slog.NewJSONHandler(os.Stdout, nil)})
}

func remoteLogger(url string) *slog.Logger {
	lokiConfig, _ := loki.NewDefaultConfig(url)
	client, _ := loki.New(lokiConfig)

	return slog.New(slogloki.Option{
		Level:  slog.LevelInfo,
		Client: client,
		AttrFromContext: []func(ctx context.Context) []slog.Attr{
			attrsFromContext,
		},
	}.NewLokiHandler()).With("service", "lojapix-payments")
}
