package log

import (
	"context"
	"log/slog"

	"github.com/ErlanBelekov/travel-buddy/internal/reqctx"
)

// contextFields are copied from the context onto every record when set.
var contextFields = []struct {
	key  string
	from func(context.Context) string
}{
	{"request_id", reqctx.RequestID},
	{"account_id", reqctx.AccountID},
}

// ContextHandler decorates an slog.Handler with request-scoped identifiers.
type ContextHandler struct {
	inner slog.Handler
}

func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, f := range contextFields {
		if v := f.from(ctx); v != "" {
			r.AddAttrs(slog.String(f.key, v))
		}
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewContextHandler(h.inner.WithAttrs(attrs))
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return NewContextHandler(h.inner.WithGroup(name))
}
