package log

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

const redacted = "[REDACTED]"

// Attribute keys whose values never reach the output.
var secretKeys = map[string]bool{
	"password":      true,
	"password_hash": true,
	"otp":           true,
	"token":         true,
	"authorization": true,
}

// New builds the process logger: tint for local development, JSON elsewhere.
func New(w io.Writer, env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(w, &tint.Options{
			Level:       level,
			TimeFormat:  time.Kitchen,
			ReplaceAttr: redact,
		})
	} else {
		inner = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redact,
		})
	}
	return slog.New(NewContextHandler(inner))
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	return a
}
