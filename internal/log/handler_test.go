package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	ctxlog "github.com/ErlanBelekov/travel-buddy/internal/log"
	"github.com/ErlanBelekov/travel-buddy/internal/reqctx"
)

func TestContextHandler_AddsRequestAndAccountIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, "production", slog.LevelInfo)

	ctx := reqctx.WithRequestID(context.Background(), "req-1")
	ctx = reqctx.WithAccountID(ctx, "acc-1")
	logger.InfoContext(ctx, "hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if rec["request_id"] != "req-1" {
		t.Errorf("request_id = %v", rec["request_id"])
	}
	if rec["account_id"] != "acc-1" {
		t.Errorf("account_id = %v", rec["account_id"])
	}
}

func TestContextHandler_OmitsMissingIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, "production", slog.LevelInfo).With("component", "test")
	logger.InfoContext(context.Background(), "hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := rec["request_id"]; ok {
		t.Error("request_id present without one in context")
	}
	if rec["component"] != "test" {
		t.Errorf("component = %v", rec["component"])
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, "local", slog.LevelWarn)
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %q", buf.String())
	}
}

func TestNew_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, "production", slog.LevelInfo).With("password", "hunter22")
	logger.Info("signup", "otp", "123456", "email", "ada@example.com")

	out := buf.String()
	for _, secret := range []string{"hunter22", "123456"} {
		if bytes.Contains(buf.Bytes(), []byte(secret)) {
			t.Errorf("log line leaks %q: %s", secret, out)
		}
	}
	if !bytes.Contains(buf.Bytes(), []byte("ada@example.com")) {
		t.Errorf("non-secret attribute dropped: %s", out)
	}
}
