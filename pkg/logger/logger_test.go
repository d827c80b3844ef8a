package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	ctx := context.Background()
	if !New("dev", "newsdesk-api").Enabled(ctx, slog.LevelDebug) {
		t.Fatal("dev logger must enable debug")
	}
	if New("production", "newsdesk-api").Enabled(ctx, slog.LevelDebug) {
		t.Fatal("production logger must not enable debug")
	}
}

func TestFromContext(t *testing.T) {
	if From(context.Background()) == nil {
		t.Fatal("expected fallback to the default logger")
	}
	l := New("dev", "newsdesk-api")
	ctx := With(context.Background(), l)
	if From(ctx) != l {
		t.Fatal("expected the context-scoped logger")
	}
}
