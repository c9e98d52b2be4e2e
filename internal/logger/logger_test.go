package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewRequestID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewRequestID()
		if len(id) != 8 {
			t.Fatalf("expected 8 characters, got %q", id)
		}
		seen[id] = true
	}
	if len(seen) < 95 {
		t.Errorf("request IDs repeat too often: %d distinct of 100", len(seen))
	}
}

func TestForRequestCarriesIDs(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Out: &buf})

	ctx := WithGameID(WithRequestID(context.Background(), "abc12345"), "game-1")
	if got := RequestIDFromContext(ctx); got != "abc12345" {
		t.Fatalf("expected abc12345, got %q", got)
	}
	l := ForRequest(ctx)
	l.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, "abc12345") || !strings.Contains(out, "game-1") {
		t.Errorf("expected both ids in %q", out)
	}
}

func TestLogBodyTruncates(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)
	LogRequest(l, bytes.Repeat([]byte("x"), 1500))
	if !strings.Contains(buf.String(), `"truncated":true`) {
		t.Errorf("expected truncated flag: %s", buf.String())
	}

	buf.Reset()
	LogResponse(l, nil)
	if buf.Len() != 0 {
		t.Errorf("empty body should not log, got %s", buf.String())
	}
}

func TestInitFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "chatty", Out: &buf})
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("expected info level, got %s", zerolog.GlobalLevel())
	}
}
