package zerologadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/logroute"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("json unmarshal: %v; line=%s", err, line)
		}
		out = append(out, m)
	}
	return out
}

func TestZerologAdapter_JSON_EmitsTSAndFields(t *testing.T) {
	var buf bytes.Buffer
	a := New(zerolog.New(&buf))

	at := time.Date(2024, 12, 31, 23, 59, 59, 123456789, time.UTC)
	a.Log(logroute.LevelInfo, "state changed", at, []logroute.Field{
		logroute.Str("from", "old"),
		logroute.Dur("dur", time.Millisecond),
		logroute.Err("error", errors.New("boom")),
	})

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	m := lines[0]
	if m["level"] != "info" || m["message"] != "state changed" {
		t.Fatalf("basic fields mismatch: %v", m)
	}
	if m["ts"] != at.Format(time.RFC3339Nano) {
		t.Fatalf("ts mismatch: %v", m["ts"])
	}
	if m["from"] != "old" || m["error"] != "boom" {
		t.Fatalf("fields mismatch: %v", m)
	}
}

func TestZerologAdapter_WithBoundFields(t *testing.T) {
	var buf bytes.Buffer
	a := New(zerolog.New(&buf)).With([]logroute.Field{
		logroute.Str("component", "router"),
		logroute.Err("last", errors.New("stale")),
	})

	a.Log(logroute.LevelWarn, "ok", time.Unix(0, 0).UTC(), []logroute.Field{logroute.Str("path", "/healthz")})

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if m := lines[0]; m["component"] != "router" || m["last"] != "stale" || m["path"] != "/healthz" {
		t.Fatalf("bound + event fields missing: %v", m)
	}
}

func TestZerologAdapter_LevelMapping(t *testing.T) {
	var buf bytes.Buffer
	a := New(zerolog.New(&buf))
	a.SetMinLevel(logroute.LevelWarn)
	at := time.Unix(0, 0).UTC()

	a.Log(logroute.LevelInfo, "filtered", at, nil)
	a.Log(logroute.LevelFatal, "fatal", at, nil)
	a.Log(logroute.LevelNone, "never", at, nil)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %s", len(lines), buf.String())
	}
	if lines[0]["level"] != "error" {
		t.Fatalf("fatal must map to error, got %v", lines[0]["level"])
	}

	buf.Reset()
	a.SetMinLevel(logroute.LevelNone)
	a.Log(logroute.LevelError, "disabled", at, nil)
	if buf.Len() != 0 {
		t.Fatalf("LevelNone must disable output, got %s", buf.String())
	}
}

func TestConfigFromEnv(t *testing.T) {
	env := map[string]string{
		"LOGROUTE_LEVEL":       "WARNING",
		"LOGROUTE_CONSOLE":     "1",
		"LOGROUTE_CALLER":      "1",
		"LOGROUTE_CALLER_SKIP": "nope",
	}
	cfg := ConfigFromEnv(func(k string) string { return env[k] })
	if cfg.MinLevel != logroute.LevelWarn {
		t.Fatalf("level mismatch: %v", cfg.MinLevel)
	}
	if !cfg.Console || !cfg.Caller {
		t.Fatalf("flags mismatch: %+v", cfg)
	}
	if cfg.CallerSkip != 5 {
		t.Fatalf("bad skip must fall back to 5, got %d", cfg.CallerSkip)
	}

	cfg = ConfigFromEnv(func(string) string { return "" })
	if cfg.MinLevel != logroute.LevelInfo {
		t.Fatalf("default level mismatch: %v", cfg.MinLevel)
	}
}

func TestInitRegistersDefaultDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	ad := logroute.DefaultAdapter(&buf)
	if ad == logroute.Discard {
		t.Fatal("importing the zerolog adapter must register a default factory")
	}

	repo := logroute.NewRepository(logroute.RepositoryConfig{Diagnostics: ad})
	if err := repo.AddObserver("broken", logroute.LevelInfo, logroute.ObserverFunc(func(logroute.Event) error {
		return errors.New("sink offline")
	})); err != nil {
		t.Fatalf("add observer: %v", err)
	}
	repo.Log(logroute.LevelWarn, "routed")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 diagnostic line, got %d: %s", len(lines), buf.String())
	}
	if lines[0]["observer"] != "broken" || lines[0]["event_level"] != "warn" {
		t.Fatalf("diagnostic fields mismatch: %v", lines[0])
	}
}
