package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerAddsCategories(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLoggerFrom(zap.New(core))

	extra := map[ExtraKey]any{RoomID: "r1"}
	logger.Info(Room, Lifecycle, "room created", extra)

	if _, ok := extra["Category"]; ok {
		t.Fatal("caller's extra map was mutated")
	}

	entries := logs.FilterMessage("room created").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["Category"] != string(Room) || fields["SubCategory"] != string(Lifecycle) || fields["RoomID"] != "r1" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestZeroLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZeroLoggerTo(&buf, "info")

	logger.Debug(Websocket, ReadFrame, "hidden", nil)
	logger.Warn(Websocket, SlowClient, "dropping client", map[ExtraKey]any{SessionID: "s1"})

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if line["message"] != "dropping client" || line["SessionID"] != "s1" || line["Category"] != "Websocket" {
		t.Fatalf("unexpected line %v", line)
	}
}

func TestNewLoggerRejectsUnknownBackend(t *testing.T) {
	if _, err := NewLogger(&LoggerConfig{Logger: "logrus"}); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}

func TestRotatingFileDefaults(t *testing.T) {
	if rotatingFile(&LoggerConfig{}) != nil {
		t.Fatal("file output should be off without a path")
	}

	f := rotatingFile(&LoggerConfig{FilePath: t.TempDir(), MaxBackups: 2})
	if f.MaxSize != 10 || f.MaxBackups != 2 || f.MaxAge != 20 {
		t.Fatalf("unexpected rotation %+v", f)
	}
}
