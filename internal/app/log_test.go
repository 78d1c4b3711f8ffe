package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestOpHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		runID   string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			runID:   "20240615T143045Z",
			level:   slog.LevelInfo,
			message: "file moved",
			want:    "2024-06-15T14:30:45Z\tINFO\t20240615T143045Z\tfile moved\n",
		},
		{
			name:    "debug level",
			runID:   "run-456",
			level:   slog.LevelDebug,
			message: "checking sidecar",
			want:    "2024-06-15T14:30:45Z\tDEBUG\trun-456\tchecking sidecar\n",
		},
		{
			name:    "with record attrs",
			runID:   "run-789",
			level:   slog.LevelInfo,
			message: "placed",
			attrs:   []slog.Attr{slog.String("path", "/pics/a.jpg"), slog.Int("size", 42)},
			want:    "2024-06-15T14:30:45Z\tINFO\trun-789\tplaced\tpath=/pics/a.jpg\tsize=42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &opHandler{w: &buf, runID: tt.runID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestOpHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &opHandler{w: &buf, runID: "run-1"}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "pipeline")}).(*opHandler)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "converted", 0)
	r.AddAttrs(slog.String("ext", ".mp4"))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "component=pipeline") {
		t.Errorf("expected pre-set attr component=pipeline, got: %q", got)
	}
	if !strings.Contains(got, "ext=.mp4") {
		t.Errorf("expected record attr ext=.mp4, got: %q", got)
	}
}

func TestOpHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	var buf bytes.Buffer
	h := &opHandler{w: &buf, runID: "run-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*opHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("new handler attrs: got %d, want 2", len(h2.attrs))
	}
}

func TestOpHandler_Enabled(t *testing.T) {
	h := &opHandler{level: slog.LevelDebug}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if !h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = false, want true", level)
		}
	}

	quiet := &opHandler{level: slog.LevelInfo}
	if quiet.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled(DEBUG) = true at info level")
	}
	if !quiet.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled(INFO) = false at info level")
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()

	logger, f, err := newLogger(dir, "test-run", false)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	if logger == nil {
		t.Fatal("newLogger() returned nil logger")
	}
	if f == nil {
		t.Fatal("newLogger() returned nil file")
	}
}
