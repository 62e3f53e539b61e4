package toast_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/shopkit/pkg/toast"
)

func TestSeverityHelpers(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(toast.Notifier, string)
		level toast.Type
	}{
		{"success", toast.Success, toast.TypeSuccess},
		{"error", toast.Error, toast.TypeError},
		{"warning", toast.Warning, toast.TypeWarning},
		{"info", toast.Info, toast.TypeInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &toast.Recorder{}
			tt.fn(rec, "hello")

			got := rec.All()
			if len(got) != 1 {
				t.Fatalf("expected 1 notification, got %d", len(got))
			}
			if got[0].Level != tt.level || got[0].Message != "hello" {
				t.Errorf("expected (%s, hello), got (%s, %s)", tt.level, got[0].Level, got[0].Message)
			}
		})
	}
}

func TestNilNotifierIsNoOp(t *testing.T) {
	// Must not panic.
	toast.Success(nil, "ignored")
}

func TestFuncAdapter(t *testing.T) {
	var gotLevel toast.Type
	var gotMessage string

	n := toast.Func(func(level toast.Type, message string) {
		gotLevel = level
		gotMessage = message
	})
	toast.Warning(n, "careful")

	if gotLevel != toast.TypeWarning || gotMessage != "careful" {
		t.Errorf("expected (warning, careful), got (%s, %s)", gotLevel, gotMessage)
	}
}

func TestLoggerNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	n := toast.NewLogger(logger)
	toast.Error(n, "persistence unavailable")

	out := buf.String()
	if !strings.Contains(out, "persistence unavailable") {
		t.Errorf("expected message in log output, got %q", out)
	}
	if !strings.Contains(out, "level=ERROR") {
		t.Errorf("expected ERROR level in log output, got %q", out)
	}
}

func TestRecorderReset(t *testing.T) {
	rec := &toast.Recorder{}
	toast.Info(rec, "one")
	rec.Reset()

	if len(rec.All()) != 0 {
		t.Errorf("expected empty recorder after reset")
	}
}
