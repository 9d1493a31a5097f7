package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteJSONLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetDebug(false)
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}) })

	fields := map[string]any{"resource": "products"}
	Info("resource_loaded", fields)
	Debug("hidden", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if entry["msg"] != "resource_loaded" || entry["level"] != "info" || entry["resource"] != "products" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts: %v", entry)
	}
	if _, ok := fields["msg"]; ok {
		t.Fatalf("caller fields were mutated: %v", fields)
	}
}

func TestDebugToggle(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetDebug(false)
		SetOutput(&bytes.Buffer{})
	})

	SetDebug(true)
	Debug("sql", map[string]any{"sql": "SELECT 1"})
	if !strings.Contains(buf.String(), `"level":"debug"`) {
		t.Fatalf("debug line not written: %q", buf.String())
	}
}
