package utils

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	fn()
	return buf.String()
}

func TestLogEventKeyValueShape(t *testing.T) {
	line := captureLog(t, func() {
		LogEvent(" req-1 ", "ledger", "upsert", "vehicle_id=3 week_start=2025-01-06")
	})

	for _, want := range []string{
		"module=ledger",
		"action=upsert",
		"request_id=req-1",
		"vehicle_id=3",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}

func TestLogEventOmitsEmptyFields(t *testing.T) {
	line := captureLog(t, func() {
		LogEvent("", "reports", "weekly_xlsx", "")
	})

	if strings.Contains(line, "request_id=") {
		t.Fatalf("log line %q should omit empty request_id", line)
	}
	if !strings.Contains(line, "module=reports action=weekly_xlsx") {
		t.Fatalf("log line %q missing module/action keys", line)
	}
}
