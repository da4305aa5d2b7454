package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestRunStats(t *testing.T) {
	now := time.Now().UTC()
	path := writeCapture(t,
		commandEvent(now, "robot-1", "tx-1", "Say"),
		ackEvent(now.Add(time.Millisecond), "robot-1", "tx-1", 202),
		commandEvent(now.Add(2*time.Millisecond), "robot-2", "tx-2", "TakePhoto"),
		errorEvent(now.Add(3*time.Millisecond), "robot-1"),
	)

	var out bytes.Buffer
	if err := RunStats(path, &out); err != nil {
		t.Fatalf("stats: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Total Events: 4") {
		t.Errorf("expected total count, got:\n%s", text)
	}
	if !strings.Contains(text, "Devices: 2") {
		t.Errorf("expected device count, got:\n%s", text)
	}
	if !strings.Contains(text, "Commands: 1  Acks: 1") {
		t.Errorf("expected per-device message breakdown, got:\n%s", text)
	}
	if !strings.Contains(text, "Errors: 1") {
		t.Errorf("expected error count, got:\n%s", text)
	}
}

func TestRunStatsMissingFile(t *testing.T) {
	var out bytes.Buffer
	if err := RunStats("/nonexistent/capture.romcap", &out); err == nil {
		t.Error("expected error for missing file")
	}
}
