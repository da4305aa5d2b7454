package commands

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/rom-protocol/rom-go/pkg/log"
)

func TestRunFilterByDevice(t *testing.T) {
	now := time.Now().UTC()
	path := writeCapture(t,
		commandEvent(now, "robot-1", "tx-1", "Say"),
		commandEvent(now.Add(time.Millisecond), "robot-2", "tx-2", "LookAt"),
		ackEvent(now.Add(2*time.Millisecond), "robot-1", "tx-1", 202),
	)
	output := filepath.Join(t.TempDir(), "filtered.romcap")

	err := RunFilter(path, FilterOptions{Output: output, DeviceID: "robot-1"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	reader, err := log.NewReader(output)
	if err != nil {
		t.Fatalf("open filtered file: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if event.DeviceID != "robot-1" {
			t.Errorf("unexpected device in output: %s", event.DeviceID)
		}
		count++
	}
	if count != 2 {
		t.Errorf("expected 2 filtered events, got %d", count)
	}
}

func TestRunFilterByTransaction(t *testing.T) {
	now := time.Now().UTC()
	path := writeCapture(t,
		commandEvent(now, "robot-1", "tx-1", "Say"),
		commandEvent(now.Add(time.Millisecond), "robot-1", "tx-2", "LookAt"),
		ackEvent(now.Add(2*time.Millisecond), "robot-1", "tx-1", 202),
		errorEvent(now.Add(3*time.Millisecond), "robot-1"),
	)
	output := filepath.Join(t.TempDir(), "filtered.romcap")

	err := RunFilter(path, FilterOptions{Output: output, TxID: "tx-1"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	reader, err := log.NewReader(output)
	if err != nil {
		t.Fatalf("open filtered file: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if event.Message == nil || event.Message.TransactionID != "tx-1" {
			t.Errorf("unexpected event in output: %+v", event)
		}
		count++
	}
	if count != 2 {
		t.Errorf("expected command and ack of tx-1, got %d events", count)
	}
}

func TestRunFilterInvalidTime(t *testing.T) {
	path := writeCapture(t, commandEvent(time.Now(), "robot-1", "tx-1", "Say"))
	output := filepath.Join(t.TempDir(), "filtered.romcap")

	err := RunFilter(path, FilterOptions{Output: output, TimeStart: "yesterday"})
	if err == nil {
		t.Error("expected error for invalid time format")
	}
}
