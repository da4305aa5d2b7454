package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rom-protocol/rom-go/pkg/log"
)

// RunExport exports the capture file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "device_id", "connection_id", "direction", "layer", "category", "type", "transaction_id", "detail"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		eventType, txID, detail := describeEvent(event)
		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.DeviceID,
			event.ConnectionID,
			event.Direction.String(),
			event.Layer.String(),
			event.Category.String(),
			eventType,
			txID,
			detail,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

// describeEvent condenses the payload into a type label, transaction id,
// and a one-cell summary suitable for spreadsheet filtering.
func describeEvent(event log.Event) (eventType, txID, detail string) {
	switch {
	case event.Frame != nil:
		return "frame", "", fmt.Sprintf("%d bytes", event.Frame.Size)
	case event.Message != nil:
		msg := event.Message
		switch msg.Kind {
		case log.MessageCommand:
			detail = msg.CommandType
		case log.MessageAck:
			if msg.ResponseCode != nil {
				detail = fmt.Sprintf("code %d", *msg.ResponseCode)
			}
		case log.MessageEventMsg:
			detail = msg.EventName
		}
		return msg.Kind.String(), msg.TransactionID, detail
	case event.StateChange != nil:
		sc := event.StateChange
		return "state", "", fmt.Sprintf("%s: %s -> %s", sc.Entity, sc.OldState, sc.NewState)
	case event.Status != nil:
		return "status", "", event.Status.Message
	case event.Error != nil:
		return "error", "", event.Error.Message
	}
	return "unknown", "", ""
}
