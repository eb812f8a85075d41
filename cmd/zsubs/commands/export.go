package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/zephyr-protocol/zephyr-go/pkg/log"
)

// jsonEvent is the JSONL shape of an event. Triple fields are rendered as
// text rather than base64.
type jsonEvent struct {
	Timestamp   string                `json:"timestamp"`
	SessionID   string                `json:"session_id"`
	Category    string                `json:"category"`
	Op          string                `json:"op"`
	Realm       string                `json:"realm,omitempty"`
	Triple      string                `json:"triple,omitempty"`
	Count       int                   `json:"count,omitempty"`
	DurationNS  int64                 `json:"duration_ns,omitempty"`
	StateChange *log.StateChangeEvent `json:"state_change,omitempty"`
	Error       *log.ErrorEventData   `json:"error,omitempty"`
}

func toJSONEvent(event log.Event) jsonEvent {
	je := jsonEvent{
		Timestamp:   event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		SessionID:   event.SessionID,
		Category:    event.Category.String(),
		Op:          event.Op.String(),
		Realm:       event.Realm,
		StateChange: event.StateChange,
		Error:       event.Error,
	}
	if event.Call != nil {
		je.Triple = event.Call.Triple()
		je.Count = event.Call.Count
		je.DurationNS = event.Call.Duration.Nanoseconds()
	}
	return je
}

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
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
		if err := encoder.Encode(toJSONEvent(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session_id", "category", "op", "realm", "triple", "count", "duration_ns", "error"}
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

		je := toJSONEvent(event)
		errMsg := ""
		if event.Error != nil {
			errMsg = event.Error.Message
		}
		row := []string{
			je.Timestamp,
			je.SessionID,
			je.Category,
			je.Op,
			je.Realm,
			je.Triple,
			strconv.Itoa(je.Count),
			strconv.FormatInt(je.DurationNS, 10),
			errMsg,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
