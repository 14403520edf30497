package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/chat-recorder/internal"
)

// JSONLExporter exports records in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports records to JSONL format
func (e *JSONLExporter) Export(records []internal.MessageRecord, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode message %q: %w", rec.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
