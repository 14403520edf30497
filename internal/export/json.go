package export

import (
	"io"

	"github.com/iksnae/chat-recorder/internal"
)

// JSONExporter exports the log in the master log layout (pretty-printed array)
type JSONExporter struct{}

// Export exports records to JSON format
func (e *JSONExporter) Export(records []internal.MessageRecord, w io.Writer) error {
	data, err := internal.MarshalMessageLog(records)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
