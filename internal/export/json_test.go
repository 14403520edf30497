package export

import (
	"bytes"
	"testing"

	"github.com/iksnae/chat-recorder/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		records []internal.MessageRecord
	}{
		{name: "full log", records: sampleRecords()},
		{name: "empty log", records: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&JSONExporter{}).Export(tt.records, &buf); err != nil {
				t.Fatalf("JSONExporter.Export() error = %v", err)
			}

			// Output must load back as a master log.
			got, err := internal.ParseMessageLog(buf.Bytes())
			if err != nil {
				t.Fatalf("output is not a valid message log: %v\n%s", err, buf.String())
			}
			if len(got) != len(tt.records) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.records))
			}
			for i := range got {
				if got[i] != tt.records[i] {
					t.Errorf("record %d = %+v, want %+v", i, got[i], tt.records[i])
				}
			}
		})
	}
}
