package export

import (
	"bytes"
	"testing"

	"github.com/iksnae/chat-recorder/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	records := sampleRecords()

	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(records, &buf); err != nil {
		t.Fatalf("YAMLExporter.Export() error = %v", err)
	}

	var got []internal.MessageRecord
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}
	if len(got) != len(records) {
		t.Fatalf("got %d records, want %d", len(got), len(records))
	}
	if got[1] != records[1] {
		t.Errorf("reply record = %+v, want %+v", got[1], records[1])
	}
	if !bytes.Contains(buf.Bytes(), []byte("msg_id:")) {
		t.Errorf("YAML keys should match the log field names:\n%s", buf.String())
	}
}

func TestYAMLExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(nil, &buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("empty export = %q, want []", got)
	}
}
