package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iksnae/chat-recorder/internal"
)

// Exporter writes message records in one output format
type Exporter interface {
	Export(records []internal.MessageRecord, w io.Writer) error
	Extension() string
}

var exporters = map[string]func() Exporter{
	"json":     func() Exporter { return &JSONExporter{} },
	"jsonl":    func() Exporter { return &JSONLExporter{} },
	"md":       func() Exporter { return &MarkdownExporter{} },
	"markdown": func() Exporter { return &MarkdownExporter{} },
	"yaml":     func() Exporter { return &YAMLExporter{} },
}

// Formats lists the accepted format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewExporter returns the exporter registered for format
func NewExporter(format string) (Exporter, error) {
	newFn, ok := exporters[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}
	return newFn(), nil
}
