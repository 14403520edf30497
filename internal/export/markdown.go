package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/chat-recorder/internal"
)

// MarkdownExporter exports the log as a readable transcript grouped by
// capture date
type MarkdownExporter struct{}

// Export exports records to Markdown format
func (e *MarkdownExporter) Export(records []internal.MessageRecord, w io.Writer) error {
	byID := make(map[string]internal.MessageRecord, len(records))
	for _, rec := range records {
		if _, ok := byID[rec.ID]; !ok {
			byID[rec.ID] = rec
		}
	}

	_, _ = fmt.Fprintf(w, "# Chat Log\n\n")
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(records))
	_, _ = fmt.Fprintf(w, "---\n")

	date := "\x00"
	for _, rec := range records {
		if rec.Date != date {
			date = rec.Date
			heading := date
			if heading == "" {
				heading = "Undated"
			}
			_, _ = fmt.Fprintf(w, "\n## %s\n\n", heading)
		}

		_, _ = fmt.Fprintf(w, "**%s** (%s)", escapeMarkdown(rec.Author), rec.Timestamp)
		if rec.IsReply {
			_, _ = fmt.Fprintf(w, " ↩ reply to %s", escapeMarkdown(rec.ReplyTargetAuthor))
		}
		_, _ = fmt.Fprintf(w, "\n\n")

		if target, ok := byID[rec.ReplyTargetID]; ok && rec.HasReplyTarget() {
			_, _ = fmt.Fprintf(w, "> %s\n\n", quote(internal.Preview(target.Content, internal.FeedPreviewLen)))
		}

		_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(rec.Content))
	}

	return nil
}

func quote(text string) string {
	return strings.ReplaceAll(escapeMarkdown(text), "\n", "\n> ")
}

// escapeMarkdown escapes markdown emphasis markers
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "\\*\\*")
	text = strings.ReplaceAll(text, "__", "\\_\\_")
	return text
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
