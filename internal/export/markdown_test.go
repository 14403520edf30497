package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/chat-recorder/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		records []internal.MessageRecord
		want    []string
		notWant []string
	}{
		{
			name:    "full log",
			records: sampleRecords(),
			want: []string{
				"# Chat Log",
				"**Messages:** 3",
				"## 20250304",
				"## 20250305",
				"**mas1** (7:40 PM)",
				"**bob** (7:41 PM) ↩ reply to mas1",
				"> ES1 (D)\n> +0.04%",
				"nice \\*\\*call\\*\\*",
			},
			notWant: []string{"nice **call**"},
		},
		{
			name:    "empty log",
			records: nil,
			want:    []string{"# Chat Log", "**Messages:** 0"},
		},
		{
			name: "undated records",
			records: []internal.MessageRecord{
				{ID: "x", Timestamp: "1:00", Author: "a", Content: "legacy"},
			},
			want: []string{"## Undated", "legacy"},
		},
		{
			name: "unresolved reply has no quote",
			records: []internal.MessageRecord{
				{ID: "x", Timestamp: "1:00", Author: "a", Content: "who?", IsReply: true, ReplyTargetAuthor: "ghost"},
			},
			want:    []string{"↩ reply to ghost"},
			notWant: []string{"> "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&MarkdownExporter{}).Export(tt.records, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(output, notWantStr) {
					t.Errorf("Output should not contain %q, got:\n%s", notWantStr, output)
				}
			}
		})
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Hello world", want: "Hello world"},
		{input: "This is **bold** text", want: "This is \\*\\*bold\\*\\* text"},
		{input: "This is __underlined__ text", want: "This is \\_\\_underlined\\_\\_ text"},
	}

	for _, tt := range tests {
		if got := escapeMarkdown(tt.input); got != tt.want {
			t.Errorf("escapeMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
