package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/chat-recorder/internal"
	"github.com/iksnae/chat-recorder/testutil"
)

func TestExportCommand(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	testutil.WriteMasterLog(t, dir, testutil.SampleMasterLog)

	tests := []struct {
		name      string
		args      []string
		wantFiles []string
		wantErr   bool
	}{
		{
			name:    "invalid format",
			args:    []string{"export", "--log-dir", dir, "--format", "invalid"},
			wantErr: true,
		},
		{
			name:      "json",
			args:      []string{"export", "--log-dir", dir, "--format", "json"},
			wantFiles: []string{"chat_log.json"},
		},
		{
			name:      "markdown by date",
			args:      []string{"export", "--log-dir", dir, "--format", "md", "--by-date"},
			wantFiles: []string{"chat_log_20250304.md"},
		},
		{
			name:      "jsonl by author",
			args:      []string{"export", "--log-dir", dir, "--author", "trader_joe"},
			wantFiles: []string{"chat_log.jsonl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := testutil.CreateTempDir(t)
			_, err := runCommand(t, append(tt.args, "--out", out)...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("export error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, name := range tt.wantFiles {
				if _, err := os.Stat(filepath.Join(out, name)); err != nil {
					t.Errorf("expected export file %s: %v", name, err)
				}
			}
		})
	}
}

func TestExportCommand_Content(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	testutil.WriteMasterLog(t, dir, testutil.SampleMasterLog)
	out := testutil.CreateTempDir(t)

	if _, err := runCommand(t, "export", "--log-dir", dir, "--format", "json", "--out", out); err != nil {
		t.Fatal(err)
	}
	records, err := internal.ParseMessageLog(testutil.ReadFile(t, filepath.Join(out, "chat_log.json")))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Errorf("exported %d records, want 3", len(records))
	}

	if _, err := runCommand(t, "export", "--log-dir", dir, "--author", "trader_joe", "--out", out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(testutil.ReadFile(t, filepath.Join(out, "chat_log.jsonl")))), "\n")
	if len(lines) != 1 {
		t.Fatalf("author filter exported %d lines, want 1", len(lines))
	}
	var rec internal.MessageRecord
	testutil.JSONUnmarshal(t, []byte(lines[0]), &rec)
	if rec.Author != "trader_joe" || rec.ReplyTargetID != "7:41 PM_mas1_goodbye" {
		t.Errorf("exported record = %+v", rec)
	}
}

func TestFilterRecords(t *testing.T) {
	records := []internal.MessageRecord{
		{ID: "1", Author: "a", SessionID: "s1"},
		{ID: "2", Author: "b", SessionID: "s1"},
		{ID: "3", Author: "a", SessionID: "s2"},
	}

	tests := []struct {
		author, session string
		want            int
	}{
		{"", "", 3},
		{"a", "", 2},
		{"", "s1", 2},
		{"a", "s2", 1},
		{"c", "", 0},
	}
	for _, tt := range tests {
		if got := filterRecords(records, tt.author, tt.session); len(got) != tt.want {
			t.Errorf("filterRecords(%q, %q) = %d records, want %d", tt.author, tt.session, len(got), tt.want)
		}
	}
}
