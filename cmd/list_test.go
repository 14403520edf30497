package cmd

import (
	"strings"
	"testing"

	"github.com/iksnae/chat-recorder/testutil"
)

func TestListCommand(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	testutil.WriteMasterLog(t, dir, testutil.SampleMasterLog)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "all messages",
			args: []string{"list", "--log-dir", dir},
			want: []string{"Showing 3 of 3 message(s)", "hello world", "goodbye", "↩ mas1 see ya"},
		},
		{
			name:    "by author",
			args:    []string{"list", "--log-dir", dir, "--author", "mas1"},
			want:    []string{"Showing 2 of 2", "goodbye"},
			notWant: []string{"see ya"},
		},
		{
			name:    "limit keeps most recent",
			args:    []string{"list", "--log-dir", dir, "--limit", "1"},
			want:    []string{"Showing 1 of 3", "see ya"},
			notWant: []string{"hello world"},
		},
		{
			name: "unknown author",
			args: []string{"list", "--log-dir", dir, "--author", "ghost"},
			want: []string{"No messages found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, tt.args...)
			if err != nil {
				t.Fatalf("list error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output should contain %q, got:\n%s", want, out)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(out, notWant) {
					t.Errorf("output should not contain %q, got:\n%s", notWant, out)
				}
			}
		})
	}
}

func TestListCommand_NoLog(t *testing.T) {
	if _, err := runCommand(t, "list", "--log-dir", testutil.CreateTempDir(t)); err == nil {
		t.Error("list should fail without a master log")
	}
}
