package internal

import (
	"encoding/json"
	"testing"

	"github.com/iksnae/chat-recorder/testutil"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		element ObservedElement
		want    RawMessage
		skip    SkipReason
	}{
		{
			name: "plain message",
			element: ObservedElement{
				Text:      "mas1: ES1 (D)\n+0.04%",
				Timestamp: " 7:45 PM ",
				Username:  "mas1:",
				Body:      "ES1 (D)\n+0.04%",
			},
			want: RawMessage{Timestamp: "7:45 PM", Author: "mas1", Content: "ES1 (D)\n+0.04%"},
		},
		{
			name: "content after username prefix",
			element: ObservedElement{
				Text:      "trader_joe: buying the dip",
				Timestamp: "10:02",
				Username:  "trader_joe",
			},
			want: RawMessage{Timestamp: "10:02", Author: "trader_joe", Content: "buying the dip"},
		},
		{
			name: "content after last colon",
			element: ObservedElement{
				Text:      "someone said: note: watch NQ",
				Timestamp: "9 AM",
				Username:  "alice",
			},
			want: RawMessage{Timestamp: "9 AM", Author: "alice", Content: "watch NQ"},
		},
		{
			name: "reply with header",
			element: ObservedElement{
				Text:        "@mas1: ES1 (D)\nbob: nice call",
				Timestamp:   "7:46 PM",
				Username:    "bob",
				Body:        "nice call",
				ReplyHeader: "@mas1: ES1 (D)",
			},
			want: RawMessage{
				Timestamp:         "7:46 PM",
				Author:            "bob",
				Content:           "nice call",
				IsReply:           true,
				ReplyTargetAuthor: "mas1",
				ReplyPreview:      "ES1 (D)",
			},
		},
		{
			name: "reply icon without header",
			element: ObservedElement{
				Text:      "bob: agreed with that",
				Timestamp: "7:47 PM",
				Username:  "bob",
				Body:      "agreed with that",
				ReplyIcon: true,
			},
			want: RawMessage{Timestamp: "7:47 PM", Author: "bob", Content: "agreed with that", IsReply: true},
		},
		{
			name:    "short element text",
			element: ObservedElement{Text: "hi there", Timestamp: "7:45 PM", Username: "bob"},
			skip:    SkipShortText,
		},
		{
			name:    "missing timestamp",
			element: ObservedElement{Text: "bob: long enough text", Username: "bob"},
			skip:    SkipNoTimestamp,
		},
		{
			name:    "timestamp without time markers",
			element: ObservedElement{Text: "bob: long enough text", Timestamp: "yesterday", Username: "bob"},
			skip:    SkipNoTimestamp,
		},
		{
			name:    "username too short",
			element: ObservedElement{Text: "b: long enough text", Timestamp: "7:45 PM", Username: "b:"},
			skip:    SkipBadUsername,
		},
		{
			name: "username too long",
			element: ObservedElement{
				Text:      "long enough text",
				Timestamp: "7:45 PM",
				Username:  "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz",
			},
			skip: SkipBadUsername,
		},
		{
			name:    "content too short",
			element: ObservedElement{Text: "bob says something", Timestamp: "7:45 PM", Username: "bob", Body: "k"},
			skip:    SkipShortContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.element)
			if got.Skip != tt.skip {
				t.Fatalf("Extract() skip = %q, want %q", got.Skip, tt.skip)
			}
			if tt.skip != SkipNone {
				if got.OK() {
					t.Error("OK() should be false for a skipped element")
				}
				return
			}
			if got.Message != tt.want {
				t.Errorf("Extract() message = %+v, want %+v", got.Message, tt.want)
			}
		})
	}
}

func TestExtractBatch(t *testing.T) {
	var elements []ObservedElement
	if err := json.Unmarshal([]byte(testutil.SampleElements), &elements); err != nil {
		t.Fatal(err)
	}

	messages, stats := ExtractBatch(elements)
	if len(messages) != 2 {
		t.Fatalf("ExtractBatch() returned %d messages, want 2", len(messages))
	}
	if stats.Elements != 3 || stats.Messages != 2 || stats.SkippedTotal() != 1 {
		t.Errorf("ExtractBatch() stats = %+v", stats)
	}
	if stats.Skipped[SkipShortText] != 1 {
		t.Errorf("Skipped[short_text] = %d, want 1", stats.Skipped[SkipShortText])
	}
	if messages[0].Author != "mas1" || messages[1].ReplyTargetAuthor != "mas1" {
		t.Errorf("ExtractBatch() order not preserved: %+v", messages)
	}
}
