package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RawMessage is one chat message as observed on a single poll, before
// identity processing.
type RawMessage struct {
	Timestamp         string
	Author            string
	Content           string
	IsReply           bool
	ReplyPreview      string
	ReplyTargetAuthor string
}

// MessageRecord is an accepted, identity-stamped message in the master log.
// The JSON field names match the logs written by earlier scraper versions.
type MessageRecord struct {
	ID                string `json:"msg_id" yaml:"msg_id"`
	Date              string `json:"date,omitempty" yaml:"date,omitempty"`
	Timestamp         string `json:"timestamp" yaml:"timestamp"`
	Author            string `json:"username" yaml:"username"`
	Content           string `json:"content" yaml:"content"`
	IsReply           bool   `json:"isReply" yaml:"isReply"`
	ReplyTargetAuthor string `json:"replied_to,omitempty" yaml:"replied_to,omitempty"`
	ReplyTargetID     string `json:"reply_msg_id,omitempty" yaml:"reply_msg_id,omitempty"`
	CapturedAt        string `json:"captured_at,omitempty" yaml:"captured_at,omitempty"`
	SessionID         string `json:"session_id,omitempty" yaml:"session_id,omitempty"`
}

// HasReplyTarget reports whether the record is a reply with a resolved target.
func (r MessageRecord) HasReplyTarget() bool {
	return r.IsReply && r.ReplyTargetID != ""
}

// GetCapturedAt returns the ingest time, or the zero time if it is missing
// or unparseable.
func (r MessageRecord) GetCapturedAt() time.Time {
	if r.CapturedAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, r.CapturedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ObservedElement is a chat element as captured from the rendered page.
// Fields hold the text of the sub-elements the capture found; any of them may
// be empty.
type ObservedElement struct {
	Text        string `json:"text" yaml:"text"`
	Timestamp   string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Username    string `json:"username,omitempty" yaml:"username,omitempty"`
	Body        string `json:"body,omitempty" yaml:"body,omitempty"`
	ReplyHeader string `json:"reply_header,omitempty" yaml:"reply_header,omitempty"`
	ReplyIcon   bool   `json:"reply_icon,omitempty" yaml:"reply_icon,omitempty"`
}

// ParseMessageLog parses a serialized master log. Only a JSON array of
// objects is accepted; null, scalars and nested arrays are rejected. Unknown
// fields are ignored.
func ParseMessageLog(data []byte) ([]MessageRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("message log is not a JSON array: %w", err)
	}
	if raw == nil {
		return nil, errors.New("message log is not a JSON array")
	}

	records := make([]MessageRecord, 0, len(raw))
	for i, item := range raw {
		if trimmed := bytes.TrimSpace(item); len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("record %d: not a JSON object", i)
		}
		var rec MessageRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// MarshalMessageLog serializes records the way the master log stores them.
func MarshalMessageLog(records []MessageRecord) ([]byte, error) {
	if records == nil {
		records = []MessageRecord{}
	}
	return json.MarshalIndent(records, "", "  ")
}
