package testutil

import (
	"path/filepath"
	"testing"
)

// SampleMasterLog is a master log as written by earlier scraper versions,
// including a field the current record type does not know about.
const SampleMasterLog = `[
  {
    "date": "20250304",
    "timestamp": "7:40 PM",
    "username": "mas1",
    "content": "hello world",
    "isReply": false,
    "msg_id": "7:40 PM_mas1_hello world"
  },
  {
    "date": "20250304",
    "timestamp": "7:41 PM",
    "username": "mas1",
    "content": "goodbye",
    "isReply": false,
    "msg_id": "7:41 PM_mas1_goodbye",
    "legacy_flag": true
  },
  {
    "date": "20250304",
    "timestamp": "7:42 PM",
    "username": "trader_joe",
    "content": "see ya",
    "isReply": true,
    "replied_to": "mas1",
    "reply_msg_id": "7:41 PM_mas1_goodbye",
    "msg_id": "7:42 PM_trader_joe_see ya"
  }
]`

// SampleElements is a captured poll as written by the browser-side dumper.
const SampleElements = `[
  {"text": "mas1: ES1 (D)\n+0.04%", "timestamp": "7:45 PM", "username": "mas1:", "body": "ES1 (D)\n+0.04%"},
  {"text": "@mas1: ES1\nbob: nice call", "timestamp": "7:46 PM", "username": "bob", "body": "nice call", "reply_header": "@mas1: ES1", "reply_icon": true},
  {"text": "x", "timestamp": "7:47 PM", "username": "bob"}
]`

// WriteMasterLog writes a master log file into dir and returns its path
func WriteMasterLog(t *testing.T, dir, content string) string {
	t.Helper()
	return WriteFile(t, dir, "MASTER_LOG.json", []byte(content))
}

// WriteElementsFile writes a captured poll file into dir and returns its path
func WriteElementsFile(t *testing.T, dir, content string) string {
	t.Helper()
	return WriteFile(t, dir, filepath.Join("capture", "elements.json"), []byte(content))
}
