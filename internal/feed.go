package internal

import (
	"fmt"
	"unicode/utf8"
)

// FeedPreviewLen is the number of content characters shown per feed line
const FeedPreviewLen = 50

// FormatFeedLine renders an accepted record as a one-line feed entry:
// "[ts] [REPLY to author] user: content".
func FormatFeedLine(rec MessageRecord) string {
	reply := ""
	if rec.IsReply {
		reply = fmt.Sprintf("[REPLY to %s] ", rec.ReplyTargetAuthor)
	}
	return fmt.Sprintf("[%s] %s%s: %s", rec.Timestamp, reply, rec.Author, Preview(rec.Content, FeedPreviewLen))
}

// Preview shortens content to n characters, marking truncation with "...".
func Preview(content string, n int) string {
	if utf8.RuneCountInString(content) <= n {
		return content
	}
	return truncateRunes(content, n) + "..."
}
