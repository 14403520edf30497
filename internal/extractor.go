package internal

import (
	"strings"
	"unicode/utf8"
)

const (
	minElementTextLen = 10
	minUsernameLen    = 2
	maxUsernameLen    = 50
	minContentLen     = 2
)

// SkipReason explains why an observed element did not produce a message
type SkipReason string

const (
	SkipNone         SkipReason = ""
	SkipShortText    SkipReason = "short_text"
	SkipNoTimestamp  SkipReason = "no_timestamp"
	SkipBadUsername  SkipReason = "bad_username"
	SkipShortContent SkipReason = "short_content"
)

// Extraction is the outcome of extracting one element. Exactly one of
// Message and Skip is meaningful: Skip is SkipNone when Message is set.
type Extraction struct {
	Message RawMessage
	Skip    SkipReason
}

// OK reports whether the element produced a message.
func (e Extraction) OK() bool {
	return e.Skip == SkipNone
}

// ExtractStats counts the outcome of an extracted batch
type ExtractStats struct {
	Elements int
	Messages int
	Skipped  map[SkipReason]int
}

// SkippedTotal returns the number of elements that did not produce a message.
func (s ExtractStats) SkippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// Extract turns a captured chat element into a raw message.
func Extract(el ObservedElement) Extraction {
	text := strings.TrimSpace(el.Text)
	if utf8.RuneCountInString(text) < minElementTextLen {
		return Extraction{Skip: SkipShortText}
	}

	timestamp := strings.TrimSpace(el.Timestamp)
	if !looksLikeTimestamp(timestamp) {
		return Extraction{Skip: SkipNoTimestamp}
	}

	username := cleanUsername(el.Username)
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return Extraction{Skip: SkipBadUsername}
	}

	source := el.Body
	if source == "" {
		source = el.Text
	}
	content := parseContent(source, username)
	if utf8.RuneCountInString(content) < minContentLen {
		return Extraction{Skip: SkipShortContent}
	}

	msg := RawMessage{
		Timestamp: timestamp,
		Author:    username,
		Content:   content,
	}

	header := strings.TrimSpace(el.ReplyHeader)
	if el.ReplyIcon || isReplyHeader(header) {
		msg.IsReply = true
		msg.ReplyTargetAuthor, msg.ReplyPreview = parseReplyHeader(header)
	}

	return Extraction{Message: msg}
}

// ExtractBatch extracts every element of a poll, preserving order.
func ExtractBatch(elements []ObservedElement) ([]RawMessage, ExtractStats) {
	stats := ExtractStats{
		Elements: len(elements),
		Skipped:  make(map[SkipReason]int),
	}
	messages := make([]RawMessage, 0, len(elements))

	for i, el := range elements {
		ex := Extract(el)
		if !ex.OK() {
			stats.Skipped[ex.Skip]++
			LogDebug("Skipping element %d: %s", i, ex.Skip)
			continue
		}
		messages = append(messages, ex.Message)
	}
	stats.Messages = len(messages)

	return messages, stats
}

func looksLikeTimestamp(s string) bool {
	return strings.Contains(s, ":") || strings.Contains(s, "AM") || strings.Contains(s, "PM")
}

func cleanUsername(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(s), ":", ""))
}

// parseContent pulls the message body out of text that may still carry the
// author prefix. Tried in order: text after "username:", text after the last
// colon, the whole text.
func parseContent(text, username string) string {
	if text == "" {
		return ""
	}

	if username != "" {
		if pos := strings.Index(text, username); pos != -1 {
			if colon := strings.Index(text[pos:], ":"); colon != -1 {
				if content := strings.TrimSpace(text[pos+colon+1:]); content != "" {
					return content
				}
			}
		}
	}

	if i := strings.LastIndex(text, ":"); i != -1 {
		if content := strings.TrimSpace(text[i+1:]); content != "" {
			return content
		}
	}

	return strings.TrimSpace(text)
}

func isReplyHeader(s string) bool {
	return strings.HasPrefix(s, "@") && strings.Contains(s, ":")
}

// parseReplyHeader splits "@author: preview". A header without the @ marker
// yields no target.
func parseReplyHeader(header string) (author, preview string) {
	if !isReplyHeader(header) {
		return "", ""
	}
	author, preview, _ = strings.Cut(header[1:], ":")
	return strings.TrimSpace(author), strings.TrimSpace(preview)
}
