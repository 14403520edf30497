package internal

import "strings"

// HistoryReader exposes per-author message history
type HistoryReader interface {
	HistoryFor(author string) []MessageRecord
}

// ReplyResolver attributes a reply to the prior message it most likely
// answers, using the truncated preview the chat shows above replies.
//
// Resolution is a heuristic: the most recent message from the target author
// whose content contains (or starts with) the preview wins, even if an older
// message would match better. Without a match the author's latest message is
// used. Near-identical posts by the same author can be misattributed.
type ReplyResolver struct {
	history HistoryReader
}

// NewReplyResolver creates a resolver reading from history
func NewReplyResolver(history HistoryReader) *ReplyResolver {
	return &ReplyResolver{history: history}
}

// Resolve returns the id of the message being replied to. ok is false when
// the target author is unknown or has no history.
func (r *ReplyResolver) Resolve(targetAuthor, preview string) (id string, ok bool) {
	if targetAuthor == "" {
		return "", false
	}

	candidates := r.history.HistoryFor(targetAuthor)
	if len(candidates) == 0 {
		return "", false
	}

	if preview != "" {
		needle := normalizeForMatch(preview)
		for i := len(candidates) - 1; i >= 0; i-- {
			content := normalizeForMatch(candidates[i].Content)
			if strings.Contains(content, needle) || strings.HasPrefix(content, needle) {
				return candidates[i].ID, true
			}
		}
		LogDebug("No message from %s matches reply preview %q, using latest", targetAuthor, preview)
	}

	return candidates[len(candidates)-1].ID, true
}

func normalizeForMatch(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
