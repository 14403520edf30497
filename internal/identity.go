package internal

const (
	// DefaultPrefixLen is the number of normalized content characters the
	// live recorder folds into a message id.
	DefaultPrefixLen = 50
	// OfflinePrefixLen is the shorter prefix used by the maintenance pass,
	// which catches near-duplicates the live id kept apart.
	OfflinePrefixLen = 20

	idSeparator = "_"
)

// IDGenerator derives message ids from (timestamp, author, content).
//
// Fields are joined with "_" without escaping. A timestamp or author that
// itself contains "_" can make two different messages share an id.
type IDGenerator struct {
	PrefixLen int
}

// NewIDGenerator returns a generator using prefixLen characters of
// normalized content. Non-positive values fall back to DefaultPrefixLen.
func NewIDGenerator(prefixLen int) IDGenerator {
	if prefixLen <= 0 {
		prefixLen = DefaultPrefixLen
	}
	return IDGenerator{PrefixLen: prefixLen}
}

// Generate returns the id for a message.
func (g IDGenerator) Generate(timestamp, author, content string) string {
	n := g.PrefixLen
	if n <= 0 {
		n = DefaultPrefixLen
	}
	prefix := truncateRunes(NormalizeContent(content), n)
	return timestamp + idSeparator + author + idSeparator + prefix
}

// GenerateMessageID returns the live id for a message.
func GenerateMessageID(timestamp, author, content string) string {
	return NewIDGenerator(DefaultPrefixLen).Generate(timestamp, author, content)
}

// truncateRunes returns the first n characters of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
