package internal

import (
	"regexp"
	"strings"
)

// PricePlaceholder replaces the numeric part of a quote run.
const PricePlaceholder = "[PRICE]%"

// Quote widgets render as "<label>\n<signed number>%". The label survives
// normalization; the number is what changes between polls.
var quotePatterns = []*regexp.Regexp{
	// SPY\n+1.45%
	regexp.MustCompile(`([A-Z]+)\n[+-]?\d+\.?\d*%`),
	// VIX (D)\n-5.23%
	regexp.MustCompile(`([A-Z]+\s*\([A-Z]\))\n[+-]?\d+\.?\d*%`),
	// ES1 (D)\n+0.04%
	regexp.MustCompile(`([A-Z0-9]+\s*\([A-Z]\))\n[+-]?\d+\.?\d*%`),
	// NQ1 (15m)\n+0.30%
	regexp.MustCompile(`([A-Z0-9]+\s*\([^)]+\))\n[+-]?\d+\.?\d*%`),
}

var quoteReplacement = "${1}\n" + PricePlaceholder

// NormalizeContent strips live quote values from message text so that a
// message keeps the same identity while its embedded prices update. The
// result is only used for identity, never for display.
func NormalizeContent(content string) string {
	if !strings.Contains(content, "\n") || !strings.Contains(content, "%") {
		return content
	}

	normalized := content
	for _, re := range quotePatterns {
		normalized = re.ReplaceAllString(normalized, quoteReplacement)
	}
	return normalized
}
