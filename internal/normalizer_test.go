package internal

import (
	"testing"
)

func TestNormalizeContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "futures ticker",
			input: "ES1 (D)\n+0.04%",
			want:  "ES1 (D)\n[PRICE]%",
		},
		{
			name:  "futures ticker other price",
			input: "ES1 (D)\n+0.05%",
			want:  "ES1 (D)\n[PRICE]%",
		},
		{
			name:  "negative price",
			input: "ES1 (D)\n-0.12%",
			want:  "ES1 (D)\n[PRICE]%",
		},
		{
			name:  "delayed ticker",
			input: "VIX (D)\n+5.23%",
			want:  "VIX (D)\n[PRICE]%",
		},
		{
			name:  "bare ticker",
			input: "SPY\n+1.45%",
			want:  "SPY\n[PRICE]%",
		},
		{
			name:  "unsigned integer percent",
			input: "QQQ\n2%",
			want:  "QQQ\n[PRICE]%",
		},
		{
			name:  "any parenthesized qualifier",
			input: "NQ1 (15m)\n+0.30%",
			want:  "NQ1 (15m)\n[PRICE]%",
		},
		{
			name:  "plain prose",
			input: "Hello world",
			want:  "Hello world",
		},
		{
			name:  "trailing text preserved",
			input: "ES1 (D)\n+0.04%\nSome additional text",
			want:  "ES1 (D)\n[PRICE]%\nSome additional text",
		},
		{
			name:  "multiple quotes",
			input: "SPY\n+1.45%\nlooking heavy\nVIX (D)\n-5.23%",
			want:  "SPY\n[PRICE]%\nlooking heavy\nVIX (D)\n[PRICE]%",
		},
		{
			name:  "percent without newline",
			input: "up 5% today",
			want:  "up 5% today",
		},
		{
			name:  "newline without percent",
			input: "SPY\n450",
			want:  "SPY\n450",
		},
		{
			name:  "lowercase label is not a ticker",
			input: "spy\n+1.45%",
			want:  "spy\n+1.45%",
		},
		{
			name:  "percent on a prose line",
			input: "my thoughts\nmaybe 50% chance",
			want:  "my thoughts\nmaybe 50% chance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeContent(tt.input); got != tt.want {
				t.Errorf("NormalizeContent(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeContent_Idempotent(t *testing.T) {
	inputs := []string{
		"ES1 (D)\n+0.04%",
		"SPY\n+1.45%\nlooking heavy\nVIX (D)\n-5.23%",
		"Hello world",
		"NQ1 (15m)\n+0.30%\n",
		"[PRICE]%\n%",
	}

	for _, input := range inputs {
		once := NormalizeContent(input)
		twice := NormalizeContent(once)
		if once != twice {
			t.Errorf("NormalizeContent not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestNormalizeContent_NoMarkersUnchanged(t *testing.T) {
	inputs := []string{
		"",
		"gm",
		"ABC\nDEF",
		"100%",
		"SPY +1.45%",
	}

	for _, input := range inputs {
		if got := NormalizeContent(input); got != input {
			t.Errorf("NormalizeContent(%q) = %q, want unchanged", input, got)
		}
	}
}
