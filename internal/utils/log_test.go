package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "zero limit", input: "hello world", limit: 0, expect: ""},
		{name: "negative limit", input: "hello world", limit: -3, expect: ""},
		{name: "shorter than limit", input: "hello", limit: 10, expect: "hello"},
		{name: "exactly at limit", input: "hello", limit: 5, expect: "hello"},
		{name: "cut with ellipsis", input: "hello world", limit: 5, expect: "hello..."},
		{name: "whitespace trimmed before counting", input: "  spaced  ", limit: 6, expect: "spaced"},
		{name: "only whitespace", input: " \n\t ", limit: 4, expect: ""},
		{name: "counts runes not bytes", input: "Привет мир", limit: 6, expect: "Привет..."},
		{name: "multibyte within limit", input: "Résumé", limit: 6, expect: "Résumé"},
		{name: "emoji kept whole", input: "🙂🙂🙂", limit: 2, expect: "🙂🙂..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("TruncateForLog(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.expect)
			}
		})
	}
}
