package classifier

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeContentValidPassthrough(t *testing.T) {
	tests := []string{
		"",
		"plain ascii",
		"café résumé naïve",
		"emoji survive \U0001F525\U0001F680",
		"日本語のテキスト",
	}
	for _, s := range tests {
		if got := SanitizeContent(s); got != s {
			t.Errorf("SanitizeContent(%q) = %q, want unchanged", s, got)
		}
	}
}

func TestSanitizeContentIllFormed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"lone continuation byte", "abc\x80def"},
		{"invalid start byte", "abc\xffdef"},
		{"encoded surrogate half", "abc\xed\xa0\x80def"},
		{"truncated multibyte tail", "caf\xc3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeContent(tt.in)
			if !utf8.ValidString(got) {
				t.Fatalf("output still invalid: %q", got)
			}
			if !strings.Contains(got, "�") {
				t.Errorf("no replacement character in %q", got)
			}
			if strings.Contains(tt.in, "abc") && !strings.Contains(got, "abc") {
				t.Errorf("valid prefix lost: %q", got)
			}
			if strings.Contains(tt.in, "def") && !strings.Contains(got, "def") {
				t.Errorf("valid suffix lost: %q", got)
			}
		})
	}
}
