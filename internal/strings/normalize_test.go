package strings

import "testing"

func TestNormalizeLowerTrimSpace(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"  JSON ", "json"},
		{"In_Progress", "in_progress"},
		{"\tmarkdown\n", "markdown"},
	}

	for _, tc := range cases {
		if got := NormalizeLowerTrimSpace(tc.input); got != tc.want {
			t.Errorf("NormalizeLowerTrimSpace(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestIsBlank(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"\n\t\r ", true},
		{" x ", false},
	}

	for _, tc := range cases {
		if got := IsBlank(tc.input); got != tc.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeNewlines(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lf untouched", "a\nb", "a\nb"},
		{"crlf", "a\r\nb\r\n", "a\nb\n"},
		{"bare cr", "a\rb", "a\nb"},
		{"mixed", "a\r\nb\rc\n", "a\nb\nc\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeNewlines(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestTrimTrailingNewlines(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"a\n", "a"},
		{"a\r\n\r\n", "a"},
		{"a\nb", "a\nb"},
		{"\n\n", ""},
	}

	for _, tc := range cases {
		if got := TrimTrailingNewlines(tc.input); got != tc.want {
			t.Errorf("TrimTrailingNewlines(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestLeadingSpaces(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"abc", 0},
		{"  abc", 2},
		{"    ", 4},
		{"\t abc", 0},
	}

	for _, tc := range cases {
		if got := LeadingSpaces(tc.input); got != tc.want {
			t.Errorf("LeadingSpaces(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestIndentBlock(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		spaces int
		want   string
	}{
		{"empty", "", 2, ""},
		{"zero spaces", "a\nb", 0, "a\nb"},
		{"single line", "a", 2, "  a"},
		{"multi line", "a\nb", 3, "   a\n   b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IndentBlock(tc.input, tc.spaces); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
