package frontmatter

import "testing"

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		header string
		body   string
		ok     bool
	}{
		{"basic", "---\na: 1\n---\nbody\n", "a: 1\n", "body\n", true},
		{"empty header", "---\n---\n", "", "", true},
		{"closing at eof", "---\na: 1\n---", "a: 1\n", "", true},
		{"crlf", "---\r\na: 1\r\n---\r\nbody", "a: 1\r\n", "body", true},
		{"second delimiter stays in body", "---\n---\n---\n", "", "---\n", true},
		{"dashes inside a line", "---\na: ---x\n---\n", "a: ---x\n", "", true},
		{"no header", "a: 1\n", "", "", false},
		{"only opening", "---", "", "", false},
		{"unterminated", "---\na: 1\n", "", "", false},
		{"leading space", " ---\na\n---\n", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body, ok := Split(tt.raw)
			if ok != tt.ok || header != tt.header || body != tt.body {
				t.Errorf("Split(%q) = %q, %q, %v; want %q, %q, %v",
					tt.raw, header, body, ok, tt.header, tt.body, tt.ok)
			}
		})
	}
}
