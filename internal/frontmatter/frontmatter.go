// Package frontmatter splits markdown files that open with a YAML header
// bounded by "---" lines.
package frontmatter

import "strings"

const Delimiter = "---"

// Split separates the header block from the body. ok is false when raw does
// not open with a delimiter line or the header is never closed. A trailing
// \r is tolerated on delimiter lines. The body is returned exactly as it
// appears after the closing delimiter line.
func Split(raw string) (header, body string, ok bool) {
	first, rest, found := strings.Cut(raw, "\n")
	if !found || strings.TrimSuffix(first, "\r") != Delimiter {
		return "", "", false
	}
	var hdr strings.Builder
	for {
		line, next, more := strings.Cut(rest, "\n")
		if strings.TrimSuffix(line, "\r") == Delimiter {
			return hdr.String(), next, true
		}
		if !more {
			return "", "", false
		}
		hdr.WriteString(line)
		hdr.WriteByte('\n')
		rest = next
	}
}
