package manpage

import "strings"

// NormalizeLines splits raw text into logical lines, independent of the
// source line-ending convention (CRLF, lone CR, or LF). A final empty
// element left behind by a trailing terminator is dropped; all other blank
// lines are preserved.
func NormalizeLines(raw string) []string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
