package manpage

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxMatches caps the total number of find matches across a document. The
// cap is backpressure against pathological inputs (a one-character query
// over a huge page), not an error: a capped result is valid but incomplete.
const MaxMatches = 20000

// BlankPreview is the preview shown for a match on an all-whitespace line.
const BlankPreview = "(blank line)"

// Match is one find-mode occurrence of the query. Start and End are byte
// offsets within the line, End exclusive.
type Match struct {
	LineIndex int    `json:"lineIndex"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Preview   string `json:"preview"`
}

// FilterLine is the filter-mode view of one matching line.
type FilterLine struct {
	LineIndex  int    `json:"lineIndex"`
	Text       string `json:"text"`
	MatchCount int    `json:"matchCount"`
}

// Search returns every occurrence of query in the line sequence, in
// ascending (line, offset) order. The query is trimmed first; an empty query
// yields no matches. Matching is case-insensitive unless caseSensitive is
// set. Offsets always index into the original line: every match spans
// exactly len(query) bytes, so runes whose case variants differ in byte
// length never match case-insensitively.
//
// The second return value reports truncation: it is true only when an
// occurrence beyond the MaxMatches cap actually exists.
func Search(lines []string, query string, caseSensitive bool) ([]Match, bool) {
	needle := strings.TrimSpace(query)
	if needle == "" {
		return nil, false
	}
	loweredNeedle := strings.ToLower(needle)

	var matches []Match
	for i, line := range lines {
		// ASCII folds in place, so one lowered copy keeps byte offsets
		// valid. Lines or needles with multibyte runes fall back to a
		// fixed-width EqualFold scan over the original bytes.
		haystack := line
		want := needle
		windowed := false
		if !caseSensitive {
			if isASCII(line) && isASCII(needle) {
				haystack = strings.ToLower(line)
				want = loweredNeedle
			} else {
				windowed = true
			}
		}

		preview := strings.TrimSpace(line)
		if preview == "" {
			preview = BlankPreview
		}

		from := 0
		for from+len(needle) <= len(line) {
			var idx int
			if windowed {
				idx = indexFold(line[from:], needle)
			} else {
				idx = strings.Index(haystack[from:], want)
			}
			if idx < 0 {
				break
			}
			start := from + idx
			if len(matches) == MaxMatches {
				return matches, true
			}
			matches = append(matches, Match{
				LineIndex: i,
				Start:     start,
				End:       start + len(needle),
				Preview:   preview,
			})
			from = start + len(needle)
		}
	}
	return matches, false
}

// indexFold returns the byte offset of the first case-insensitive
// occurrence of needle in s, comparing fixed-width windows of the original
// bytes so the offset is always valid in s.
func indexFold(s, needle string) int {
	for i := 0; i+len(needle) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// AggregateFilterLines reduces a match list (in any order) to one entry per
// distinct line, ascending by line index, with per-line match counts.
func AggregateFilterLines(lines []string, matches []Match) []FilterLine {
	if len(matches) == 0 {
		return nil
	}

	counts := make(map[int]int)
	for _, m := range matches {
		counts[m.LineIndex]++
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	out := make([]FilterLine, 0, len(indices))
	for _, idx := range indices {
		text := ""
		if idx >= 0 && idx < len(lines) {
			text = lines[idx]
		}
		out = append(out, FilterLine{LineIndex: idx, Text: text, MatchCount: counts[idx]})
	}
	return out
}
