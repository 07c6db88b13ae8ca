package manpage

import (
	"regexp"
	"strings"
)

// Kind classifies a token segment for highlighting.
type Kind string

const (
	KindPlain   Kind = "plain"
	KindHeading Kind = "heading"
	KindOption  Kind = "option"
	KindPath    Kind = "path"
	KindEnv     Kind = "env"
	KindLiteral Kind = "literal"
	KindCommand Kind = "command"
)

// Segment is one typed span of a line. The segments of a line concatenate
// back to exactly that line's content.
type Segment struct {
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

// tokenPattern recognizes, in priority order: option flags, shouty
// identifiers, filesystem paths, backtick literals, and lowercase
// name(digit) cross-references. Go's regexp uses leftmost-first alternation,
// so the order of alternatives is the priority order.
var tokenPattern = regexp.MustCompile(
	`(--?[A-Za-z0-9][A-Za-z0-9_-]*)` +
		`|([A-Z][A-Z0-9_]{2,})` +
		`|(~?/[^\s]+)` +
		"|(`[^`]*`)" +
		`|([a-z][a-z0-9._-]*\([0-9]\))`,
)

// ClassifyTokens partitions one line (indentation already stripped by the
// caller) into typed segments. A short all-caps line is treated as a single
// heading segment; anything else is scanned for token matches with the gaps
// emitted as plain segments.
func ClassifyTokens(line string) []Segment {
	trimmed := strings.TrimSpace(line)
	if trimmed != "" && len(trimmed) <= maxTopHeadingLen && trimmed == strings.ToUpper(trimmed) {
		return []Segment{{Text: line, Kind: KindHeading}}
	}

	var segments []Segment
	last := 0
	for _, loc := range tokenPattern.FindAllStringIndex(line, -1) {
		start, end := loc[0], loc[1]
		if start > last {
			segments = append(segments, Segment{Text: line[last:start], Kind: KindPlain})
		}
		segments = append(segments, Segment{
			Text: line[start:end],
			Kind: classifyMatch(line, start, end),
		})
		last = end
	}
	if last < len(line) {
		segments = append(segments, Segment{Text: line[last:], Kind: KindPlain})
	}
	return segments
}

// classifyMatch assigns a kind to a raw pattern match, in fixed precedence.
func classifyMatch(line string, start, end int) Kind {
	text := line[start:end]
	switch {
	case strings.HasPrefix(text, "-"):
		// A dash glued to the tail of a word ("well-known") is hyphenation,
		// not an option flag.
		if precededByWordChar(line, start) {
			return KindPlain
		}
		return KindOption
	case strings.HasPrefix(text, "/"), strings.HasPrefix(text, "~/"):
		return KindPath
	case isShoutyIdent(text):
		if precededByWordChar(line, start) {
			return KindPlain
		}
		return KindEnv
	case strings.HasPrefix(text, "`") && strings.HasSuffix(text, "`"):
		return KindLiteral
	case strings.HasSuffix(text, ")"):
		return KindCommand
	default:
		return KindPlain
	}
}

func isShoutyIdent(text string) bool {
	if len(text) < 3 {
		return false
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return text[0] >= 'A' && text[0] <= 'Z'
}

func precededByWordChar(line string, start int) bool {
	if start == 0 {
		return false
	}
	c := line[start-1]
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
