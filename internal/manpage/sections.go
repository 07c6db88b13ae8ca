package manpage

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	goslug "github.com/gosimple/slug"
)

// Anchor is one entry in the recovered section hierarchy. StartLine is the
// heading's own line; EndLine is the inclusive index of the last line
// belonging to the section. ParentID is set only on level-2 anchors.
type Anchor struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Level     int    `json:"level"`
	ParentID  string `json:"parentId,omitempty"`
}

const (
	maxTopHeadingLen   = 72
	maxSubHeadingLen   = 64
	maxSubHeadingWords = 6
	maxSlugLen         = 50
	tabStop            = 8
)

// wellKnownSections are the conventional top-level manpage section names.
// An exact (uppercase) match qualifies as a heading without any blank-line
// adjacency requirement.
var wellKnownSections = map[string]bool{
	"NAME": true, "SYNOPSIS": true, "DESCRIPTION": true, "OPTIONS": true,
	"COMMANDS": true, "EXAMPLES": true, "FILES": true, "ENVIRONMENT": true,
	"EXIT STATUS": true, "RETURN VALUE": true, "STANDARDS": true,
	"COMPATIBILITY": true, "BUGS": true, "SEE ALSO": true, "AUTHOR": true,
	"COPYRIGHT": true,
}

var (
	// manRefPattern matches a page reference like "LS(1)" or "ssl_connect(3ssl)"
	// occupying the whole trimmed line. Used both to reject the page title
	// marker as a heading and to reject cross-references as subheadings.
	manRefPattern = regexp.MustCompile(`^[^\s()]+\([0-9][0-9A-Za-z]*\)$`)

	// allCapsShape matches the loose all-caps heading form: starts with an
	// uppercase letter or digit, continues with uppercase letters, digits,
	// spaces, and a small punctuation set.
	allCapsShape = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 \-_/(),.+]*$`)
)

// DetectSections scans the line sequence and returns the ordered section
// anchors. When no heading can be detected it returns a single synthetic
// anchor spanning the whole document.
func DetectSections(lines []string) []Anchor {
	type candidate struct {
		line  int
		level int
		title string
	}

	var candidates []candidate
	for i := range lines {
		switch {
		case isTopLevelHeading(lines, i):
			candidates = append(candidates, candidate{i, 1, strings.TrimSpace(lines[i])})
		case isSubLevelHeading(lines, i):
			candidates = append(candidates, candidate{i, 2, strings.TrimSpace(lines[i])})
		}
	}

	// A subheading found before any top-level heading has no parent to
	// attach to and is dropped.
	firstTop := -1
	for idx, c := range candidates {
		if c.level == 1 {
			firstTop = idx
			break
		}
	}
	if firstTop < 0 {
		return []Anchor{fallbackAnchor(len(lines))}
	}
	candidates = candidates[firstTop:]

	anchors := make([]Anchor, 0, len(candidates))
	slugCounts := make(map[string]int, len(candidates))
	for idx, c := range candidates {
		base := slugify(c.title)
		if base == "" {
			base = fmt.Sprintf("section-%d", idx+1)
		}
		slugCounts[base]++
		id := base
		if n := slugCounts[base]; n > 1 {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		anchors = append(anchors, Anchor{
			ID:        id,
			Title:     c.title,
			StartLine: c.line,
			Level:     c.level,
		})
	}

	// Attach each level-2 anchor to the nearest preceding level-1 anchor.
	for i := range anchors {
		if anchors[i].Level != 2 {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if anchors[j].Level == 1 {
				anchors[i].ParentID = anchors[j].ID
				break
			}
		}
	}

	// A section ends just before the next anchor at the same or a shallower
	// level, or at the end of the document.
	for i := range anchors {
		end := len(lines) - 1
		for j := i + 1; j < len(anchors); j++ {
			if anchors[j].Level <= anchors[i].Level {
				end = anchors[j].StartLine - 1
				break
			}
		}
		if end < anchors[i].StartLine {
			end = anchors[i].StartLine
		}
		anchors[i].EndLine = end
	}

	return anchors
}

func fallbackAnchor(lineCount int) Anchor {
	end := lineCount - 1
	if end < 0 {
		end = 0
	}
	return Anchor{ID: "document", Title: "DOCUMENT", StartLine: 0, EndLine: end, Level: 1}
}

// isTopLevelHeading reports whether line i is a primary section heading:
// short, unindented, and either a well-known section name or an all-caps
// line adjacent to a blank line.
func isTopLevelHeading(lines []string, i int) bool {
	trimmed := strings.TrimSpace(lines[i])
	if trimmed == "" || len(trimmed) > maxTopHeadingLen {
		return false
	}
	if manRefPattern.MatchString(trimmed) {
		return false
	}
	if indentColumns(lines[i]) > 1 {
		return false
	}
	if wellKnownSections[trimmed] {
		return true
	}
	return allCapsShape.MatchString(trimmed) && adjacentToBlank(lines, i)
}

// isSubLevelHeading reports whether line i is a subsection heading. Only
// evaluated for lines that already failed the top-level test: an indented
// all-caps line, or an unindented title-case line, bounded by a blank line
// or by a body line indented strictly further.
func isSubLevelHeading(lines []string, i int) bool {
	trimmed := strings.TrimSpace(lines[i])
	if trimmed == "" || len(trimmed) > maxSubHeadingLen {
		return false
	}
	if manRefPattern.MatchString(trimmed) {
		return false
	}
	if trimmed == strings.ToLower(trimmed) {
		return false
	}
	if startsWithListMarker(trimmed) {
		return false
	}
	if endsWithTerminalPunct(trimmed) {
		return false
	}
	words := strings.Fields(trimmed)
	if len(words) == 0 || len(words) > maxSubHeadingWords {
		return false
	}

	indent := indentColumns(lines[i])
	if trimmed == strings.ToUpper(trimmed) {
		// Nested ALL-CAPS subsection headings are indented; unindented
		// all-caps lines belong to the top-level rule.
		if indent <= 1 {
			return false
		}
	} else {
		if indent > 1 {
			return false
		}
		if !startsUpper(words[0]) {
			return false
		}
		if !mostWordsCapitalized(words) {
			return false
		}
	}

	return adjacentToBlank(lines, i) || nextBodyIndentedFurther(lines, i)
}

// adjacentToBlank reports whether the line immediately before or after i is
// blank. Document boundaries count as blank.
func adjacentToBlank(lines []string, i int) bool {
	if i == 0 || isBlank(lines[i-1]) {
		return true
	}
	return i+1 >= len(lines) || isBlank(lines[i+1])
}

// nextBodyIndentedFurther reports whether the next non-blank line exists
// and is indented strictly more than line i. This is what catches a
// subsection heading that introduces an option block with no blank line
// between them.
func nextBodyIndentedFurther(lines []string, i int) bool {
	indent := indentColumns(lines[i])
	for j := i + 1; j < len(lines); j++ {
		if isBlank(lines[j]) {
			continue
		}
		return indentColumns(lines[j]) > indent
	}
	return false
}

// indentColumns measures the leading whitespace of a line in columns, with
// tabs advancing to the next 8-column stop.
func indentColumns(line string) int {
	col := 0
	for _, r := range line {
		switch r {
		case ' ':
			col++
		case '\t':
			col = (col/tabStop + 1) * tabStop
		default:
			return col
		}
	}
	return col
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func startsWithListMarker(trimmed string) bool {
	switch r := []rune(trimmed)[0]; r {
	case '-', '*', '+', '•', '·', '‣', '◦':
		return true
	}
	return false
}

func endsWithTerminalPunct(trimmed string) bool {
	return strings.ContainsRune(".:;!?", rune(trimmed[len(trimmed)-1]))
}

func startsUpper(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

// mostWordsCapitalized reports whether at least 60% of the words start with
// an uppercase letter.
func mostWordsCapitalized(words []string) bool {
	capped := 0
	for _, w := range words {
		if startsUpper(w) {
			capped++
		}
	}
	return capped*5 >= len(words)*3
}

// slugReplacer blanks the runes goslug would otherwise expand into English
// words ("&" -> "and", "@" -> "at"); ids keep only the heading's own words.
var slugReplacer = strings.NewReplacer("&", " ", "@", " ")

// slugify derives an anchor ID from a heading title: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, trimmed, and truncated to
// 50 characters. Returns "" when nothing survives.
func slugify(title string) string {
	s := goslug.Make(slugReplacer.Replace(title))
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	return s
}
