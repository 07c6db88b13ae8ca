// Package render writes parsed manual pages to a terminal: classified
// token highlighting in view mode, grep-style output for find mode, and the
// reduced per-line view for filter mode. Color is applied only when the
// output is an interactive terminal and NO_COLOR is unset.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"github.com/betterman/manviewer/internal/manpage"
)

type Renderer struct {
	out   io.Writer
	color bool
	width int
}

func New(out io.Writer) *Renderer {
	r := &Renderer{out: out}
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		r.color = os.Getenv("NO_COLOR") == ""
		if w, _, err := term.GetSize(f.Fd()); err == nil && w > 0 {
			r.width = w
		}
	}
	return r
}

// Document prints every line with token highlighting. Indentation is
// stripped before classification and re-applied verbatim, since it is a
// layout concern rather than content.
func (r *Renderer) Document(lines []string) {
	for _, line := range lines {
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		content := line[len(indent):]
		fmt.Fprint(r.out, indent)
		for _, seg := range manpage.ClassifyTokens(content) {
			fmt.Fprint(r.out, r.styled(seg))
		}
		fmt.Fprintln(r.out)
	}
}

func (r *Renderer) styled(seg manpage.Segment) string {
	if !r.color {
		return seg.Text
	}
	if style, ok := styleFor(seg.Kind); ok {
		return style.Render(seg.Text)
	}
	return seg.Text
}

// Outline prints the section hierarchy with line ranges.
func (r *Renderer) Outline(anchors []manpage.Anchor) {
	for _, a := range anchors {
		indent := ""
		if a.Level == 2 {
			indent = "  "
		}
		title := a.Title
		if r.color {
			title = headingStyle.Render(title)
		}
		rangeLabel := fmt.Sprintf("[%d-%d]", a.StartLine+1, a.EndLine+1)
		if r.color {
			rangeLabel = mutedStyle.Render(rangeLabel)
		}
		fmt.Fprintf(r.out, "%s%s %s\n", indent, title, rangeLabel)
	}
}

// FindResults prints one numbered line per match, with the matched span
// highlighted within the line.
func (r *Renderer) FindResults(lines []string, matches []manpage.Match) {
	byLine := make(map[int][]manpage.Match, len(matches))
	var order []int
	for _, m := range matches {
		if _, seen := byLine[m.LineIndex]; !seen {
			order = append(order, m.LineIndex)
		}
		byLine[m.LineIndex] = append(byLine[m.LineIndex], m)
	}

	for _, idx := range order {
		line := lines[idx]
		rendered := highlightSpans(line, byLine[idx], r.color)
		fmt.Fprintf(r.out, "%s %s\n", r.lineNumber(idx), r.truncate(rendered))
	}
	fmt.Fprintf(r.out, "%d match(es)\n", len(matches))
}

// FilterResults prints the reduced document: only matching lines, with a
// match count suffix when a line matched more than once.
func (r *Renderer) FilterResults(filtered []manpage.FilterLine) {
	for _, fl := range filtered {
		suffix := ""
		if fl.MatchCount > 1 {
			suffix = fmt.Sprintf(" (x%d)", fl.MatchCount)
			if r.color {
				suffix = mutedStyle.Render(suffix)
			}
		}
		fmt.Fprintf(r.out, "%s %s%s\n", r.lineNumber(fl.LineIndex), strings.TrimSpace(fl.Text), suffix)
	}
}

func (r *Renderer) lineNumber(idx int) string {
	label := fmt.Sprintf("%5d:", idx+1)
	if r.color {
		return mutedStyle.Render(label)
	}
	return label
}

func (r *Renderer) truncate(s string) string {
	// Only safe without color: ANSI sequences would be cut mid-escape.
	if r.width > 8 && !r.color {
		return runewidth.Truncate(s, r.width-8, "…")
	}
	return s
}

// highlightSpans rebuilds a line with its match ranges emphasized. Matches
// arrive in ascending offset order from the search engine.
func highlightSpans(line string, matches []manpage.Match, color bool) string {
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if m.Start < last || m.End > len(line) {
			continue
		}
		b.WriteString(line[last:m.Start])
		span := line[m.Start:m.End]
		if color {
			span = matchStyle.Render(span)
		}
		b.WriteString(span)
		last = m.End
	}
	b.WriteString(line[last:])
	return b.String()
}
