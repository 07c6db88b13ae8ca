package manpage

import (
	"strings"
	"testing"
)

func TestDetectSectionsBasicPage(t *testing.T) {
	input := "LS(1)\n\nNAME\n\nls - list directory contents\n\nSYNOPSIS\n\nls [OPTION]...\n\nOPTIONS\n\n-a, --all show hidden\n"
	lines := NormalizeLines(input)

	anchors := DetectSections(lines)

	wantTitles := []string{"NAME", "SYNOPSIS", "OPTIONS"}
	if len(anchors) != len(wantTitles) {
		t.Fatalf("got %d anchors %+v, want %d", len(anchors), anchors, len(wantTitles))
	}
	for i, want := range wantTitles {
		if anchors[i].Title != want {
			t.Errorf("anchor %d title = %q, want %q", i, anchors[i].Title, want)
		}
		if anchors[i].Level != 1 {
			t.Errorf("anchor %q level = %d, want 1", anchors[i].Title, anchors[i].Level)
		}
	}
	// The page title marker must never become a section.
	for _, a := range anchors {
		if a.Title == "LS(1)" {
			t.Errorf("title marker LS(1) misclassified as a heading")
		}
	}
}

func TestDetectSectionsSubheadingWithoutBlankLine(t *testing.T) {
	lines := []string{
		"OPTIONS",
		"   SEARCH",
		"       --pattern match lines against a pattern",
		"AUTHOR",
	}

	anchors := DetectSections(lines)

	if len(anchors) != 3 {
		t.Fatalf("got %d anchors %+v, want 3", len(anchors), anchors)
	}
	options, search, author := anchors[0], anchors[1], anchors[2]
	if options.Title != "OPTIONS" || options.Level != 1 {
		t.Fatalf("first anchor = %+v, want level-1 OPTIONS", options)
	}
	if search.Title != "SEARCH" || search.Level != 2 {
		t.Fatalf("second anchor = %+v, want level-2 SEARCH", search)
	}
	if search.ParentID != options.ID {
		t.Errorf("SEARCH parent = %q, want %q", search.ParentID, options.ID)
	}
	if author.Title != "AUTHOR" || author.Level != 1 {
		t.Fatalf("third anchor = %+v, want level-1 AUTHOR", author)
	}
	if search.EndLine != 2 {
		t.Errorf("SEARCH endLine = %d, want 2", search.EndLine)
	}
	if options.EndLine != 2 {
		t.Errorf("OPTIONS endLine = %d, want 2", options.EndLine)
	}
}

func TestDetectSectionsFallbackAnchor(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"no headings", []string{"just some prose", "more prose"}},
		{"empty sequence", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anchors := DetectSections(tt.lines)
			if len(anchors) != 1 {
				t.Fatalf("got %d anchors, want 1", len(anchors))
			}
			a := anchors[0]
			if a.ID != "document" || a.Title != "DOCUMENT" || a.Level != 1 {
				t.Errorf("fallback anchor = %+v", a)
			}
			if a.StartLine != 0 || a.EndLine < a.StartLine {
				t.Errorf("fallback range = [%d, %d]", a.StartLine, a.EndLine)
			}
		})
	}
}

func TestDetectSectionsOrphanSubheadingDropped(t *testing.T) {
	lines := []string{
		"   LOCAL SETTINGS",
		"       body text goes here",
		"",
		"prose only after that",
	}
	anchors := DetectSections(lines)
	if len(anchors) != 1 || anchors[0].ID != "document" {
		t.Fatalf("expected whole-document fallback, got %+v", anchors)
	}

	// An orphan before the first top-level heading is dropped, but later
	// anchors survive.
	lines = []string{
		"   EARLY NOTES",
		"       body",
		"",
		"DESCRIPTION",
		"",
		"text",
	}
	anchors = DetectSections(lines)
	if len(anchors) != 1 || anchors[0].Title != "DESCRIPTION" {
		t.Fatalf("expected only DESCRIPTION, got %+v", anchors)
	}
}

func TestDetectSectionsSlugCollisions(t *testing.T) {
	lines := []string{
		"EXAMPLES",
		"",
		"first block",
		"",
		"EXAMPLES",
		"",
		"second block",
		"",
		"EXAMPLES",
		"",
		"third block",
	}
	anchors := DetectSections(lines)
	if len(anchors) != 3 {
		t.Fatalf("got %d anchors, want 3", len(anchors))
	}
	wantIDs := []string{"examples", "examples-2", "examples-3"}
	for i, want := range wantIDs {
		if anchors[i].ID != want {
			t.Errorf("anchor %d id = %q, want %q", i, anchors[i].ID, want)
		}
	}
}

func TestDetectSectionsInvariants(t *testing.T) {
	lines := NormalizeLines("NAME\n\ndoc - a tool\n\nOPTIONS\nOutput Control\n   -o file\n\nSEE ALSO\n\nother(1)\n")
	anchors := DetectSections(lines)

	if len(anchors) < 3 {
		t.Fatalf("expected several anchors, got %+v", anchors)
	}
	level1ByID := map[string]int{}
	for i, a := range anchors {
		if a.StartLine > a.EndLine {
			t.Errorf("anchor %q has startLine %d > endLine %d", a.ID, a.StartLine, a.EndLine)
		}
		if i > 0 && anchors[i-1].StartLine >= a.StartLine {
			t.Errorf("anchors not ascending at %d: %d then %d", i, anchors[i-1].StartLine, a.StartLine)
		}
		if a.Level == 1 {
			level1ByID[a.ID] = i
		}
	}
	for i, a := range anchors {
		if a.Level != 2 {
			continue
		}
		parentIdx, ok := level1ByID[a.ParentID]
		if !ok {
			t.Errorf("level-2 anchor %q has unknown parent %q", a.ID, a.ParentID)
		} else if parentIdx >= i {
			t.Errorf("level-2 anchor %q parent does not precede it", a.ID)
		}
	}
}

func TestIsTopLevelHeading(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		index int
		want  bool
	}{
		{"well-known name without blank adjacency", []string{"x", "OPTIONS", "y"}, 1, true},
		{"all-caps with blank before", []string{"", "CUSTOM SECTION", "body"}, 1, true},
		{"all-caps with blank after", []string{"body", "CUSTOM SECTION", ""}, 1, true},
		{"all-caps surrounded by text", []string{"body", "CUSTOM SECTION", "body"}, 1, false},
		{"title marker", []string{"", "LS(1)", ""}, 1, false},
		{"indented all-caps", []string{"", "    DEEP HEADING", ""}, 1, false},
		{"lowercase", []string{"", "options", ""}, 1, false},
		{"too long", []string{"", strings.Repeat("A", 73), ""}, 1, false},
		{"first line counts as blank-adjacent", []string{"CUSTOM SECTION", "body"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTopLevelHeading(tt.lines, tt.index); got != tt.want {
				t.Errorf("isTopLevelHeading(%q) = %v, want %v", tt.lines[tt.index], got, tt.want)
			}
		})
	}
}

func TestIsSubLevelHeading(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		index int
		want  bool
	}{
		{"indented all-caps with blank", []string{"", "   SEARCH", ""}, 1, true},
		{"indented all-caps with deeper body", []string{"x", "   SEARCH", "      -p pat"}, 1, true},
		{"indented all-caps no boundary", []string{"x", "   SEARCH", "   same indent"}, 1, false},
		{"title case at margin", []string{"", "Output Control", "   body"}, 1, true},
		{"title case indented", []string{"", "   Output Control", "      body"}, 1, false},
		{"fully lowercase", []string{"", "   options here", ""}, 1, false},
		{"trailing period", []string{"", "   Ends With Period.", ""}, 1, false},
		{"option flag line", []string{"", "   -a, --all", ""}, 1, false},
		{"bullet line", []string{"", "   • First Item", ""}, 1, false},
		{"cross reference", []string{"", "   grep(1)", ""}, 1, false},
		{"too many words", []string{"", "One Two Three Four Five Six Seven", ""}, 1, false},
		{"under 60 percent capitalized", []string{"", "Only one of five caps", ""}, 1, false},
		{"first word lowercase", []string{"", "the Big Title", ""}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSubLevelHeading(tt.lines, tt.index); got != tt.want {
				t.Errorf("isSubLevelHeading(%q) = %v, want %v", tt.lines[tt.index], got, tt.want)
			}
		})
	}
}

func TestIndentColumns(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"no indent", 0},
		{" one", 1},
		{"    four", 4},
		{"\ttab", 8},
		{"  \ttab after spaces", 8},
		{"\t\tdouble", 16},
		{"", 0},
		{"   ", 3},
	}
	for _, tt := range tests {
		if got := indentColumns(tt.line); got != tt.want {
			t.Errorf("indentColumns(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"SEE ALSO", "see-also"},
		{"EXIT STATUS", "exit-status"},
		{"Options & Flags", "options-flags"},
		{"Cache @ Startup", "cache-startup"},
		{"OPTIONS", "options"},
	}
	for _, tt := range tests {
		if got := slugify(tt.input); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	long := slugify("A VERY LONG HEADING THAT GOES ON AND ON WELL PAST THE LIMIT OF FIFTY")
	if len(long) > 50 {
		t.Errorf("slug longer than 50 chars: %q (%d)", long, len(long))
	}
}
