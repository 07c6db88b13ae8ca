// Package loader fetches rendered manual pages from the system manual
// reader. It runs man(1) with a pager-free environment, normalizes the
// output through col(1), and falls back to stripping overstrike sequences
// by hand when col is unavailable.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Document is a fetched manual page ready for parsing.
type Document struct {
	Query     string    `json:"query"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	RawText   string    `json:"rawText"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// NotFoundError reports that the system has no manual entry for a topic.
type NotFoundError struct{ Topic string }

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no manual entry for %q", e.Topic)
}

type Loader struct {
	ManBinary string
	ColBinary string
	Width     int
	Logger    *slog.Logger
}

func New(manBinary, colBinary string, width int, logger *slog.Logger) *Loader {
	if manBinary == "" {
		manBinary = "man"
	}
	if colBinary == "" {
		colBinary = "col"
	}
	if width <= 0 {
		width = 120
	}
	return &Loader{ManBinary: manBinary, ColBinary: colBinary, Width: width, Logger: logger}
}

// Load resolves an input like "ls" or "2 open" and returns the rendered
// page. The returned document's RawText has all overstrike/backspace
// artifacts removed.
func (l *Loader) Load(ctx context.Context, input string) (Document, error) {
	section, topic, err := ParseQuery(input)
	if err != nil {
		return Document{}, err
	}

	raw, err := l.runMan(ctx, section, topic)
	if err != nil {
		return Document{}, err
	}

	text, err := l.runCol(ctx, raw)
	if err != nil {
		if l.Logger != nil {
			l.Logger.Debug("col unavailable, stripping overstrike directly", "error", err)
		}
		text = stripOverstrike(string(raw))
	}

	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("man returned no content for %q", topic)
	}

	query := topic
	if section != "" {
		query = section + " " + topic
	}
	return Document{
		Query:     query,
		Title:     extractTitle(text, topic),
		Source:    "system-man",
		RawText:   text,
		FetchedAt: time.Now(),
	}, nil
}

func (l *Loader) runMan(ctx context.Context, section, topic string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	args := make([]string, 0, 2)
	if section != "" {
		args = append(args, section)
	}
	args = append(args, topic)

	cmd := exec.CommandContext(ctx, l.ManBinary, args...)
	cmd.Env = append(cmd.Environ(),
		"MANPAGER=cat",
		"PAGER=cat",
		"MANWIDTH="+strconv.Itoa(l.Width),
	)
	cmd.WaitDelay = 5 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, &NotFoundError{Topic: topic}
		}
		return nil, fmt.Errorf("man failed: %w: %s", err, msg)
	}
	return stdout.Bytes(), nil
}

// runCol pipes man output through col -bx, which folds backspace
// overstriking (bold and underline) into plain characters and expands tabs.
func (l *Loader) runCol(ctx context.Context, input []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, l.ColBinary, "-bx")
	cmd.Stdin = bytes.NewReader(input)
	cmd.WaitDelay = 5 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("col failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stripOverstrike(stdout.String()), nil
}

// stripOverstrike removes nroff overstrike sequences: "X\bX" (bold) and
// "_\bX" (underline) collapse to the overstruck character, and any stray
// backspaces are dropped.
func stripOverstrike(text string) string {
	if !strings.ContainsRune(text, '\b') {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\b' {
			continue
		}
		if i+1 < len(runes) && runes[i+1] == '\b' {
			// Drop the struck-out character; the overstriking character
			// after the backspace is the one that survives.
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

// extractTitle returns the first non-blank line of the page, or the
// uppercased topic when the page is all whitespace.
func extractTitle(text, topic string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return strings.ToUpper(topic)
}
