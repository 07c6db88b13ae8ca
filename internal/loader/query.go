package loader

import (
	"errors"
	"strings"
)

// ErrEmptyQuery is returned when the input contains no topic.
var ErrEmptyQuery = errors.New("provide a man topic (for example: ls or 2 open)")

// ParseQuery splits viewer input into an optional section and a topic.
// A leading "man " prefix is tolerated so a pasted command line works, and
// a first token that looks like a section number ("2", "3p", "3.1") is
// treated as the section.
func ParseQuery(input string) (section, topic string, err error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", "", ErrEmptyQuery
	}

	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "man "))
	parts := strings.Fields(trimmed)
	if len(parts) == 0 {
		return "", "", ErrEmptyQuery
	}

	if len(parts) >= 2 && isSectionToken(parts[0]) {
		return parts[0], strings.Join(parts[1:], " "), nil
	}
	return "", strings.Join(parts, " "), nil
}

func isSectionToken(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		alnum := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !alnum && r != '.' {
			return false
		}
	}
	return true
}
