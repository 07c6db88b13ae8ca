package manpage

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty input", "", nil},
		{"single line no terminator", "hello", []string{"hello"}},
		{"trailing newline dropped", "hello\n", []string{"hello"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"lone cr", "a\rb", []string{"a", "b"}},
		{"mixed endings", "a\r\nb\rc\nd", []string{"a", "b", "c", "d"}},
		{"interior blank lines preserved", "a\n\n\nb\n", []string{"a", "", "", "b"}},
		{"only a newline", "\n", []string{""}},
		{"trailing blank line kept", "a\n\n", []string{"a", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLines(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeLines(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeLinesIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"one\r\ntwo\rthree\nfour\n",
		"no terminator",
		"a\r\n\r\nb",
	}
	for _, input := range inputs {
		first := NormalizeLines(input)
		second := NormalizeLines(strings.Join(first, "\n"))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("not idempotent for %q: first %#v, second %#v", input, first, second)
		}
	}
}
