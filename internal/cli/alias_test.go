package cli

import (
	"strings"
	"testing"
)

func TestAliasSnippet(t *testing.T) {
	tests := []struct {
		shell   string
		want    string
		wantErr bool
	}{
		{shell: "zsh", want: `manviewer "$@"`},
		{shell: "bash", want: `manviewer "$@"`},
		{shell: "fish", want: "manviewer $argv"},
		{shell: "powershell", wantErr: true},
		{shell: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := aliasSnippet(tt.shell)
		if tt.wantErr {
			if err == nil {
				t.Errorf("aliasSnippet(%q): expected error", tt.shell)
			}
			continue
		}
		if err != nil {
			t.Errorf("aliasSnippet(%q): %v", tt.shell, err)
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("aliasSnippet(%q) = %q, want substring %q", tt.shell, got, tt.want)
		}
	}
}
