package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var aliasCmd = &cobra.Command{
	Use:   "alias <shell>",
	Short: "Print a shell function that routes man through manviewer",
	Long: `Prints a snippet for your shell rc file so that running "man ls"
opens the page in manviewer. Supported shells: zsh, bash, fish.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snippet, err := aliasSnippet(args[0])
		if err != nil {
			return err
		}
		cmd.Println(snippet)
		return nil
	},
}

func aliasSnippet(shell string) (string, error) {
	switch shell {
	case "zsh", "bash":
		return `man() {
  manviewer "$@"
}`, nil
	case "fish":
		return `function man
  manviewer $argv
end`, nil
	default:
		return "", fmt.Errorf("unsupported shell %q (supported: zsh, bash, fish)", shell)
	}
}

func init() {
	rootCmd.AddCommand(aliasCmd)
}
