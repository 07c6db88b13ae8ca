package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/betterman/manviewer/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "List or search previously viewed pages",
	Long: `Without a query, lists the most recently viewed pages. With a query,
runs a full-text search over the recorded page content.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer func() { _ = store.Close() }()

		if len(args) == 0 {
			entries, err := store.Recent(cmd.Context(), historyLimit)
			if err != nil {
				return err
			}
			printEntries(cmd, entries)
			return nil
		}

		resp, err := store.Search(cmd.Context(), strings.Join(args, " "), historyLimit, 0)
		if err != nil {
			return err
		}
		printEntries(cmd, resp.Results)
		if resp.Total > uint64(len(resp.Results)) {
			cmd.Printf("(%d of %d results)\n", len(resp.Results), resp.Total)
		}
		return nil
	},
}

func printEntries(cmd *cobra.Command, entries []history.Entry) {
	if len(entries) == 0 {
		cmd.Println("No pages in history.")
		return
	}
	for _, e := range entries {
		topic := e.Topic
		if e.Section != "" {
			topic = e.Topic + "(" + e.Section + ")"
		}
		cmd.Printf("%s  %-20s %s\n", e.ViewedAt.Format("2006-01-02 15:04"), topic, e.Title)
	}
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries to show")
	rootCmd.AddCommand(historyCmd)
}
