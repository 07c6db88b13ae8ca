// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/betterman/manviewer/internal/config"
	"github.com/betterman/manviewer/internal/history"
	"github.com/betterman/manviewer/internal/loader"
	"github.com/betterman/manviewer/internal/logging"
	"github.com/betterman/manviewer/internal/manpage"
	"github.com/betterman/manviewer/internal/render"
)

var (
	// Global flags
	configFile string
	logLevel   string
	logFormat  string

	// View flags
	findQuery     string
	filterQuery   string
	caseSensitive bool
	showSections  bool
	noHistory     bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "manviewer <topic>",
	Short: "View manual pages with structure, highlighting, and search",
	Long: `manviewer renders system manual pages with a detected section outline
and token highlighting, and lets you search within a page in two modes:

  find    every match with its line, like grep
  filter  only the matching lines, collapsed like a minimap

Queries accept an optional leading section, so "manviewer ls",
"manviewer 2 open", and "manviewer man 5 crontab" all work.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configFile
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		return nil
	},
	RunE: runView,
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: MANVIEWER_CONFIG_FILE or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	rootCmd.Flags().StringVar(&findQuery, "find", "", "search the page and print every match")
	rootCmd.Flags().StringVar(&filterQuery, "filter", "", "search the page and print only matching lines")
	rootCmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match search queries case sensitively")
	rootCmd.Flags().BoolVar(&showSections, "sections", false, "print the section outline instead of the page")
	rootCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this view in history")
	rootCmd.MarkFlagsMutuallyExclusive("find", "filter")
}

func runView(cmd *cobra.Command, args []string) error {
	logger := logging.BuildLogger(cfg.LogLevel, logFormat)
	ld := loader.New(cfg.ManBinary, cfg.ColBinary, cfg.ManWidth, logger)

	doc, err := ld.Load(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	lines := manpage.NormalizeLines(doc.RawText)

	if !noHistory {
		recordView(cmd, doc, logger)
	}

	r := render.New(os.Stdout)
	switch {
	case showSections:
		r.Outline(manpage.DetectSections(lines))
	case findQuery != "":
		matches, capped := manpage.Search(lines, findQuery, caseSensitive)
		r.FindResults(lines, matches)
		if capped {
			fmt.Fprintln(os.Stderr, "too many matches; results were truncated")
		}
	case filterQuery != "":
		matches, _ := manpage.Search(lines, filterQuery, caseSensitive)
		r.FilterResults(manpage.AggregateFilterLines(lines, matches))
	default:
		r.Document(lines)
	}
	return nil
}

// recordView stores the page view, best effort. A broken history database
// should never block reading a page.
func recordView(cmd *cobra.Command, doc loader.Document, logger *slog.Logger) {
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		logger.Warn("open history", "path", cfg.HistoryPath, "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	section, topic, err := loader.ParseQuery(doc.Query)
	if err != nil {
		return
	}
	if err := store.Record(cmd.Context(), topic, section, doc.Title, doc.RawText); err != nil {
		logger.Warn("record history", "topic", topic, "error", err)
	}
}
