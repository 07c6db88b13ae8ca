package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/betterman/manviewer/internal/history"
	"github.com/betterman/manviewer/internal/loader"
	"github.com/betterman/manviewer/internal/logging"
	"github.com/betterman/manviewer/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	Long: `Serves the viewer over HTTP so GUI shells can drive it:

  POST /api/document        load a page with its outline
  GET  /api/search          find or filter within a page
  GET  /api/history/search  full-text search over viewed pages
  GET  /api/history/recent  recently viewed pages
  GET  /api/settings        persisted viewer settings
  PATCH /api/settings       update viewer settings`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.BuildLogger(cfg.LogLevel, logFormat)

		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer func() { _ = store.Close() }()

		ld := loader.New(cfg.ManBinary, cfg.ColBinary, cfg.ManWidth, logger)
		srv := web.NewServer(ld, store, cfg.SettingsPath, logger)

		addr := serveAddr
		if addr == "" {
			addr = cfg.Addr
		}
		return srv.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: config addr)")
	rootCmd.AddCommand(serveCmd)
}
