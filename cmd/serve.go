package cmd

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/kamusis/shelf/internal/server"
	"github.com/spf13/cobra"
)

var flagServeReindex bool

var serveCmd = &cobra.Command{
	Use:   "serve --content <dir> --out <dir>",
	Short: "Serve the manifest and content tree over HTTP for development",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	addIndexFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().String("rate", "", "Request rate limit, e.g. 600-M; empty string disables")
	serveCmd.Flags().BoolVar(&flagServeReindex, "reindex", false, "Rebuild the manifest before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cfg.Content == "" || cfg.Out == "" {
		return fmt.Errorf("both --content and --out are required")
	}
	if flagServeReindex {
		sum, err := index(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		printOK("", fmt.Sprintf("indexed %d entries (%s) into %s",
			sum.Entries, humanize.Bytes(sum.TotalSize), sum.Path))
	}

	srv, err := server.New(&server.Config{
		Addr:          cfg.Serve.Addr,
		ContentDir:    cfg.Content,
		OutDir:        cfg.Out,
		ContentPrefix: cfg.ContentPrefix,
		Rate:          cfg.Serve.Rate,
	}, slog.Default())
	if err != nil {
		return err
	}
	return srv.Start(cmd.Context())
}
