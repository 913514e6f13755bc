package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/kamusis/shelf/internal/config"
	"github.com/kamusis/shelf/internal/embed"
	"github.com/kamusis/shelf/internal/indexer"
	"github.com/kamusis/shelf/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "shelf --content <dir> --out <dir>",
	Short:         "shelf - index a content tree into a browsable manifest",
	SilenceUsage:  true, // don't print usage on operational errors
	SilenceErrors: true,
	Long: `shelf walks a directory of documents and images, extracts frontmatter,
hashes every image into a blurhash placeholder and writes the result to
<out>/directory_structure.json for a static site or API to serve.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logging.Setup(flagVerbose)
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
	RunE: runIndex,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.shelf/shelf.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	addIndexFlags(rootCmd)
}

// addIndexFlags registers the indexing flags shared by the root and serve.
func addIndexFlags(c *cobra.Command) {
	c.Flags().String("content", "", "Content directory (or a single file) to index")
	c.Flags().String("out", "", "Output directory for directory_structure.json")
	c.Flags().Bool("sorted", false, "Sort manifest entries by path")
	c.Flags().StringSlice("exclude", nil, "Glob of root-relative paths to skip (repeatable)")
	c.Flags().String("catalog-key", string(embed.KeyByName), "Match image embeds by 'name' or 'path'")
}

// Execute is called by main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printErr("", err.Error())
		stop()
		os.Exit(1)
	}
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if cfg.Content == "" || cfg.Out == "" {
		fmt.Fprintln(os.Stderr, "both --content and --out are required")
		cmd.SetOut(os.Stderr)
		_ = cmd.Usage()
		return nil
	}
	sum, err := index(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	printOK("", fmt.Sprintf("wrote %s", sum.Path))
	printInfo("", fmt.Sprintf("%d entries, %d images, %s of content",
		sum.Entries, sum.Images, humanize.Bytes(sum.TotalSize)))
	return nil
}

func index(ctx context.Context, c *config.Config) (*indexer.Summary, error) {
	mode, err := embed.ParseKeyMode(c.CatalogKey)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(c.Content); err != nil {
		return nil, fmt.Errorf("cannot read content root %s: %w", c.Content, err)
	}
	return indexer.Run(ctx, indexer.Options{
		Root:       c.Content,
		Sorted:     c.Sorted,
		Excludes:   c.Excludes,
		CatalogKey: mode,
	}, c.Out)
}
