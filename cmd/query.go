package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kamusis/shelf/internal/config"
	"github.com/kamusis/shelf/internal/content"
	"github.com/kamusis/shelf/internal/manifest"
	"github.com/spf13/cobra"
)

var (
	flagQueryType     string
	flagQueryTags     []string
	flagQueryListTags bool
	flagQueryMatch    string
	flagQueryLimit    int
)

var queryCmd = &cobra.Command{
	Use:   "query [prefix]",
	Short: "List manifest entries served at --base-url, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&flagQueryType, "type", "", "Only entries of this type (e.g. file)")
	queryCmd.Flags().StringSliceVar(&flagQueryTags, "tag", nil, "Only entries carrying this tag (repeatable)")
	queryCmd.Flags().BoolVar(&flagQueryListTags, "tags", false, "List the distinct tags under prefix instead")
	queryCmd.Flags().StringVar(&flagQueryMatch, "match", "", "Only entries whose path, name or metadata contain every word")
	queryCmd.Flags().IntVar(&flagQueryLimit, "limit", 0, "Maximum entries to list with --match (0 = all)")
	addClientFlags(queryCmd)
	rootCmd.AddCommand(queryCmd)
}

func addClientFlags(c *cobra.Command) {
	c.Flags().String("base-url", "", "Origin serving directory_structure.json")
	c.Flags().Duration("timeout", 0, "HTTP timeout")
}

func newClient(c *config.Config) *content.Client {
	return content.New(content.Options{
		BaseURL:       c.BaseURL,
		ManifestPath:  c.ManifestPath,
		ContentPrefix: c.ContentPrefix,
		Timeout:       c.Timeout,
		CacheSize:     c.CacheSize,
		CacheTTL:      c.CacheTTL,
		PreviewWidth:  c.Preview.Width,
		PreviewHeight: c.Preview.Height,
		PreviewPunch:  c.Preview.Punch,
	})
}

// clientError prefixes err with its taxonomy kind, e.g. "NotFound: ...".
func clientError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", content.Kind(err), err)
}

func runQuery(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}
	client := newClient(cfg)
	ctx := cmd.Context()

	if flagQueryListTags {
		tags, err := client.Tags(ctx, prefix)
		if err != nil {
			return clientError(err)
		}
		printSection(fmt.Sprintf("Tags (%d)", len(tags)))
		for _, t := range tags {
			fmt.Printf("  %s\n", t)
		}
		return nil
	}

	var (
		entries []manifest.Entry
		err     error
	)
	switch {
	case flagQueryMatch != "":
		entries, err = client.Search(ctx, prefix, flagQueryMatch, flagQueryLimit)
	case len(flagQueryTags) > 0:
		entries, err = client.QueryTagged(ctx, prefix, flagQueryType, flagQueryTags)
	default:
		entries, err = client.QueryContent(ctx, prefix, flagQueryType)
	}
	if err != nil {
		return clientError(err)
	}
	if len(entries) == 0 {
		printWarn("", fmt.Sprintf("no entries under %q", prefix))
		return nil
	}
	printEntries(entries)
	return nil
}

func printEntries(entries []manifest.Entry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSIZE\tIMAGES\tPATH\tNAME")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			displayDate(e.Date), humanize.Bytes(e.Size), len(e.Images), e.Path, e.Name)
	}
	_ = w.Flush()
}

func displayDate(s string) string {
	if t, ok := content.ParseDate(s); ok {
		return t.Format(time.DateOnly)
	}
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
