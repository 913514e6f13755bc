package cmd

import (
	"fmt"
	"strings"

	"github.com/kamusis/shelf/internal/content"
	"github.com/kamusis/shelf/internal/embed"
	"github.com/kamusis/shelf/internal/frontmatter"
	"github.com/kamusis/shelf/internal/manifest"
	"github.com/spf13/cobra"
)

var flagShowRaw bool

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print a document with its metadata and image placeholders",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&flagShowRaw, "raw", false, "Print the document exactly as served")
	addClientFlags(showCmd)
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	client := newClient(cfg)
	ctx := cmd.Context()

	entry, ok, err := client.EntryByPath(ctx, args[0])
	if err != nil {
		return clientError(err)
	}
	if !ok {
		return fmt.Errorf("NotFound: no entry at %s", args[0])
	}
	text, err := client.GetEntryDocument(ctx, entry)
	if err != nil {
		return clientError(err)
	}
	if flagShowRaw {
		fmt.Print(text)
		return nil
	}

	printSection(entry.Name)
	fmt.Printf("  path: %s\n", entry.Path)
	if entry.Date != "" {
		fmt.Printf("  date: %s\n", entry.Date)
	}
	if tags := strings.Join(content.EntryTags(entry), ", "); tags != "" {
		fmt.Printf("  tags: %s\n", tags)
	}

	images, err := client.ResolveImagesFor(ctx, entry.Path)
	if err != nil {
		return clientError(err)
	}
	body := embed.Replace(frontmatter.Strip(text), images, func(img manifest.ImageRef) string {
		return fmt.Sprintf("[image %s %s %s]", img.Name, img.AspectRatio, img.Blurhash)
	})
	fmt.Println()
	fmt.Println(strings.TrimSpace(body))
	return nil
}
