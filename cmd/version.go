package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/kamusis/shelf/internal/content"
	"github.com/kamusis/shelf/internal/indexer"
	"github.com/kamusis/shelf/internal/jsonx"
	"github.com/kamusis/shelf/internal/manifest"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show shelf version, build and manifest format information",
	// Skip config loading so version works with a broken config file.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(*cobra.Command, []string) error {
		writeVersion(os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func writeVersion(w io.Writer) {
	fmt.Fprintf(w, "Version:     %s\n", version)
	fmt.Fprintf(w, "Commit:      %s\n", emptyAsNA(commit))
	fmt.Fprintf(w, "Build Date:  %s\n", emptyAsNA(buildDate))
	fmt.Fprintf(w, "Manifest:    %s\n", manifest.FileName)
	fmt.Fprintf(w, "Ignore File: %s\n", indexer.IgnoreFileName)
	fmt.Fprintf(w, "User Agent:  %s\n", content.DefaultUserAgent)
	fmt.Fprintf(w, "JSON Codec:  %s\n", jsonx.Codec)
	fmt.Fprintf(w, "Go Version:  %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func emptyAsNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
