package cmd

import (
	"fmt"
	"os"

	"github.com/kamusis/shelf/internal/imagehash"
	"github.com/spf13/cobra"
)

var flagPreviewOut string

var previewCmd = &cobra.Command{
	Use:   "preview <blurhash>",
	Short: "Render a blurhash as a data URI or a BMP file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().Int("width", 0, "Preview width in pixels (default from config, 64)")
	previewCmd.Flags().Int("height", 0, "Preview height in pixels (default from config, 64)")
	previewCmd.Flags().Float64("punch", 0, "Contrast multiplier (default from config, 1)")
	previewCmd.Flags().StringVarP(&flagPreviewOut, "out", "o", "", "Write a BMP file instead of printing a data URI")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(_ *cobra.Command, args []string) error {
	hash := args[0]
	w, h, punch := cfg.Preview.Width, cfg.Preview.Height, cfg.Preview.Punch

	if flagPreviewOut == "" {
		uri, err := imagehash.PreviewDataURI(hash, w, h, punch)
		if err != nil {
			return err
		}
		fmt.Println(uri)
		return nil
	}

	pix, err := imagehash.Decode(hash, w, h, punch)
	if err != nil {
		return err
	}
	if err := os.WriteFile(flagPreviewOut, imagehash.EncodeBMP(pix, w, h), 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", flagPreviewOut, err)
	}
	printOK("", fmt.Sprintf("wrote %dx%d preview to %s", w, h, flagPreviewOut))
	return nil
}
