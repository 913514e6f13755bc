package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/kamusis/shelf/internal/publish"
	"github.com/spf13/cobra"
)

var (
	flagPublishTo          string
	flagPublishWithContent bool
)

var publishCmd = &cobra.Command{
	Use:   "publish --out <dir> --to <dir|s3://bucket/prefix>",
	Short: "Copy a built manifest to a directory or S3 bucket",
	Args:  cobra.NoArgs,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().String("out", "", "Directory holding directory_structure.json")
	publishCmd.Flags().String("content", "", "Content directory, required with --with-content")
	publishCmd.Flags().StringVar(&flagPublishTo, "to", "", "Destination directory or s3://bucket/prefix")
	publishCmd.Flags().BoolVar(&flagPublishWithContent, "with-content", false, "Also upload every referenced document and image")
	_ = publishCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, _ []string) error {
	if cfg.Out == "" {
		return fmt.Errorf("--out is required")
	}
	if flagPublishWithContent && cfg.Content == "" {
		return fmt.Errorf("--with-content needs --content")
	}
	ctx := cmd.Context()

	sink, err := publish.Open(ctx, flagPublishTo, publish.S3Options{
		Endpoint:  cfg.S3.Endpoint,
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	})
	if err != nil {
		return err
	}

	res, entries, err := publish.Manifest(ctx, sink, cfg.Out)
	if err != nil {
		return err
	}
	printOK("", fmt.Sprintf("published %s", res.Locations[0]))

	if !flagPublishWithContent {
		return nil
	}
	cres, err := publish.Content(ctx, sink, cfg.Content, cfg.ContentPrefix, entries)
	if err != nil {
		return err
	}
	printOK("", fmt.Sprintf("published %d content files (%s) to %s",
		len(cres.Locations), humanize.Bytes(uint64(cres.Bytes)), sink))
	return nil
}
