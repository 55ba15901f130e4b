package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-qrexport/command"
)

var (
	batchFile     string
	batchMax      int
	batchInterval time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Write every QR code listed in a YAML batch file",
	Long: `Reads a batch file and saves each entry below the output directory.

Example batch file:

  exports:
    - key: site.png
      format: png
      form: {content_type: url, url: "https://example.com"}
    - key: office.pdf
      format: pdf
      logo: logo.png
      form:
        content_type: wifi
        wifi: {ssid: Office, password: secret, security: WPA}

Logo paths are relative to the batch file.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "batch file path")
	batchCmd.Flags().IntVar(&batchMax, "max", 0, "stop after this many entries (0 means all)")
	batchCmd.Flags().DurationVar(&batchInterval, "interval", 0, "pause between entries")
	_ = batchCmd.MarkFlagRequired("file")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()
	if err := rt.ready(ctx, cfg.Render.WarmTimeout); err != nil {
		return err
	}

	batch := command.NewBatchCommand(
		command.DispatchSaver{},
		command.WithBatchLimits(command.BatchLimits{MaxItems: batchMax, MinInterval: batchInterval}),
	)
	refs, err := batch.Run(ctx, batchFile)
	for _, ref := range refs {
		fmt.Fprintln(cmd.OutOrStdout(), ref.Path)
	}
	if err != nil {
		return fmt.Errorf("batch stopped after %d entries: %w", len(refs), err)
	}
	logger.Infof("batch complete file=%s count=%d", batchFile, len(refs))
	return nil
}
