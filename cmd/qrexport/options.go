package main

import (
	"encoding/json"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-qrexport/qrcode"
	"github.com/goliatone/go-qrexport/query"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Print the supported content types, styles and formats as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cfg, logger)
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.ready(cmd.Context(), cfg.Render.WarmTimeout); err != nil {
			return err
		}

		opts, err := dispatcher.Query[query.ListOptions, qrcode.Options](cmd.Context(), query.ListOptions{})
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(opts)
	},
}
