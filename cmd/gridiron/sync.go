package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gridiron-chat/internal/fetch"
	"gridiron-chat/internal/store"
)

var (
	syncBaseURL string
	syncForce   bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download the CSV sources from a base URL into the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		base := cfg.Data.BaseURL
		if syncBaseURL != "" {
			base = syncBaseURL
		}
		if base == "" {
			return fmt.Errorf("no base URL: set data.base_url or pass --base-url")
		}
		client := fetch.NewClient(store.NewCSVStore(cfg.Data.Dir), base)
		client.Log = logger
		n, err := client.Sync(cmd.Context(), cfg.Data.Sources, syncForce)
		logger.Info("sync finished", zap.Int("fetched", n), zap.Int("sources", len(cfg.Data.Sources)))
		return err
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncBaseURL, "base-url", "", "base URL the source files live under (overrides config)")
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "download even when a local copy exists")
}
