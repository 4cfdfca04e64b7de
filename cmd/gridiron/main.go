package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gridiron-chat/internal/chat"
	"gridiron-chat/internal/config"
	"gridiron-chat/internal/loader"
	"gridiron-chat/internal/logging"
	"gridiron-chat/internal/resolve"
	"gridiron-chat/internal/store"
)

var (
	configPath string
	dataDir    string
	matcher    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "gridiron",
	Short:         "Chat-style lookup of merged college football player grades",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.Data.Dir = dataDir
		}
		if matcher != "" {
			cfg.Matcher = matcher
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "gridiron.yaml", "path to YAML config (missing file = defaults)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the CSV sources (overrides config)")
	rootCmd.PersistentFlags().StringVar(&matcher, "matcher", "", "name matcher: fuzzy|substring (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd, askCmd, syncCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadRoster runs the loading phase and returns the query-ready roster.
func loadRoster(ctx context.Context) (*chat.Ready, error) {
	m, err := resolve.New(cfg.Matcher)
	if err != nil {
		return nil, err
	}
	l := &chat.Loading{
		Loader:  loader.New(store.NewCSVStore(cfg.Data.Dir), logger),
		Sources: cfg.Data.Sources,
		Matcher: m,
		Log:     logger,
	}
	ready, rep, err := l.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if errs := rep.Errors(); len(errs) > 0 {
		logger.Warn("some sources were skipped",
			zap.Int("loaded", rep.Loaded()),
			zap.Int("skipped", len(errs)),
			zap.Errors("errors", errs))
	}
	return ready, nil
}
