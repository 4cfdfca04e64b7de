package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gridiron-chat/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file to the --config path",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		// Defaults plus flags only; env values such as the API key stay out of the file.
		out := config.DefaultConfig()
		if dataDir != "" {
			out.Data.Dir = dataDir
		}
		if matcher != "" {
			out.Matcher = matcher
		}
		if err := out.Validate(); err != nil {
			return err
		}
		if err := out.Save(configPath); err != nil {
			return err
		}
		logger.Info("config written", zap.String("path", configPath))
		_, err := fmt.Fprintln(cmd.OutOrStdout(), configPath)
		return err
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}
