package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:     "ask <name> [offense|defense|special|penalties|all ...]",
	Short:   "Answer one query against the CSV sources and print it",
	Example: "  gridiron ask smith\n  gridiron ask smith offense defense",
	RunE: func(cmd *cobra.Command, args []string) error {
		ready, err := loadRoster(cmd.Context())
		if err != nil {
			return err
		}
		a := ready.Answer(strings.Join(args, " "))
		_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Text)
		return err
	},
}
