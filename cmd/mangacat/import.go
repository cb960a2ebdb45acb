package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/varoOP/mangacat/internal/app"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore the collection from a YAML or JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApp(version)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer application.Close()

		n, err := application.Import(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d manga from %s\n", n, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
