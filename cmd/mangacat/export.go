package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/varoOP/mangacat/internal/app"
	"github.com/varoOP/mangacat/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the collection to a YAML or JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		outDir, _ := cmd.Flags().GetString("out")

		format, err := export.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		application, err := app.NewApp(version)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer application.Close()

		path, n, err := application.Export(cmd.Context(), format, outDir)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d manga to %s\n", n, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "yaml", "output format: yaml or json")
	exportCmd.Flags().String("out", ".", "directory the mangacat/ export folder is created in")
	rootCmd.AddCommand(exportCmd)
}
