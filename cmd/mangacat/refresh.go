package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/varoOP/mangacat/internal/app"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh provider metadata for the whole collection",
	Long: `Refresh fetches chapter count, volume count and publishing status for
every stored manga. Entries the provider cannot serve are skipped and
listed at the end.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApp(version)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer application.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		report, err := application.Refresh(ctx)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Updated %d of %d\n", len(report.Updated), report.Total)
		for _, f := range report.Failed {
			fmt.Fprintf(out, "  failed %d %s: %s\n", f.MalID, f.Title, f.Error)
		}

		return err
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
