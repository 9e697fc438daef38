package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"asset-browser/internal/database"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		e, err := openEnv(ctx, false)
		if err != nil {
			return err
		}
		defer e.store.Close()

		stats := e.idx.GetStats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "collections:        %d\n", stats.Collections)
		fmt.Fprintf(out, "packs:              %d\n", stats.Packs)
		fmt.Fprintf(out, "assets:             %d\n", stats.Assets)
		fmt.Fprintf(out, "inline thumbnails:  %d\n", stats.InlineThumbnails)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cache and save it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		e, err := openEnv(ctx, false)
		if err != nil {
			return err
		}
		defer e.store.Close()

		if err := e.idx.Clear(); err != nil {
			return err
		}
		if err := e.store.Save(ctx, nil); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
		return nil
	},
}

var externalizeCmd = &cobra.Command{
	Use:   "externalize",
	Short: "Write inline thumbnails to files and save the cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		e, err := openEnv(ctx, false)
		if err != nil {
			return err
		}
		defer e.store.Close()

		before := e.idx.GetStats().InlineThumbnails
		if err := e.store.Save(ctx, progressPrinter(cmd.ErrOrStderr())); err != nil {
			return err
		}
		after := e.idx.GetStats().InlineThumbnails

		fmt.Fprintf(cmd.OutOrStdout(), "%d thumbnails externalized, %d left inline\n", before-after, after)
		return nil
	},
}

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent indexing runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		e, err := openEnv(ctx, true)
		if err != nil {
			return err
		}
		defer func() { _ = e.close(ctx) }()

		runs, err := e.db.RecentRuns(ctx, runsLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, r := range runs {
			fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%v\t%s\n",
				r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Kind, orDash(r.Target),
				r.Duration().Round(time.Millisecond), runResult(r))
		}
		return nil
	},
}

func runResult(r database.IndexRun) string {
	if r.Succeeded() {
		return fmt.Sprintf("ok (%d/%d assets)", r.Assets.Finished, r.Assets.Found)
	}
	return "error: " + r.Error
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", database.DefaultRecentRuns, "number of runs to show")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(externalizeCmd)
	rootCmd.AddCommand(runsCmd)
}
