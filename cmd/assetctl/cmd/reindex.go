package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var shallow bool

var reindexCmd = &cobra.Command{
	Use:   "reindex [collection...]",
	Short: "Reindex collections into the cache",
	Long: `Reindex the named collections, or SELECTED_COLLECTIONS when none are
given. Collections not named keep their cached content. A full reindex saves
the cache when done; --shallow only registers the collections.

Examples:
  assetctl reindex
  assetctl reindex mod-a mod-b
  assetctl reindex mod-c --shallow`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		e, err := openEnv(ctx, true)
		if err != nil {
			return err
		}

		selected := args
		if len(selected) == 0 {
			selected = config.SelectedCollections
		}

		runErr := e.idx.ReindexAll(ctx, selected, shallow, progressPrinter(cmd.ErrOrStderr()))
		if err := e.close(ctx); err != nil && runErr == nil {
			runErr = err
		}
		if runErr != nil {
			return runErr
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d collections, %d packs, %d assets\n",
			e.cache.CollectionCount(), e.cache.PackCount(), e.cache.AssetCount())
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <collection>",
	Short: "Add a collection to the cache without indexing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		e, err := openEnv(ctx, true)
		if err != nil {
			return err
		}

		c, runErr := e.idx.ShallowRegister(ctx, args[0])
		if err := e.close(ctx); err != nil && runErr == nil {
			runErr = err
		}
		if runErr != nil {
			return runErr
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d packs\n", args[0], c.Title, c.PackCount())
		return nil
	},
}

func init() {
	reindexCmd.Flags().BoolVar(&shallow, "shallow", false, "register collections without reading their packs")
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(registerCmd)
}
