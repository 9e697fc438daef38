package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [collection [pack]]",
	Short: "List cached collections, packs or assets",
	Long: `List what the saved cache holds.

Examples:
  assetctl list                 # collections
  assetctl list mod-a           # packs of mod-a
  assetctl list mod-a scenes    # assets of one pack`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		e, err := openEnv(ctx, false)
		if err != nil {
			return err
		}
		defer e.store.Close()

		out := cmd.OutOrStdout()
		switch len(args) {
		case 0:
			for _, name := range e.cache.CollectionNames() {
				c, ok := e.cache.Collection(name)
				if !ok {
					continue
				}
				fmt.Fprintf(out, "%s\t%s\t%d packs\t%d assets\n", name, c.Title, c.PackCount(), c.AssetCount())
			}

		case 1:
			c, ok := e.cache.Collection(args[0])
			if !ok {
				return fmt.Errorf("collection %q is not cached", args[0])
			}
			for _, name := range c.PackNames() {
				p, _ := c.Pack(name)
				fmt.Fprintf(out, "%s\t%s\t%s\t%d assets\n", name, p.Title, p.Path, p.AssetCount())
			}

		default:
			p, ok := e.cache.Pack(args[0], args[1])
			if !ok {
				return fmt.Errorf("pack %q of %q is not cached", args[1], args[0])
			}
			for _, key := range p.Keys() {
				a, _ := p.Asset(key)
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", key, a.Name, orDash(a.ImageRef()), orDash(a.ThumbnailRef()))
			}
		}
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(listCmd)
}
