package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-sentiment/internal/pagecache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the archive page cache",
	Long: `The page cache stores every archive page fetched by collect, keyed by the
normalized keyword set, the interval, the page number and the page size.
Entries never expire; clear the cache to force fresh queries.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show page cache size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d page(s) across %d query(ies), %d bytes\n", store.Path(), st.Pages, st.Queries, st.Bytes)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Clear(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d page(s) from %s\n", n, store.Path())
		return nil
	},
}

func init() {
	cacheCmd.PersistentFlags().String("cache", "", "SQLite page cache (default from config, else "+defaultCachePath+")")

	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openCache(cmd *cobra.Command) (*pagecache.Cache, error) {
	path, _ := cmd.Flags().GetString("cache")
	if path == "" {
		path = viper.GetString("collect.cache_path")
	}
	if path == "" {
		path = defaultCachePath
	}
	return pagecache.Open(path)
}
