package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"dedupetree/pkg/cache"
	"dedupetree/pkg/report"
)

var (
	cacheDB    string
	maxAgeDays int

	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the persistent checksum cache",
	}

	cacheStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show checksum cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(cacheDB)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := store.Stats()
			if err != nil {
				return err
			}
			report.CacheStats(stats)
			return nil
		},
	}

	cacheCleanupCmd = &cobra.Command{
		Use:   "cleanup",
		Short: "Remove cache records for files not modified recently",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(cacheDB)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			removed, err := store.Cleanup(maxAgeDays)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Removed %d stale cache entries", removed)
			return nil
		},
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove all cache records",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(cacheDB)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Clear(); err != nil {
				return err
			}
			pterm.Success.Println("Cache cleared")
			return nil
		},
	}
)

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheDB, "db", "", "Cache database path (default is the user cache directory)")
	cacheCleanupCmd.Flags().IntVar(&maxAgeDays, "max-age-days", 30, "Remove entries for files older than this many days")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheCleanupCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
