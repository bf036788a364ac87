/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/tlumacz/internal/store"
)

var (
	cacheDBPath string
	cacheLimit  int
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the result cache",
	Long: `List, inspect, purge and clear the SQLite result cache. History is never
touched by these commands.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cache entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store, _ time.Duration) error {
			entries, err := db.ListCache(cmd.Context(), cacheLimit)
			if err != nil {
				return fmt.Errorf("failed to list entries: %w", err)
			}
			return renderCacheList(cmd.OutOrStdout(), entries)
		})
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store, ttl time.Duration) error {
			stats, err := db.Stats(cmd.Context(), expiryCutoff(ttl))
			if err != nil {
				return fmt.Errorf("failed to get stats: %w", err)
			}
			return renderCacheStats(cmd.OutOrStdout(), stats, ttl)
		})
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove entries older than the cache TTL",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store, ttl time.Duration) error {
			if ttl <= 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache expiry is disabled (cache.ttl is 0); nothing to purge.")
				return nil
			}
			n, err := db.PurgeExpired(cmd.Context(), expiryCutoff(ttl))
			if err != nil {
				return fmt.Errorf("failed to purge cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired entries.\n", n)
			return nil
		})
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <fingerprint>",
	Short: "Delete a cache entry by fingerprint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store, _ time.Duration) error {
			deleted, err := db.DeleteCache(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete entry: %w", err)
			}
			if !deleted {
				return fmt.Errorf("no cache entry with fingerprint %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry: %s\n", args[0])
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all entries from the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store, _ time.Duration) error {
			n, err := db.ClearCache(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries from the cache.\n", n)
			return nil
		})
	},
}

// withStore opens the configured database without wiring any provider, so
// cache administration works without API keys.
func withStore(fn func(db *store.Store, ttl time.Duration) error) error {
	cfg, _, err := loadSettings()
	if err != nil {
		return err
	}
	path := cfg.Database.Path
	if cacheDBPath != "" {
		path = cacheDBPath
	}

	db, err := openStore(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db, cfg.Cache.TTL)
}

// expiryCutoff is the creation time at or before which entries are expired.
// A non-positive ttl disables expiry.
func expiryCutoff(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(-ttl)
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.PersistentFlags().StringVar(&cacheDBPath, "db", "", "Database path (overrides database.path)")
	cacheListCmd.Flags().IntVarP(&cacheLimit, "limit", "n", 50, "Maximum entries to list (0 lists all)")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
