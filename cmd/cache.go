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
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/edithints/internal/store"
)

const defaultCacheDB = "./data/edithints.db"

var cacheProvider string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the provider response cache",
	Long: `List, inspect, and clear the SQLite cache of provider responses.

The database is taken from --cache-db (or cache_db in the config) and
defaults to ` + defaultCacheDB + `.`,
}

func openCache() (*store.Store, error) {
	path := settings.CacheDB
	if path == "" {
		path = defaultCacheDB
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached provider responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListTranslations(cmd.Context(), cacheProvider)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No entries in cache.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPROVIDER\tSOURCE\tTARGET\tHITS\tLAST USED\tINVALID\tREQUEST")
		for _, e := range entries {
			snippet := []rune(e.Request)
			if len(snippet) > 40 {
				snippet = append(snippet[:37], []rune("...")...)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%v\t%s\n",
				e.ID, e.Provider, e.SourceLang, e.TargetLang,
				e.HitCount, e.LastUsed.Format("2006-01-02 15:04"),
				e.Invalidated, string(snippet))
		}
		return w.Flush()
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total entries:   %d\n", stats.TotalEntries)
		fmt.Fprintf(out, "Active entries:  %d\n", stats.ActiveEntries)
		fmt.Fprintf(out, "Invalid entries: %d\n", stats.InvalidEntries)
		fmt.Fprintf(out, "Total hits:      %d\n", stats.TotalHits)
		for name, n := range stats.ByProvider {
			fmt.Fprintf(out, "  %-12s %d\n", name, n)
		}
		return nil
	},
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate <id>",
	Short: "Mark a cached response as stale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.InvalidateTranslation(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to invalidate entry: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Invalidated entry: %s\n", args[0])
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a cached response by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteTranslation(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry: %s\n", args[0])
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ClearTranslations(cmd.Context(), cacheProvider)
		if err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries from cache.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.PersistentFlags().StringVar(&cacheProvider, "provider", "", "Only entries of this provider (list, clear)")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
