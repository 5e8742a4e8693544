package cmd

import (
	"fmt"

	"github.com/slopscan/slopscan/internal/contract"
	"github.com/slopscan/slopscan/internal/iocache"
	"github.com/slopscan/slopscan/internal/outwriter"
	"github.com/slopscan/slopscan/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.CacheBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by the scan command. This avoids repository
// argument validation for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the analysis cache (improves performance)",
	Long: `Manage the analysis cache that short-circuits repeated scans.

Slopscan caches final analysis records keyed by repository, branch and head
commit. A repeat scan of an unchanged repository within the cache TTL is
answered without touching the GitHub API.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Run cache schema migrations

Examples:
  # Check cache status
  slopscan cache status

  # Clear cache after repositories changed upstream
  slopscan cache clear`,
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the analysis cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  slopscan cache status`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cacheSetup(); err != nil {
			return err
		}
		return iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect)
	},
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetAnalysisStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		if cfg.Output == schema.JSONOut {
			if err := outwriter.NewOutWriter().WriteCacheStatus(status, cfg); err != nil {
				contract.LogFatal("Failed to write cache status", err)
			}
			return
		}
		iocache.PrintCacheStatus(status)
	},
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached analysis data",
	Long: `Delete all cached analysis data from the configured backend.

Use this when:
- Cached scores look stale or wrong
- The scoring model changed between versions
- Testing behavior without cache

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  slopscan cache clear

  # Clear MySQL cache (set connection string via env variable)
  SLOPSCAN_CACHE_BACKEND=mysql SLOPSCAN_CACHE_DB_CONNECT="..." slopscan cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheMigrateCmd runs cache schema migrations.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run cache database schema migrations",
	Long: `Apply or roll back schema migrations on the cache database.

By default migrates to the latest version. Use --target-version to pin a
specific version, or 0 to roll everything back.

Examples:
  # Migrate to the latest schema
  slopscan cache migrate

  # Roll back all migrations
  slopscan cache migrate --target-version 0`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateCache(cfg.CacheBackend, cfg.CacheDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to migrate cache", err)
		}
	},
}
