// Package cli implements the poetry-auto-add command-line interface.
//
// The main command is sync, which scans the project for third-party
// imports, resolves a version directive per library, and declares each in
// pyproject.toml through poetry. scan performs the same discovery and
// resolution without touching the manifest, and cache manages the PyPI
// response cache.
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/therealaleph/poetry-auto-add/pkg/buildinfo"
	"github.com/therealaleph/poetry-auto-add/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "poetry-auto-add"

// Execute runs the poetry-auto-add CLI and returns an error if any command
// fails. This is the main entry point for the application.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "poa",
		Short:        "poa migrates Python dependencies into Poetry",
		Long:         `poa scans a project for imported third-party libraries, determines version constraints, and declares each as a dependency in pyproject.toml via poetry add.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newSyncCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}

// cacheDir returns the registry cache directory using the XDG standard
// (~/.cache/poetry-auto-add/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// newCache picks the registry cache backend: Redis when an address is
// given, otherwise a file cache, falling back to no caching at all when
// neither is available.
func newCache(ctx context.Context, noCache bool, redisAddr string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, redisAddr)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}
