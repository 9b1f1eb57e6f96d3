package main

import (
	"fmt"
	"path/filepath"

	"github.com/spboyer/introscore/internal/cache"
	"github.com/spf13/cobra"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the embedding cache",
		Long: `Manage the on-disk embedding cache.

When cache.enabled is set in .introscore.yaml, vectors returned by the
embedding provider are stored on disk keyed by model and text, so repeated
scoring does not call the provider again. Reports are never cached.`,
	}

	cmd.AddCommand(newCacheClearCommand())
	cmd.AddCommand(newCacheStatusCommand())

	return cmd
}

func newCacheClearCommand() *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the embedding cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, absDir, err := openCache(cmd, cacheDir)
			if err != nil {
				return err
			}
			if err := c.Clear(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache directory (default from config)")
	return cmd
}

func newCacheStatusCommand() *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the number of cached vectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, absDir, err := openCache(cmd, cacheDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d cached vector(s)\n", absDir, c.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache directory (default from config)")
	return cmd
}

func openCache(cmd *cobra.Command, dir string) (*cache.Cache, string, error) {
	if !cmd.Flags().Changed("cache-dir") {
		cfg, err := loadProjectConfig()
		if err != nil {
			return nil, "", err
		}
		dir = cfg.Cache.Dir
	}
	if dir == "" {
		return nil, "", fmt.Errorf("cache directory is not set")
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", fmt.Errorf("resolving cache directory: %w", err)
	}
	c, err := cache.New(absDir)
	if err != nil {
		return nil, "", err
	}
	return c, absDir, nil
}
