package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/asttree/internal/config"
	"github.com/matzehuels/asttree/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached layouts, artifacts and remote documents",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry of the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			store, _, err := cfg.Cache.OpenCache(cmd.Context(), false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			cleared, err := cache.Clear(cmd.Context(), store)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			ui := c.ui()
			if !cleared {
				ui.info("Nothing to clear for the %s backend", cfg.Cache.Backend)
				return nil
			}
			ui.success("Cache cleared")
			ui.detail("Backend: %s", describeCache(cfg.Cache))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, describeCache(cfg.Cache))
			return nil
		},
	}
}

// describeCache names where the backend keeps its entries.
func describeCache(cc config.CacheConfig) string {
	switch cc.Backend {
	case config.BackendFile:
		return cc.Dir
	case config.BackendRedis:
		return "redis://" + cc.RedisAddr + "/" + fmt.Sprint(cc.RedisDB) + " (prefix " + fmt.Sprintf("%q", cc.Prefix) + ")"
	default:
		return cc.Backend
	}
}
