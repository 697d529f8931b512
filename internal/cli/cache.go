package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/footprint/pkg/cache"
	"github.com/matzehuels/footprint/pkg/config"
	"github.com/matzehuels/footprint/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the model and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached models and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch kind {
			case "", cache.KindModel, cache.KindArtifact:
			default:
				return errors.InvalidArgument("unknown cache kind %q (want %s or %s)", kind, cache.KindModel, cache.KindArtifact)
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.CacheRedis {
				printWarning("The redis cache expires on its own; nothing cleared")
				printDetail("Address: %s", cfg.Cache.RedisAddr)
				return nil
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			counts, err := fc.Count()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			n, err := fc.Purge(kind)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			if kind == "" {
				printSuccess("Cleared %d cached entries", n)
				printDetail("%d models, %d artifacts", counts[cache.KindModel], counts[cache.KindArtifact])
			} else {
				printSuccess("Cleared %d cached %ss", n, kind)
			}
			printDetail("Directory: %s", dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only clear entries of this kind (model, artifact)")
	_ = cmd.RegisterFlagCompletionFunc("kind", cobra.FixedCompletions(
		[]string{cache.KindModel, cache.KindArtifact}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
