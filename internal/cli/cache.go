package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegraph/pkg/cache"
	"github.com/matzehuels/sitegraph/pkg/config"
	"github.com/matzehuels/sitegraph/pkg/errors"
)

// cacheCommand groups the cache maintenance subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached analyses",
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "clear [dir]",
		Short: "Forget cached analyses",
		Long: `Forget cached analyses.

With a project directory, only that project's cached structure is removed,
for the roots and exclusions given by flags or config. This works with
every cache backend. Without one, the whole file cache is emptied.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return c.forgetProject(cmd, args[0], &flags)
			}

			cfg, err := c.loadConfig(".")
			if err != nil {
				return err
			}
			if cfg.Cache.Backend != config.BackendFile {
				return errors.New(errors.ErrCodeUnsupported,
					"cannot empty the %s cache wholesale; name a project directory", cfg.Cache.Backend)
			}
			dir, err := cacheDir(cfg)
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
			if err := fc.Clear(); err != nil {
				return err
			}
			printSuccess("Cache cleared")
			printDetail("Directory: %s", dir)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&flags.roots, "roots", nil, "roots the cached analysis was made with")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "exclusions the cached analysis was made with")
	return cmd
}

// forgetProject removes the cached structure of one project.
func (c *CLI) forgetProject(cmd *cobra.Command, dir string, flags *scanFlags) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig(dir)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	if err := runner.Invalidate(ctx, flags.options(cfg, dir)); err != nil {
		return err
	}
	printSuccess("Forgot cached analysis of %s", dir)
	printDetail("Backend: %s", cfg.Cache.Backend)
	return nil
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(".")
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			if cfg.Cache.Backend != config.BackendFile {
				printKeyValue("backend", cfg.Cache.Backend)
				return nil
			}
			if _, err := os.Stat(dir); err == nil {
				if fc, err := cache.NewFileCache(dir); err == nil {
					if n, err := fc.Entries(); err == nil {
						printKeyValue("entries", strconv.Itoa(n))
					}
				}
			}
			return nil
		},
	}
}
