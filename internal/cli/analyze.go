package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	sgio "github.com/matzehuels/sitegraph/pkg/io"
)

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		flags   scanFlags
		output  string
		save    bool
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [dir]",
		Short: "Scan a project and print its structure as JSON",
		Long: `Scan a Next.js project and print its site structure: pages, components,
UI components, the containment tree and the resolved import map.

Results are cached per project for the configured TTL (default 5m).
Use --refresh to rescan and overwrite the cached result.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := projectDir(args)
			p, err := c.analyzeProject(ctx, dir, &flags)
			if err != nil {
				return err
			}
			defer p.runner.Close()

			s := p.result.Structure
			if save {
				st, err := openStore(ctx, p.cfg)
				if err != nil {
					return err
				}
				defer st.Close(ctx)
				sum, err := st.Save(ctx, dir, s)
				if err != nil {
					return err
				}
				printSuccess("Saved snapshot %s", sum.ID)
			}

			if output == "" {
				if !compact {
					return sgio.WriteStructure(s, cmd.OutOrStdout())
				}
				data, err := json.Marshal(s)
				if err != nil {
					return fmt.Errorf("encode structure: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := sgio.ExportStructure(s, output); err != nil {
				return err
			}
			printSuccess("Analyzed %s", dir)
			printStats(s, s.FileCount, p.result.CacheInfo.Hit)
			printFile(output)
			printNextStep("Render it", fmt.Sprintf("%s render %s", appName, dir))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to a file instead of stdout")
	cmd.Flags().BoolVar(&save, "save", false, "store the result in the snapshot store")
	cmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON")
	return cmd
}
