package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/layout"
)

// layoutOutput is the JSON written by the layout command.
type layoutOutput struct {
	Filters    category.Set     `json:"filters"`
	Positions  layout.Positions `json:"positions"`
	Bounds     layout.Bounds    `json:"bounds"`
	Iterations int              `json:"iterations"`
	Converged  bool             `json:"converged"`
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   scanFlags
		filters string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "layout [dir]",
		Short: "Compute node positions and print them as JSON",
		Long: `Compute positions for every node that survives the filter set.

Positions are top-left corners. The app directory is anchored at the
configured anchor point and components are placed in the same top band.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			p, err := c.analyzeProject(cmd.Context(), dir, &flags)
			if err != nil {
				return err
			}
			defer p.runner.Close()

			set, err := resolveFilters(cmd, filters, p)
			if err != nil {
				return err
			}

			res := p.runner.Layout(p.result.Structure.Tree, set)
			if !res.Converged {
				printInfo("Collision resolution stopped after %d passes", res.Iterations)
			}
			data, err := json.MarshalIndent(layoutOutput{
				Filters:    set,
				Positions:  res.Positions,
				Bounds:     layout.BoundsOf(res.Positions, p.runner.Layout.WithDefaults()),
				Iterations: res.Iterations,
				Converged:  res.Converged,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("encode layout: %w", err)
			}

			if output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Laid out %d nodes", len(res.Positions))
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&filters, "filters", "", "categories to lay out (default from config, else all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to a file instead of stdout")
	return cmd
}

// resolveFilters returns the --filters flag when given, else the config's
// initial filter set.
func resolveFilters(cmd *cobra.Command, flag string, p *project) (category.Set, error) {
	if cmd.Flags().Changed("filters") {
		return category.ParseSet(flag)
	}
	return p.cfg.Filters()
}
