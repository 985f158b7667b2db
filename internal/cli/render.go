package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegraph/pkg/pipeline"
	"github.com/matzehuels/sitegraph/pkg/render/nodelink"
	"github.com/matzehuels/sitegraph/pkg/view"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path (or base path for multiple formats)
	formats   []string // output formats: svg, dot, json, pdf, png
	filters   string   // category filter list
	detailed  bool     // add file type and size to labels
	expandAll bool     // expand every directory instead of the auto-expanded default
	noImports bool     // hide import edges
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      scanFlags
		formatsStr string
		opts       renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render [dir]",
		Short: "Render the project graph to SVG, DOT, JSON, PDF or PNG",
		Long: `Render the project graph as the viewer shows it: root directories and
shallow route folders expanded, nodes at their computed positions, and
import edges between visible files drawn dashed.

PDF and PNG output require librsvg (rsvg-convert).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			ctx := cmd.Context()
			dir := projectDir(args)
			p, err := c.analyzeProject(ctx, dir, &flags)
			if err != nil {
				return err
			}
			defer p.runner.Close()

			set, err := resolveFilters(cmd, opts.filters, p)
			if err != nil {
				return err
			}
			sess := p.runner.NewSession(p.result.Structure, set)
			if opts.expandAll {
				expandAll(sess)
			}
			if opts.noImports {
				sess.ClearRelationships()
			}

			spin := startSpinner(ctx, "Rendering "+strings.Join(opts.formats, ", ")+"...")
			geometry := p.runner.Layout.WithDefaults()
			artifacts, err := pipeline.Render(ctx, sess.Graph(), opts.formats, nodelink.Options{
				NodeWidth:  geometry.NodeWidth,
				NodeHeight: geometry.NodeHeight,
				Detailed:   opts.detailed,
			})
			if err != nil {
				spin.fail("Render failed")
				return err
			}
			spin.stop()

			paths := outputPaths(opts.output, dir, opts.formats)
			for _, format := range opts.formats {
				if err := os.WriteFile(paths[format], artifacts[format], 0o644); err != nil {
					return fmt.Errorf("write %s: %w", paths[format], err)
				}
			}

			printSuccess("Rendered %d nodes", len(sess.VisibleIDs()))
			for _, format := range opts.formats {
				printFile(paths[format])
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&opts.filters, "filters", "", "categories to show (default from config, else all)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show file type and size in labels")
	cmd.Flags().BoolVar(&opts.expandAll, "expand-all", false, "expand every directory")
	cmd.Flags().BoolVar(&opts.noImports, "no-imports", false, "hide import edges")
	return cmd
}

// expandAll expands every directory in pre-order, so each parent opens
// before its children are considered.
func expandAll(sess *view.Session) {
	idx := sess.Index()
	for _, id := range idx.Order() {
		info, _ := idx.Info(id)
		if info.IsDirectory && !sess.IsExpanded(id) {
			_, _ = sess.Toggle(id)
		}
	}
}

// outputPaths maps each format to its file. A single format uses output
// as-is; several formats use output as a base name with the format as
// extension. An empty output derives the base from the project directory.
func outputPaths(output, dir string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}

	base := output
	if base == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			abs = dir
		}
		base = filepath.Base(abs)
	} else if ext := filepath.Ext(base); slices.Contains(formats, strings.TrimPrefix(ext, ".")) {
		base = strings.TrimSuffix(base, ext)
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
