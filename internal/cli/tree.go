package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/tree"
)

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		flags   scanFlags
		filters string
	)

	cmd := &cobra.Command{
		Use:   "tree [dir]",
		Short: "Print the containment tree with categories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := category.ParseSet(filters)
			if err != nil {
				return err
			}
			dir := projectDir(args)
			p, err := c.analyzeProject(cmd.Context(), dir, &flags)
			if err != nil {
				return err
			}
			defer p.runner.Close()

			nodes := tree.Filter(p.result.Structure.Tree, set)
			fmt.Fprintln(cmd.OutOrStdout(), renderTree(dir, nodes))
			printStats(p.result.Structure, tree.CountFiles(nodes), p.result.CacheInfo.Hit)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&filters, "filters", "all", "categories to show: pages,files,api,components or all")
	return cmd
}

// renderTree draws nodes as a styled tree rooted at label.
func renderTree(label string, nodes []*tree.Node) string {
	root := ltree.Root(StyleTitle.Render(label)).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, n := range nodes {
		root.Child(treeItem(n))
	}
	return root.String()
}

func treeItem(n *tree.Node) any {
	c := n.Category()
	name := categoryStyle(c).Render(n.Name)
	if !n.IsDir() {
		meta := string(n.Type)
		if n.IsClient {
			meta += ", client"
		}
		return name + " " + StyleDim.Render("("+meta+")")
	}

	sub := ltree.Root(name + lipgloss.NewStyle().Foreground(colorDim).Render("/")).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, child := range n.Children {
		sub.Child(treeItem(child))
	}
	return sub
}
