package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegraph/pkg/store"
)

// snapshotsCommand creates the snapshots command.
func (c *CLI) snapshotsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "snapshots [dir]",
		Short: "List stored structure snapshots of a project",
		Long: `List snapshots saved with "analyze --save", newest first.

Requires a snapshot store: set store.mongo_uri in the config file or
SITEGRAPH_MONGO_URI in the environment.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := projectDir(args)
			cfg, err := c.loadConfig(dir)
			if err != nil {
				return err
			}
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			list, err := st.List(ctx, dir, limit)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No snapshots for %s", dir)
				printNextStep("Create one", fmt.Sprintf("%s analyze --save %s", appName, dir))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), snapshotTable(list))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum snapshots to list")
	return cmd
}

// snapshotTable renders summaries as a bordered table.
func snapshotTable(list []store.Summary) string {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{
			s.ID,
			s.SavedAt.Local().Format("2006-01-02 15:04:05"),
			s.AnalyzedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(s.FileCount),
			strconv.Itoa(s.EdgeCount),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Saved", "Analyzed", "Files", "Imports").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return StyleDim.Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		}).
		String()
}
