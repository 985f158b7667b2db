package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/graph"
	"github.com/matzehuels/sitegraph/pkg/view"
)

// dragStep is the distance one shift+arrow press moves a node.
const dragStep = 10

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	filterOnStyle     = lipgloss.NewStyle().Bold(true)
	filterOffStyle    = lipgloss.NewStyle().Foreground(colorDim).Strikethrough(true)
)

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		flags   scanFlags
		filters string
	)

	cmd := &cobra.Command{
		Use:   "view [dir]",
		Short: "Explore the project graph interactively",
		Long: `Explore the project graph in the terminal.

Keys:
  ↑/↓ or k/j      move the cursor
  enter/space     expand or collapse the directory under the cursor
  1-4             toggle the pages, files, api and components filters
  shift+arrows    drag the node under the cursor (and its visible subtree)
  r               clear import relationships
  q               quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.analyzeProject(cmd.Context(), projectDir(args), &flags)
			if err != nil {
				return err
			}
			defer p.runner.Close()

			set, err := resolveFilters(cmd, filters, p)
			if err != nil {
				return err
			}
			m := newViewerModel(p.runner.NewSession(p.result.Structure, set))
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&filters, "filters", "", "initial categories (default from config, else all)")
	return cmd
}

// =============================================================================
// viewerModel - Interactive graph explorer
// =============================================================================

// viewerModel is the bubbletea model of the graph explorer. It drives a
// view.Session the same way the HTTP session endpoints do.
type viewerModel struct {
	sess    *view.Session
	visible []string
	cursor  int
	offset  int
	height  int
	status  string
}

func newViewerModel(sess *view.Session) viewerModel {
	m := viewerModel{sess: sess, height: 20}
	m.refresh("")
	return m
}

// refresh reloads the visible list and keeps the cursor on keep when it is
// still visible.
func (m *viewerModel) refresh(keep string) {
	m.visible = m.sess.VisibleIDs()
	if i := slices.Index(m.visible, keep); keep != "" && i >= 0 {
		m.cursor = i
	}
	m.cursor = max(0, min(m.cursor, len(m.visible)-1))
	m.scroll()
}

func (m *viewerModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m viewerModel) current() string {
	if len(m.visible) == 0 {
		return ""
	}
	return m.visible[m.cursor]
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		id := m.current()
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.scroll()
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				m.scroll()
			}
		case "enter", " ":
			if id == "" {
				break
			}
			changed, err := m.sess.Toggle(id)
			switch {
			case err != nil:
				m.status = err.Error()
			case !changed:
				m.status = "not a directory"
			default:
				m.status = ""
			}
			m.refresh(id)
		case "1", "2", "3", "4":
			c := category.All[int(key[0]-'1')]
			m.sess.ToggleFilter(c)
			m.status = "filters: " + filterLabel(m.sess.Filters())
			m.refresh(id)
		case "shift+up", "shift+down", "shift+left", "shift+right":
			if id == "" {
				break
			}
			dx, dy := dragDelta(key)
			if err := m.sess.Drag(id, dx, dy); err != nil {
				m.status = err.Error()
			}
		case "r":
			m.sess.ClearRelationships()
			m.status = "relationships cleared"
		}
	case tea.WindowSizeMsg:
		m.height = max(5, msg.Height-8)
		m.scroll()
	}
	return m, nil
}

func dragDelta(key string) (dx, dy float64) {
	switch key {
	case "shift+up":
		return 0, -dragStep
	case "shift+down":
		return 0, dragStep
	case "shift+left":
		return -dragStep, 0
	default:
		return dragStep, 0
	}
}

func (m viewerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Site Graph"))
	b.WriteString("  ")
	b.WriteString(m.filterBar())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ toggle  1-4 filters  shift+arrows drag  r clear imports  q quit"))
	b.WriteString("\n\n")

	idx := m.sess.Index()
	end := min(m.offset+m.height, len(m.visible))
	for i := m.offset; i < end; i++ {
		id := m.visible[i]
		info, _ := idx.Info(id)

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		marker := "  "
		name := info.Name
		if info.IsDirectory {
			marker = "▸ "
			if m.sess.IsExpanded(id) {
				marker = "▾ "
			}
			name += "/"
		}

		line := strings.Repeat("  ", info.Depth) + marker + categoryStyle(info.Category).Render(name)
		if pos, ok := m.sess.Position(id); ok {
			line += listDimStyle.Render(fmt.Sprintf("  (%.0f, %.0f)", pos.X, pos.Y))
		}
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(cursor) + line)
		} else {
			b.WriteString(cursor + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	imports := len(m.sess.Graph().EdgesOf(graph.EdgeImports))
	footer := fmt.Sprintf("  [%d/%d] %d visible imports", m.cursor+1, len(m.visible), imports)
	if !m.sess.Relationships() {
		footer = fmt.Sprintf("  [%d/%d] imports hidden", m.cursor+1, len(m.visible))
	}
	b.WriteString(listDimStyle.Render(footer))
	if m.status != "" {
		b.WriteString("  " + StyleWarning.Render(m.status))
	}
	return b.String()
}

func (m viewerModel) filterBar() string {
	active := m.sess.Filters()
	parts := make([]string, 0, len(category.All))
	for i, c := range category.All {
		label := fmt.Sprintf("%d:%s", i+1, c)
		if active.Has(c) {
			parts = append(parts, filterOnStyle.Foreground(lipgloss.Color(category.Color(c))).Render(label))
		} else {
			parts = append(parts, filterOffStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func filterLabel(s category.Set) string {
	if len(s) == 0 {
		return "none"
	}
	return s.String()
}
