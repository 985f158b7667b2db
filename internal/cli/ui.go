package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sitegraph/pkg/category"
	"github.com/matzehuels/sitegraph/pkg/site"
)

// =============================================================================
// Styles
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
)

// categoryStyle colors text with a category's graph color, so the tree
// printer and the viewer match rendered output.
func categoryStyle(c category.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(category.Color(c)))
}

// =============================================================================
// Status Lines
// =============================================================================

// statusOut receives status lines. Result data goes to stdout.
var statusOut io.Writer = os.Stderr

type statusKind struct {
	icon  string
	style lipgloss.Style
}

var (
	statusOK   = statusKind{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	statusFail = statusKind{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	statusNote = statusKind{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (k statusKind) print(format string, args ...any) {
	fmt.Fprintln(statusOut, k.style.Render(k.icon)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { statusOK.print(format, args...) }
func printError(format string, args ...any)   { statusFail.print(format, args...) }
func printInfo(format string, args ...any)    { statusNote.print(format, args...) }

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(statusOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Structure Summary
// =============================================================================

// printStats prints a one-line summary of s, e.g.
// "3 files · 2 pages · 1 components · 1 imports · cached". shown overrides
// the file count when only part of the tree is displayed.
func printStats(s *site.Structure, shown int, cached bool) {
	fmt.Fprintln(statusOut, "  "+statsLine(s, shown, cached))
}

func statsLine(s *site.Structure, shown int, cached bool) string {
	parts := []string{fmt.Sprintf("%d files", shown)}
	if shown != s.FileCount {
		parts[0] = fmt.Sprintf("%d of %d files", shown, s.FileCount)
	}
	for _, c := range []struct {
		n    int
		noun string
	}{
		{len(s.Pages), "pages"},
		{len(s.Components) + len(s.UIComponents), "components"},
		{s.EdgeCount, "imports"},
	} {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.n, c.noun))
		}
	}

	origin := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		origin = statusOK.style.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	return strings.Join(parts, sep) + sep + origin
}
