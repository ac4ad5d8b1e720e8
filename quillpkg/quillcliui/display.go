package quillcliui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/gitquill/gitquill/quillpkg/splitter"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1)

	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// DisplayBox draws the content in a bordered box with a title line.
func DisplayBox(title string, content string, w io.Writer) {
	fmt.Fprintf(w, "%s\n%s\n",
		titleStyle.Render(title),
		boxStyle.Render(strings.TrimRight(content, "\n")))
}

// DisplaySuccess shows a success message
func DisplaySuccess(message string, w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓"), message)
}

// DisplayError shows an error message
func DisplayError(message string, w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), message)
}

// DisplayWarning shows a warning message
func DisplayWarning(message string, w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", warnStyle.Render("⚠"), message)
}

// DisplayNote shows a de-emphasized status line
func DisplayNote(message string, w io.Writer) {
	fmt.Fprintf(w, "%s\n", dimStyle.Render(message))
}

// DisplaySeparator displays a visual separator line
func DisplaySeparator(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("─", 60))
}

// DisplayCommitGroups renders a proposal as a table, one row per group.
func DisplayCommitGroups(proposal splitter.Proposal, w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Group", "Title", "Hunks", "Files", "Priority"})
	for i, g := range proposal.Groups {
		t.AppendRow(table.Row{i + 1, g.ID, g.Title, len(g.Hunks), len(g.Files()), g.Priority})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
	})
	t.SetStyle(table.StyleLight)
	t.Render()

	if proposal.Explanation != "" {
		fmt.Fprintf(w, "\n%s\n", proposal.Explanation)
	}
}

// DisplayStatusTable renders staged/modified/untracked file lists.
func DisplayStatusTable(staged, modified, untracked []string, w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"State", "File"})
	for _, f := range staged {
		t.AppendRow(table.Row{"staged", f})
	}
	for _, f := range modified {
		t.AppendRow(table.Row{"modified", f})
	}
	for _, f := range untracked {
		t.AppendRow(table.Row{"untracked", f})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
