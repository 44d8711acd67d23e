package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"github.com/dd0wney/jnetc/pkg/export"
	"github.com/dd0wney/jnetc/pkg/result"
	"github.com/dd0wney/jnetc/pkg/templates"
)

func newViewCmd(g *globalOptions) *cobra.Command {
	var cacheDir string
	cmd := &cobra.Command{
		Use:   "view <junction.yaml>",
		Short: "Compile a junction and browse the rows interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			j, err := g.load(args[0])
			if err != nil {
				return err
			}
			set, err := compileCached(ctx, g, cacheDir, j)
			if err != nil {
				return err
			}
			p := tea.NewProgram(newViewModel(set), tea.WithAltScreen(), tea.WithOutput(g.stdout), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Reuse compiled results stored in this directory")
	return cmd
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type tab int

const (
	rowsTab tab = iota
	diagnosticsTab
	summaryTab
	tabCount
)

var tabNames = []string{"Rows", "Diagnostics", "Summary"}

type keyMap struct {
	Tab        key.Binding
	ShiftTab   key.Binding
	Detail     key.Binding
	ErrorsOnly key.Binding
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Detail: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "row detail"),
	),
	ErrorsOnly: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "errors/flags only"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Detail, k.ErrorsOnly, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Detail, k.ErrorsOnly},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type viewModel struct {
	set        *result.Set
	current    tab
	rowTable   table.Model
	diagTable  table.Model
	visible    []int
	errorsOnly bool
	detail     bool
	help       help.Model
	keys       keyMap
	width      int
	height     int
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func newViewModel(set *result.Set) viewModel {
	m := viewModel{
		set: set,
		rowTable: newTable([]table.Column{
			{Title: "#", Width: 4},
			{Title: "From", Width: 6},
			{Title: "To", Width: 6},
			{Title: "T", Width: 3},
			{Title: "Diag", Width: 4},
			{Title: "JNET Logic Code", Width: 90},
		}),
		diagTable: newTable([]table.Column{
			{Title: "#", Width: 4},
			{Title: "From", Width: 6},
			{Title: "To", Width: 6},
			{Title: "Code", Width: 22},
			{Title: "Fixed", Width: 5},
			{Title: "Message", Width: 80},
		}),
		help: help.New(),
		keys: keys,
	}
	m.diagTable.Blur()
	m.refreshRows()
	m.diagTable.SetRows(diagnosticRows(set))
	return m
}

func interesting(r *result.Row) bool {
	return r.Err != nil || len(r.Diagnostics) > 0
}

func (m *viewModel) refreshRows() {
	m.visible = make([]int, 0, len(m.set.Rows))
	rows := make([]table.Row, 0, len(m.set.Rows))
	for i := range m.set.Rows {
		r := &m.set.Rows[i]
		if m.errorsOnly && !interesting(r) {
			continue
		}
		m.visible = append(m.visible, i)
		rows = append(rows, table.Row{
			strconv.Itoa(r.Ordinal),
			r.From,
			r.To,
			string(r.Template),
			strconv.Itoa(len(r.Diagnostics)),
			export.LogicCode(r),
		})
	}
	m.rowTable.SetRows(rows)
	m.rowTable.SetCursor(0)
}

func diagnosticRows(set *result.Set) []table.Row {
	var rows []table.Row
	for i := range set.Rows {
		r := &set.Rows[i]
		for _, d := range r.Diagnostics {
			fixed := ""
			if d.Corrected {
				fixed = "yes"
			}
			rows = append(rows, table.Row{
				strconv.Itoa(r.Ordinal), r.From, r.To, d.Code, fixed, d.Message,
			})
		}
	}
	return rows
}

// selected returns the row under the cursor in the rows tab
func (m viewModel) selected() *result.Row {
	c := m.rowTable.Cursor()
	if c < 0 || c >= len(m.visible) {
		return nil
	}
	return &m.set.Rows[m.visible[c]]
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if h := msg.Height - 12; h > 3 {
			m.rowTable.SetHeight(h)
			m.diagTable.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.setTab((m.current + 1) % tabCount)
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.setTab((m.current + tabCount - 1) % tabCount)
			return m, nil

		case key.Matches(msg, m.keys.Detail):
			if m.current == rowsTab {
				m.detail = !m.detail
			}
			return m, nil

		case key.Matches(msg, m.keys.ErrorsOnly):
			if m.current == rowsTab {
				m.errorsOnly = !m.errorsOnly
				m.detail = false
				m.refreshRows()
			}
			return m, nil
		}
	}

	switch m.current {
	case rowsTab:
		m.rowTable, cmd = m.rowTable.Update(msg)
	case diagnosticsTab:
		m.diagTable, cmd = m.diagTable.Update(msg)
	}
	return m, cmd
}

func (m *viewModel) setTab(t tab) {
	m.current = t
	m.detail = false
	if t == rowsTab {
		m.rowTable.Focus()
		m.diagTable.Blur()
	} else {
		m.rowTable.Blur()
		m.diagTable.Focus()
	}
}

func (m viewModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("%s JNET logic (run %s)", m.set.Junction, m.set.RunID)))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n")

	switch m.current {
	case rowsTab:
		s.WriteString(m.renderRows())
	case diagnosticsTab:
		s.WriteString(contentStyle.Render(m.diagTable.View()))
	case summaryTab:
		s.WriteString(m.renderSummary())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m viewModel) renderTabs() string {
	rendered := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.current {
			rendered = append(rendered, activeTabStyle.Render(name))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m viewModel) renderRows() string {
	var s strings.Builder
	if m.errorsOnly {
		s.WriteString(helpStyle.Render("showing rows with errors or diagnostics"))
		s.WriteString("\n")
	}
	s.WriteString(m.rowTable.View())

	if m.detail {
		if r := m.selected(); r != nil {
			s.WriteString("\n\n")
			s.WriteString(boxStyle.Render(rowDetail(r)))
		}
	}
	return contentStyle.Render(s.String())
}

func rowDetail(r *result.Row) string {
	var s strings.Builder
	fmt.Fprintf(&s, "#%d %s -> %s", r.Ordinal, r.From, r.To)
	switch {
	case r.Variant != templates.NoVariant:
		fmt.Fprintf(&s, "  template %s", r.Variant)
	case r.Template != "":
		fmt.Fprintf(&s, "  template %s", r.Template)
	}
	s.WriteString("\n\n")
	if r.Err != nil {
		s.WriteString(errorStyle.Render("ERROR: " + r.Err.Error()))
	} else {
		s.WriteString(r.Expression)
	}
	for _, d := range r.Diagnostics {
		s.WriteString("\n")
		s.WriteString(d.String())
	}
	return s.String()
}

func (m viewModel) renderSummary() string {
	sum := m.set.Summary
	counts := fmt.Sprintf("Rows:       %d\nErrors:     %d\nCorrected:  %d\nFlagged:    %d\nCompiled:   %s",
		sum.Rows, sum.Errors, sum.Corrected, sum.Flagged, m.set.CompiledAt.Format("2006-01-02 15:04:05"))

	var tpl strings.Builder
	tpl.WriteString("By template")
	ids := maps.Keys(sum.ByTemplate)
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Fprintf(&tpl, "\n  %-3s %d", id, sum.ByTemplate[id])
	}

	var diag strings.Builder
	diag.WriteString("By diagnostic")
	codes := maps.Keys(sum.Diagnostics)
	slices.Sort(codes)
	for _, code := range codes {
		fmt.Fprintf(&diag, "\n  %-22s %d", code, sum.Diagnostics[code])
	}

	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(counts), boxStyle.Render(tpl.String()), boxStyle.Render(diag.String())))
}
