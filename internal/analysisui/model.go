// Package analysisui provides the Bubble Tea viewer for brute-force results.
package analysisui

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/shiftcrack/internal/analysis"
)

const (
	plotHeight   = 8
	topLetterCnt = 3
	minTableRows = 5
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	paneStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	selectedRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#C89A3A")).Bold(false)
)

// Model implements the Bubble Tea analysis viewer.
type Model struct {
	result analysis.Analysis
	input  string

	table  table.Model
	detail viewport.Model

	width    int
	height   int
	selected int
}

// NewModel constructs a viewer for result. input is shown in the header.
func NewModel(result analysis.Analysis, input string) *Model {
	m := &Model{result: result, input: input}
	m.initTable()
	m.detail = viewport.New(80, plotHeight+6)
	m.renderDetail()
	return m
}

// Run shows the viewer until the user quits.
func Run(result analysis.Analysis, input string) error {
	if _, err := tea.NewProgram(NewModel(result, input), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run analysis viewer: %w", err)
	}
	return nil
}

func (m *Model) initTable() {
	columns := []table.Column{
		{Title: "Shift", Width: 5},
		{Title: "Top", Width: topLetterCnt * 2},
		{Title: "Text", Width: 40},
	}
	rows := make([]table.Row, 0, len(m.result.Texts))
	for i, st := range m.result.Texts {
		top := ""
		if i < len(m.result.Table.Rows) {
			top = topLetters(m.result.Table.Rows[i].Counts, topLetterCnt)
		}
		rows = append(rows, table.Row{strconv.Itoa(st.Shift), top, st.Text})
	}
	styles := table.DefaultStyles()
	styles.Selected = selectedRowStyle
	m.table = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(minTableRows),
		table.WithStyles(styles),
	)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderDetail()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "pgdown", "J":
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(tea.KeyMsg{Type: tea.KeyPgDown})
			return m, cmd
		case "pgup", "K":
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(tea.KeyMsg{Type: tea.KeyPgUp})
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	if cursor := m.table.Cursor(); cursor != m.selected {
		m.selected = cursor
		m.renderDetail()
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("All possible shifts for: %q  (↑/↓ select, J/K page, q quit)", truncate(m.input, 60)))
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		paneStyle.Render(m.table.View()),
		paneStyle.Render(m.detail.View()),
	)
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	inner := m.width - 4
	if inner < 20 {
		inner = 20
	}
	cols := m.table.Columns()
	textWidth := inner - cols[0].Width - cols[1].Width - 6
	if textWidth < 10 {
		textWidth = 10
	}
	cols[2].Width = textWidth
	m.table.SetColumns(cols)
	m.table.SetWidth(inner)

	detailHeight := plotHeight + 6
	tableHeight := m.height - detailHeight - 6
	if tableHeight < minTableRows {
		tableHeight = minTableRows
	}
	m.table.SetHeight(tableHeight)
	m.detail.Width = inner
	m.detail.Height = detailHeight
}

func (m *Model) renderDetail() {
	if m.selected < 0 || m.selected >= len(m.result.Table.Rows) {
		m.detail.SetContent("No shifts to show.")
		return
	}
	row := m.result.Table.Rows[m.selected]
	var buf bytes.Buffer
	width := m.detail.Width
	if err := analysis.RenderHistogramWithSize(&buf, analysis.HistogramFor(m.result.Table.Alphabet, row), width, plotHeight, false); err != nil {
		m.detail.SetContent(fmt.Sprintf("failed to render histogram: %v", err))
		return
	}
	if m.selected < len(m.result.Texts) {
		buf.WriteString(m.result.Texts[m.selected].Text)
	}
	m.detail.SetContent(buf.String())
	m.detail.GotoTop()
}

// topLetters returns the n most frequent letters with non-zero counts.
func topLetters(counts map[rune]int, n int) string {
	type item struct {
		r     rune
		count int
	}
	items := make([]item, 0, len(counts))
	for r, c := range counts {
		if c > 0 {
			items = append(items, item{r: r, count: c})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count == items[j].count {
			return items[i].r < items[j].r
		}
		return items[i].count > items[j].count
	})
	if n > len(items) {
		n = len(items)
	}
	parts := make([]string, 0, n)
	for _, it := range items[:n] {
		parts = append(parts, string(it.r))
	}
	return strings.Join(parts, " ")
}

func truncate(s string, width int) string {
	return runewidth.Truncate(strings.ReplaceAll(s, "\n", " "), width, "…")
}
