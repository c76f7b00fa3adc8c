// Package scoresui provides the Bubble Tea score history interface.
package scoresui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/verte-zerg/buddytype/internal/model"
	"github.com/verte-zerg/buddytype/internal/stats"
	"github.com/verte-zerg/buddytype/internal/theme"
)

type styles struct {
	header     lipgloss.Style
	err        lipgloss.Style
	card       lipgloss.Style
	cardTitle  lipgloss.Style
	cardValue  lipgloss.Style
	tableMuted lipgloss.Style
	table      table.Styles
}

func newStyles(p theme.Palette) styles {
	return styles{
		header: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Stats)),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Incorrect)),
		card: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(p.TextDim)),
		cardTitle:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.TextDim)),
		cardValue:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)).Bold(true),
		tableMuted: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)),
		table:      scoreTableStyles(p),
	}
}

// ScoreLister reads the score history.
type ScoreLister interface {
	ListScores(ctx context.Context, lang string) ([]model.ScoreEntry, error)
}

// Model implements the Bubble Tea score history UI.
type Model struct {
	scores ScoreLister
	lang   string
	styles styles

	entries []model.ScoreEntry
	errMsg  string
	table   table.Model

	width  int
	height int
}

// NewModel constructs a score history model drawn with palette. An empty
// lang shows every language.
func NewModel(scores ScoreLister, lang string, palette theme.Palette) *Model {
	m := &Model{scores: scores, lang: lang, styles: newStyles(palette)}
	m.table = buildScoreTable(nil, 0, 1, m.styles.table)
	m.refresh()
	return m
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
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			m.refresh()
			return m, nil
		case "g", "home":
			m.table.GotoTop()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader()
	headerHeight := lipgloss.Height(header)
	footer := m.renderFooter()
	footerHeight := lipgloss.Height(footer)
	bodyHeight := max(1, m.height-headerHeight-footerHeight)
	var body string
	if len(m.entries) == 0 {
		body = fitLines("No scores yet.", m.width, bodyHeight)
	} else {
		body = fitLines(m.styles.tableMuted.Render(m.table.View()), m.width, bodyHeight)
	}
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) refresh() {
	entries, err := m.scores.ListScores(context.Background(), m.lang)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.entries = entries
	m.table.SetRows(scoreRows(entries))
	m.updateLayout()
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	headerHeight := lipgloss.Height(m.renderHeader())
	footerHeight := lipgloss.Height(m.renderFooter())
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(1, m.height-headerHeight-footerHeight-1))
}

func (m *Model) renderHeader() string {
	return m.styles.renderSummaryCards(m.entries, m.width)
}

func (m *Model) renderFooter() string {
	help := m.styles.header.Render("Scroll: up/down/pgup/pgdn  Refresh: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + m.styles.err.Render(m.errMsg)
	}
	return help
}

func (st styles) renderSummaryCards(entries []model.ScoreEntry, width int) string {
	if len(entries) == 0 {
		return st.header.Render("Scores")
	}
	count := float64(len(entries))
	best := lo.MaxBy(entries, func(a, b model.ScoreEntry) bool { return a.WPM > b.WPM })
	cards := []string{
		st.metricCard("Tests", fmt.Sprintf("%d", len(entries))),
		st.metricCard("Avg WPM", fmt.Sprintf("%.1f", float64(lo.SumBy(entries, func(e model.ScoreEntry) int { return e.WPM }))/count)),
		st.metricCard("Best WPM", fmt.Sprintf("%d", best.WPM)),
		st.metricCard("Avg Acc", fmt.Sprintf("%.1f%%", lo.SumBy(entries, func(e model.ScoreEntry) float64 { return e.Accuracy })/count)),
		st.metricCard("Avg Cons", fmt.Sprintf("%.1f%%", lo.SumBy(entries, func(e model.ScoreEntry) float64 { return e.Consistency })/count)),
	}
	if width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2]),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (st styles) metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", st.cardTitle.Render(label), st.cardValue.Render(value))
	return st.card.Render(content)
}

func scoreColumns() []table.Column {
	widths := []int{16, 5, 5, 9, 12, 10, 10}
	columns := make([]table.Column, len(stats.ScoreColumns))
	for i, title := range stats.ScoreColumns {
		columns[i] = table.Column{Title: title, Width: widths[i]}
	}
	return columns
}

func scoreRows(entries []model.ScoreEntry) []table.Row {
	return lo.Map(entries, func(e model.ScoreEntry, _ int) table.Row {
		return table.Row(stats.ScoreRow(e))
	})
}

func buildScoreTable(entries []model.ScoreEntry, width, height int, styles table.Styles) table.Model {
	t := table.New(
		table.WithColumns(scoreColumns()),
		table.WithRows(scoreRows(entries)),
		table.WithHeight(max(1, height-1)),
		table.WithFocused(true),
	)
	t.SetWidth(width)
	t.SetStyles(styles)
	return t
}

func scoreTableStyles(p theme.Palette) table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color(p.TextDim)).
		Foreground(lipgloss.Color(p.Text)).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color(p.Cursor)).
		Bold(true)
	return styles
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
