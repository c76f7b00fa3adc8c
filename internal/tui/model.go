// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/verte-zerg/buddytype/internal/engine"
	"github.com/verte-zerg/buddytype/internal/layout"
	"github.com/verte-zerg/buddytype/internal/logs"
	"github.com/verte-zerg/buddytype/internal/model"
	"github.com/verte-zerg/buddytype/internal/practice"
	"github.com/verte-zerg/buddytype/internal/stats"
	"github.com/verte-zerg/buddytype/internal/theme"
	"github.com/verte-zerg/buddytype/internal/timer"
)

const tickInterval = 100 * time.Millisecond

// ScoreStore persists finished tests.
type ScoreStore interface {
	AppendScore(ctx context.Context, entry model.ScoreEntry) (string, error)
	ListScores(ctx context.Context, lang string) ([]model.ScoreEntry, error)
}

type tickMsg time.Time

type keyMap struct {
	Quit       key.Binding
	Restart    key.Binding
	Confirm    key.Binding
	Backspace  key.Binding
	DeleteWord key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
		Restart:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "restart")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm restart")),
		Backspace:  key.NewBinding(key.WithKeys("backspace")),
		// ctrl+h is not bound: some terminals send ^H for plain backspace.
		DeleteWord: key.NewBinding(key.WithKeys("ctrl+w", "alt+backspace")),
	}
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config model.Config
	source practice.Source
	scores ScoreStore
	logger *slog.Logger
	clock  timer.Clock
	keys   keyMap
	styles styles

	test           practice.Test
	restartPending bool
	errMsg         string

	width  int
	height int

	lastWPM int
	lastAcc float64
	hasLast bool
	avgWPM  float64
	bestWPM int
}

// NewModel constructs a typing TUI model. width is the terminal width
// used until the first resize event arrives.
func NewModel(cfg model.Config, src practice.Source, scores ScoreStore, logger *slog.Logger, clock timer.Clock, width int) (*Model, error) {
	test, err := src.NewTest(cfg)
	if err != nil {
		return nil, err
	}
	m := &Model{
		config: cfg,
		source: src,
		scores: scores,
		logger: logger,
		clock:  clock,
		keys:   defaultKeyMap(),
		styles: newStyles(theme.Get(cfg.Theme)),
		test:   test,
		width:  width,
	}
	m.loadFooterStats()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.advance(func(t practice.Test) practice.Test {
			return t.Tick(m.clock.Now())
		})
		return m, tick()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case m.test.Phase == model.PhaseFinished:
			if key.Matches(msg, m.keys.Confirm) || key.Matches(msg, m.keys.Restart) {
				m.restart()
			}
			return m, nil
		case key.Matches(msg, m.keys.Restart):
			m.restartPending = true
			return m, nil
		case m.restartPending:
			// Any key other than confirm cancels and is swallowed.
			m.restartPending = false
			if key.Matches(msg, m.keys.Confirm) {
				m.restart()
			}
			return m, nil
		}
		for _, k := range m.translateKey(msg) {
			m.advance(func(t practice.Test) practice.Test {
				return t.Keystroke(k, m.clock.Now())
			})
		}
		return m, nil
	default:
		return m, nil
	}
}

// advance applies step and records the result when it finishes the test.
func (m *Model) advance(step func(practice.Test) practice.Test) {
	wasFinished := m.test.Phase == model.PhaseFinished
	m.test = step(m.test)
	if !wasFinished && m.test.Phase == model.PhaseFinished {
		m.restartPending = false
		m.saveResult()
	}
}

func (m *Model) translateKey(msg tea.KeyMsg) []engine.Key {
	switch {
	case key.Matches(msg, m.keys.DeleteWord):
		return []engine.Key{{Backspace: true, Ctrl: true}}
	case key.Matches(msg, m.keys.Backspace):
		return []engine.Key{{Backspace: true}}
	}
	switch msg.Type {
	case tea.KeySpace:
		return []engine.Key{{Rune: ' '}}
	case tea.KeyRunes:
		if msg.Alt || msg.Paste {
			return nil
		}
		keys := make([]engine.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, engine.Key{Rune: r})
		}
		return keys
	default:
		return nil
	}
}

func (m *Model) restart() {
	test, err := m.source.Restart(m.test)
	if err != nil {
		m.errMsg = err.Error()
		m.logger.Error("failed to restart test", "error", err)
		return
	}
	m.errMsg = ""
	m.restartPending = false
	m.test = test
}

func (m *Model) saveResult() {
	if m.test.Result == nil {
		return
	}
	res := *m.test.Result
	m.lastWPM = res.WPM
	m.lastAcc = res.Accuracy
	m.hasLast = true
	if m.scores == nil {
		return
	}
	ctx := context.Background()
	entry := stats.NewScoreEntry(res, m.clock.Now())
	id, err := m.scores.AppendScore(ctx, entry)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to save score: %v", err)
		m.logger.ErrorContext(ctx, "failed to save score", "error", err)
		return
	}
	m.logger.InfoContext(logs.WithTest(ctx, id), "saved score",
		"wpm", res.WPM, "raw", res.RawWPM, "accuracy", res.Accuracy, "consistency", res.Consistency)
	m.loadFooterStats()
}

func (m *Model) loadFooterStats() {
	if m.scores == nil {
		return
	}
	entries, err := m.scores.ListScores(context.Background(), m.config.Language)
	if err != nil {
		m.logger.Warn("failed to load score history", "error", err)
		return
	}
	if len(entries) == 0 {
		return
	}
	m.lastWPM = entries[0].WPM
	m.lastAcc = entries[0].Accuracy
	m.hasLast = true
	m.avgWPM = float64(lo.SumBy(entries, func(e model.ScoreEntry) int { return e.WPM })) / float64(len(entries))
	m.bestWPM = lo.MaxBy(entries, func(a, b model.ScoreEntry) bool { return a.WPM > b.WPM }).WPM
}

// View implements tea.Model.
func (m *Model) View() string {
	maxWidth := layout.MaxWidth(m.width)
	var content string
	if m.test.Phase == model.PhaseFinished && m.test.Result != nil {
		content = m.styles.renderResults(*m.test.Result, m.test.History, maxWidth)
	} else {
		header := m.styles.footer.Render(m.renderProgress())
		text := m.styles.renderWindow(m.test.Input, m.test.Window(maxWidth), maxWidth)
		content = header + "\n" + text
	}
	if m.errMsg != "" {
		content += "\n" + m.styles.err.Render(m.errMsg)
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height < 3 {
		return content + "\n" + footer
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

// renderProgress is the live line above the text: remaining seconds in
// time mode, completed words in words mode.
func (m *Model) renderProgress() string {
	t := m.test
	var segments []string
	if t.Config.Mode == model.ModeTime {
		remaining := float64(t.Config.TimeLimit)
		if t.Phase == model.PhaseActive {
			remaining = t.Timer.RemainingSeconds()
		}
		segments = append(segments, fmt.Sprintf("%.0f", math.Ceil(remaining)))
	} else {
		segments = append(segments, fmt.Sprintf("%d/%d", t.Input.CompletedWords(), len(t.Input.Slots)))
	}
	if t.Phase == model.PhaseActive {
		segments = append(segments,
			fmt.Sprintf("%.0f wpm", t.Stats.WPM),
			fmt.Sprintf("%.0f%%", t.Stats.Accuracy))
	}
	return strings.Join(segments, "  ")
}

func (m *Model) renderFooter() string {
	segments := []string{m.modeLabel()}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d WPM · %.1f%%", m.lastWPM, m.lastAcc))
	}
	if m.bestWPM > 0 {
		segments = append(segments, fmt.Sprintf("Avg %.1f WPM · Best %d", m.avgWPM, m.bestWPM))
	}
	if m.restartPending {
		segments = append(segments, helpText(m.keys.Confirm), "any key cancel")
	} else {
		segments = append(segments, helpText(m.keys.Restart))
	}
	segments = append(segments, helpText(m.keys.Quit))
	return m.styles.footer.Render(strings.Join(segments, "  "))
}

func helpText(b key.Binding) string {
	return b.Help().Key + " " + b.Help().Desc
}

func (m *Model) modeLabel() string {
	c := m.config
	label := fmt.Sprintf("%s %d", c.Mode, c.Duration())
	if c.Mode == model.ModeTime {
		label += "s"
	}
	label += " " + c.Language
	if c.Punctuation {
		label += " punct"
	}
	if c.Numbers {
		label += " numbers"
	}
	return label
}
