package tui

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/buddytype/internal/corpus"
	"github.com/verte-zerg/buddytype/internal/generator"
	"github.com/verte-zerg/buddytype/internal/logs"
	"github.com/verte-zerg/buddytype/internal/model"
	"github.com/verte-zerg/buddytype/internal/practice"
	"github.com/verte-zerg/buddytype/internal/theme"
	"github.com/verte-zerg/buddytype/internal/timer"
)

type fakeScores struct {
	entries []model.ScoreEntry
	err     error
}

func (f *fakeScores) AppendScore(_ context.Context, entry model.ScoreEntry) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	entry.ID = "id"
	f.entries = append([]model.ScoreEntry{entry}, f.entries...)
	return entry.ID, nil
}

func (f *fakeScores) ListScores(_ context.Context, _ string) ([]model.ScoreEntry, error) {
	return f.entries, nil
}

type harness struct {
	m      *Model
	clock  *timer.FakeClock
	scores *fakeScores
	log    *bytes.Buffer
}

func newHarness(t *testing.T, cfg model.Config) harness {
	t.Helper()
	reg, err := corpus.NewRegistry("")
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	src := practice.Source{Gen: generator.NewWithRand(rand.New(rand.NewSource(1))), Corpora: reg}
	h := harness{
		clock:  timer.NewFakeClock(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)),
		scores: &fakeScores{},
		log:    &bytes.Buffer{},
	}
	logger := logs.New(logs.Options{File: h.log})
	m, err := NewModel(cfg, src, h.scores, logger, h.clock, 100)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	h.m = m
	return h
}

func (h harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.m.Update(msg)
	return cmd
}

func (h harness) typeWord(word string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(word)})
}

func TestWordsModeSavesScore(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeWords, WordCount: 2, Language: "english", Backspace: true})
	words := []string{h.m.test.Input.Slots[0].Word, h.m.test.Input.Slots[1].Word}

	h.typeWord(words[0])
	h.clock.Advance(2 * time.Second)
	h.send(tea.KeyMsg{Type: tea.KeySpace})
	h.typeWord(words[1])
	h.clock.Advance(2 * time.Second)
	h.send(tea.KeyMsg{Type: tea.KeySpace})

	if h.m.test.Phase != model.PhaseFinished {
		t.Fatalf("expected finished test")
	}
	if len(h.scores.entries) != 1 {
		t.Fatalf("expected one saved score, got %d", len(h.scores.entries))
	}
	entry := h.scores.entries[0]
	if entry.Mode != model.ModeWords || entry.Duration != 2 || entry.Accuracy != 100 || entry.WPM <= 0 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !h.m.hasLast || h.m.lastWPM != entry.WPM {
		t.Fatalf("expected footer to show the new score")
	}
	if !strings.Contains(h.log.String(), `"test":"id"`) {
		t.Fatalf("expected saved score log tagged with id, got %s", h.log.String())
	}
	if !strings.Contains(h.m.View(), "consistency") {
		t.Fatalf("expected results screen")
	}

	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if h.m.test.Phase != model.PhaseFinished {
		t.Fatalf("typing on the results screen must not start a test")
	}
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	if h.m.test.Phase != model.PhaseIdle {
		t.Fatalf("expected enter to start a new test")
	}
}

func TestTimeModeFinishesOnTick(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeTime, TimeLimit: 1, Language: "english", Backspace: true})
	h.typeWord("a")
	h.clock.Advance(500 * time.Millisecond)
	if cmd := h.send(tickMsg(h.clock.Now())); cmd == nil {
		t.Fatalf("expected tick to reschedule")
	}
	if h.m.test.Phase != model.PhaseActive {
		t.Fatalf("expected active test before the limit")
	}
	h.clock.Advance(500 * time.Millisecond)
	h.send(tickMsg(h.clock.Now()))
	if h.m.test.Phase != model.PhaseFinished || len(h.scores.entries) != 1 {
		t.Fatalf("expected finished test with a saved score")
	}
	if h.scores.entries[0].Duration != 1 {
		t.Fatalf("expected duration 1, got %d", h.scores.entries[0].Duration)
	}
}

func TestBackspaceKeys(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeWords, WordCount: 5, Language: "english", Backspace: true})
	h.typeWord("xyz")
	h.send(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := h.m.test.Input.Current().Typed; got != "xy" {
		t.Fatalf("expected xy after backspace, got %q", got)
	}
	h.send(tea.KeyMsg{Type: tea.KeyCtrlW})
	if got := h.m.test.Input.Current().Typed; got != "" {
		t.Fatalf("expected word cleared, got %q", got)
	}
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q"), Alt: true})
	if got := h.m.test.Input.Current().Typed; got != "" {
		t.Fatalf("expected alt+rune to be ignored, got %q", got)
	}
}

func TestTabArmsRestart(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeWords, WordCount: 5, Language: "english", Backspace: true})
	h.typeWord("abc")
	h.send(tea.KeyMsg{Type: tea.KeyTab})
	if !h.m.restartPending || h.m.test.Input.Current().Typed != "abc" {
		t.Fatalf("expected tab to arm a restart without discarding input")
	}
	if !strings.Contains(h.m.renderFooter(), "enter confirm restart") {
		t.Fatalf("expected confirm hint in footer, got %s", h.m.renderFooter())
	}

	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	if h.m.restartPending || h.m.test.Input.Current().Typed != "abc" {
		t.Fatalf("expected other key to cancel and be ignored, typed %q", h.m.test.Input.Current().Typed)
	}

	h.send(tea.KeyMsg{Type: tea.KeyTab})
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	if h.m.restartPending || h.m.test.Phase != model.PhaseIdle || h.m.test.Input.Current().Typed != "" {
		t.Fatalf("expected a fresh idle test")
	}
	if len(h.scores.entries) != 0 {
		t.Fatalf("restart must not save a score")
	}
}

func TestEnterWithoutTabDoesNotRestart(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeWords, WordCount: 5, Language: "english", Backspace: true})
	h.typeWord("abc")
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	if h.m.test.Input.Current().Typed != "abc" {
		t.Fatalf("expected enter alone to keep the test")
	}
}

func TestCtrlHIsNotWordDelete(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeWords, WordCount: 5, Language: "english", Backspace: true})
	h.typeWord("xyz")
	h.send(tea.KeyMsg{Type: tea.KeyCtrlH})
	if got := h.m.test.Input.Current().Typed; got != "xyz" {
		t.Fatalf("expected ctrl+h to leave the word alone, got %q", got)
	}
}

func TestModelUsesConfiguredTheme(t *testing.T) {
	cfg := model.Config{Mode: model.ModeWords, WordCount: 5, Language: "english", Theme: "light"}
	h := newHarness(t, cfg)
	if h.m.styles.correct.GetForeground() != lipgloss.Color(theme.Get("light").Correct) {
		t.Fatalf("expected light palette")
	}
	cfg.Theme = "no-such-theme"
	h = newHarness(t, cfg)
	if h.m.styles.correct.GetForeground() != lipgloss.Color(theme.Get(theme.Default).Correct) {
		t.Fatalf("expected fallback to the default palette")
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	cmd := h.send(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	h := newHarness(t, model.Config{Mode: model.ModeWords, WordCount: 1, Language: "english", Backspace: true})
	h.scores.err = errors.New("disk full")
	h.typeWord(h.m.test.Input.Slots[0].Word)
	h.clock.Advance(time.Second)
	h.send(tea.KeyMsg{Type: tea.KeySpace})
	if !strings.Contains(h.m.errMsg, "disk full") {
		t.Fatalf("expected save error surfaced, got %q", h.m.errMsg)
	}
	if !strings.Contains(h.log.String(), "failed to save score") {
		t.Fatalf("expected save error logged")
	}
}
