// Package practice drives a typing test: it routes keystrokes to the input
// engine, samples statistics on ticks and assembles the final result.
//
// Test is a value type like the engine session it wraps. Callers replace
// their copy with the returned one after every event, and restarting builds
// a new Test so input, timer and speed history are discarded together.
package practice

import (
	"fmt"
	"time"

	"github.com/verte-zerg/buddytype/internal/engine"
	"github.com/verte-zerg/buddytype/internal/generator"
	"github.com/verte-zerg/buddytype/internal/layout"
	"github.com/verte-zerg/buddytype/internal/model"
	"github.com/verte-zerg/buddytype/internal/stats"
	"github.com/verte-zerg/buddytype/internal/timer"
)

const (
	// timeModeWords is how many words a time-mode test generates up front.
	timeModeWords  = 100
	sampleInterval = time.Second
	// minSampleElapsed skips speed samples taken too early to be meaningful.
	minSampleElapsed = 1.0
)

// Source generates the word sequence for new tests.
type Source struct {
	Gen     *generator.Generator
	Corpora generator.Resolver
}

// NewTest generates words for cfg and returns an idle test.
func (src Source) NewTest(cfg model.Config) (Test, error) {
	count := cfg.WordCount
	if cfg.Mode == model.ModeTime {
		count = timeModeWords
	}
	words, err := src.Gen.Words(src.Corpora, cfg.Language, count, generator.Options{
		Punctuation: cfg.Punctuation,
		Numbers:     cfg.Numbers,
	})
	if err != nil {
		return Test{}, fmt.Errorf("failed to generate words: %w", err)
	}
	return New(cfg, words), nil
}

// Restart discards t and returns a fresh idle test with the same settings.
func (src Source) Restart(t Test) (Test, error) {
	return src.NewTest(t.Config)
}

// Test is the state of one typing test.
type Test struct {
	Config  model.Config
	Phase   model.Phase
	Input   engine.Session
	Timer   timer.Timer
	Stats   stats.Snapshot
	History []float64
	Result  *model.TestResult

	lastSample time.Time
}

// New returns an idle test over words.
func New(cfg model.Config, words []string) Test {
	limit := time.Duration(0)
	if cfg.Mode == model.ModeTime {
		limit = time.Duration(cfg.TimeLimit) * time.Second
	}
	return Test{
		Config: cfg,
		Phase:  model.PhaseIdle,
		Input:  engine.NewSession(words),
		Timer:  timer.New(limit),
	}
}

// Keystroke applies a key event received at now. The first accepted key
// starts the timer.
func (t Test) Keystroke(k engine.Key, now time.Time) Test {
	if t.Phase == model.PhaseFinished {
		return t
	}
	if k.Backspace && !t.Config.Backspace {
		return t
	}
	if t.Phase == model.PhaseIdle {
		t.Phase = model.PhaseActive
		t.Timer = t.Timer.Start(now)
	}
	t.Input = t.Input.Apply(k, now.Sub(t.Timer.StartTime).Milliseconds())
	if t.Config.Mode == model.ModeWords && t.Input.Finished {
		return t.Finish(now)
	}
	return t
}

// Tick advances the timer to now, samples stats at most once per second
// and finishes the test when the time limit expires.
func (t Test) Tick(now time.Time) Test {
	if t.Phase != model.PhaseActive {
		return t
	}
	t.Timer = t.Timer.Tick(now)
	if t.lastSample.IsZero() || now.Sub(t.lastSample) >= sampleInterval {
		t.lastSample = now
		elapsed := t.Timer.ElapsedSeconds()
		t.Stats = stats.Calculate(t.Input, elapsed)
		if elapsed >= minSampleElapsed {
			t.History = append(t.History[:len(t.History):len(t.History)], t.Stats.RawWPM)
		}
	}
	if t.Timer.Expired {
		return t.Finish(now)
	}
	return t
}

// Finish computes the final result. It is a no-op unless the test is active.
func (t Test) Finish(now time.Time) Test {
	if t.Phase != model.PhaseActive {
		return t
	}
	t.Timer = t.Timer.Tick(now)
	elapsed := t.Timer.Elapsed
	if t.Timer.HasLimit() && elapsed > t.Timer.Limit {
		elapsed = t.Timer.Limit
	}
	result := stats.BuildResult(t.Input, elapsed.Seconds(), t.History, t.Config)
	t.Result = &result
	t.Stats = stats.Calculate(t.Input, elapsed.Seconds())
	t.Phase = model.PhaseFinished
	return t
}

// Window returns the visible portion of the text for maxWidth columns.
func (t Test) Window(maxWidth int) layout.Window {
	return layout.Compute(t.Input, maxWidth, t.Config.OneLine)
}
