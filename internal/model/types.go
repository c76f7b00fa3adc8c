// Package model defines shared data structures.
package model

import "time"

// TestMode selects how a test ends.
type TestMode string

const (
	// ModeTime ends the test when the time limit expires.
	ModeTime TestMode = "time"
	// ModeWords ends the test when every generated word is completed.
	ModeWords TestMode = "words"
)

// Valid reports whether the mode is known.
func (m TestMode) Valid() bool {
	return m == ModeTime || m == ModeWords
}

// Phase is the lifecycle stage of a typing test.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseFinished
)

// Config defines practice settings.
type Config struct {
	Mode        TestMode
	TimeLimit   int // seconds, time mode
	WordCount   int // words mode
	Language    string
	OneLine     bool
	Punctuation bool
	Numbers     bool
	Backspace   bool
	Theme       string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Mode:      ModeTime,
		TimeLimit: 30,
		WordCount: 25,
		Language:  "english",
		Backspace: true,
		Theme:     "dark",
	}
}

// Duration returns the mode-specific length recorded with a score:
// seconds for time mode, words for words mode.
func (c Config) Duration() int {
	if c.Mode == ModeWords {
		return c.WordCount
	}
	return c.TimeLimit
}

// Corpus is a named word list plus generation flags.
type Corpus struct {
	Name               string   `json:"name"`
	OrderedByFrequency bool     `json:"orderedByFrequency,omitempty"`
	NoLazyMode         bool     `json:"noLazyMode,omitempty"`
	Words              []string `json:"words"`
}

// TestResult is the final outcome of a finished test.
type TestResult struct {
	WPM            int
	RawWPM         int
	Accuracy       float64
	Consistency    float64
	CorrectChars   int
	IncorrectChars int
	ExtraChars     int
	MissedChars    int
	TotalWords     int
	CorrectWords   int
	ElapsedSeconds float64
	Config         Config
}

// ScoreEntry is a persisted test result.
type ScoreEntry struct {
	ID          string
	WPM         int
	RawWPM      int
	Accuracy    float64
	Consistency float64
	Language    string
	Mode        TestMode
	Duration    int
	Date        time.Time
}
