package stats

import (
	"math"
	"time"

	"github.com/verte-zerg/buddytype/internal/engine"
	"github.com/verte-zerg/buddytype/internal/model"
)

// BuildResult computes the final result of a finished test.
func BuildResult(s engine.Session, elapsedSeconds float64, history []float64, cfg model.Config) model.TestResult {
	snap := Calculate(s, elapsedSeconds)
	return model.TestResult{
		WPM:            int(math.Round(snap.WPM)),
		RawWPM:         int(math.Round(snap.RawWPM)),
		Accuracy:       snap.Accuracy,
		Consistency:    Consistency(history),
		CorrectChars:   snap.CorrectChars,
		IncorrectChars: snap.IncorrectChars,
		ExtraChars:     snap.ExtraChars,
		MissedChars:    snap.MissedChars,
		TotalWords:     s.CompletedWords(),
		CorrectWords:   s.CorrectWords(),
		ElapsedSeconds: elapsedSeconds,
		Config:         cfg,
	}
}

// NewScoreEntry maps a result to its persisted form.
func NewScoreEntry(r model.TestResult, at time.Time) model.ScoreEntry {
	return model.ScoreEntry{
		WPM:         r.WPM,
		RawWPM:      r.RawWPM,
		Accuracy:    r.Accuracy,
		Consistency: r.Consistency,
		Language:    r.Config.Language,
		Mode:        r.Config.Mode,
		Duration:    r.Config.Duration(),
		Date:        at,
	}
}
