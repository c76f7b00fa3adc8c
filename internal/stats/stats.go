// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/buddytype/internal/engine"
)

const sparkChars = " .:-=+*#%@"

// charsPerWord is the standard word length used by WPM formulas.
const charsPerWord = 5.0

// Snapshot is a point-in-time view of test metrics.
type Snapshot struct {
	WPM            float64
	RawWPM         float64
	Accuracy       float64
	CorrectChars   int
	IncorrectChars int
	ExtraChars     int
	MissedChars    int
	ElapsedSeconds float64
}

// Calculate derives metrics from a session at elapsedSeconds.
// Non-positive elapsed time yields the zero Snapshot.
func Calculate(s engine.Session, elapsedSeconds float64) Snapshot {
	if elapsedSeconds <= 0 {
		return Snapshot{}
	}
	var (
		snap             Snapshot
		correctWordChars int
		correctSpaces    int
		spaces           int
	)
	for i := 0; i <= s.CurrentIndex && i < len(s.Slots); i++ {
		slot := s.Slots[i]
		for _, ks := range slot.Keystrokes {
			switch {
			case ks.Extra:
				snap.ExtraChars++
			case ks.Correct:
				snap.CorrectChars++
			default:
				snap.IncorrectChars++
			}
		}
		if !slot.Completed {
			continue
		}
		wordLen := len([]rune(slot.Word))
		if typedLen := len([]rune(slot.Typed)); typedLen < wordLen {
			snap.MissedChars += wordLen - typedLen
		}
		spaces++
		// Only whole words typed exactly count toward net WPM.
		if slot.Exact() {
			correctWordChars += wordLen
			correctSpaces++
		}
	}

	minutes := elapsedSeconds / 60
	snap.WPM = math.Max(0, round2(float64(correctWordChars+correctSpaces)/charsPerWord/minutes))
	totalTyped := snap.CorrectChars + snap.IncorrectChars + snap.ExtraChars + spaces
	snap.RawWPM = math.Max(0, round2(float64(totalTyped)/charsPerWord/minutes))

	snap.Accuracy = 100
	if total := s.KeypressCorrect + s.KeypressIncorrect; total > 0 {
		snap.Accuracy = round2(float64(s.KeypressCorrect) / float64(total) * 100)
	}
	snap.ElapsedSeconds = elapsedSeconds
	return snap
}

// Consistency scores the steadiness of a speed history on [0,100].
// It maps the coefficient of variation through the kogasa curve, which
// is steeper than tanh across the 0-1 range human typing produces.
func Consistency(history []float64) float64 {
	if len(history) < 2 {
		return 100
	}
	var sum float64
	for _, v := range history {
		sum += v
	}
	mean := sum / float64(len(history))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, v := range history {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(history))
	cov := math.Sqrt(variance) / mean
	return clamp(round2(kogasa(cov)), 0, 100)
}

func kogasa(cov float64) float64 {
	return 100 * (1 - math.Tanh(cov+math.Pow(cov, 3)/3+math.Pow(cov, 5)/5))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}
	return b.String()
}
