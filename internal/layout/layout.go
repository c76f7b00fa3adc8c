// Package layout decides which words of a session are visible.
//
// Both display modes are pure functions of a session snapshot and a width;
// nothing is cached between calls.
package layout

import (
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/buddytype/internal/engine"
)

const (
	// VisibleRows is the fixed height of the wrap-mode window.
	VisibleRows = 3
	// MaxLineWidth caps the text column on wide terminals.
	MaxLineWidth = 120
	// tapeAnchorPercent positions the tape cursor column from the left edge.
	tapeAnchorPercent = 35
	horizontalPad     = 4
)

// Range is a half-open range of slot indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of slots in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether idx falls inside the range.
func (r Range) Contains(idx int) bool {
	return idx >= r.Start && idx < r.End
}

// Row is one wrap-mode row. Blank rows keep the window height stable.
type Row struct {
	Range Range
	Blank bool
}

// WrapWindow is the wrap-mode view: three rows out of the packed lines.
type WrapWindow struct {
	Lines      []Range
	Rows       [VisibleRows]Row
	ActiveLine int
	ActiveRow  int
}

// TapeWindow is the single-row view with the cursor pinned at Anchor.
type TapeWindow struct {
	Range
	LeadingPad int
	Anchor     int
}

// Window holds the result of whichever mode was computed.
type Window struct {
	OneLine bool
	Wrap    WrapWindow
	Tape    TapeWindow
}

// MaxWidth returns the usable text width for a terminal width.
func MaxWidth(terminalWidth int) int {
	return max(1, min(terminalWidth-horizontalPad, MaxLineWidth))
}

// Compute returns the window for the selected mode.
func Compute(s engine.Session, maxWidth int, oneLine bool) Window {
	if oneLine {
		return Window{OneLine: true, Tape: Tape(s, maxWidth)}
	}
	return Window{Wrap: Wrap(s, maxWidth)}
}

// Lines packs words greedily into lines no wider than maxWidth. Each word
// takes its target width plus one separator column, so typing never
// reflows the text. A line always holds at least one word.
func Lines(words []string, maxWidth int) []Range {
	var lines []Range
	start, lineWidth := 0, 0
	for i, w := range words {
		wordWidth := width(w) + 1
		if lineWidth > 0 && lineWidth+wordWidth > maxWidth {
			lines = append(lines, Range{Start: start, End: i})
			start, lineWidth = i, 0
		}
		lineWidth += wordWidth
	}
	if start < len(words) {
		lines = append(lines, Range{Start: start, End: len(words)})
	}
	return lines
}

// Wrap places the current line in the second row whenever a previous line
// exists, giving one row of context above the cursor.
func Wrap(s engine.Session, maxWidth int) WrapWindow {
	words := make([]string, len(s.Slots))
	for i, slot := range s.Slots {
		words[i] = slot.Word
	}
	win := WrapWindow{Lines: Lines(words, maxWidth)}
	for i, line := range win.Lines {
		if line.Contains(s.CurrentIndex) {
			win.ActiveLine = i
			break
		}
	}
	first := max(0, win.ActiveLine-1)
	win.ActiveRow = win.ActiveLine - first
	for row := range win.Rows {
		idx := first + row
		if idx < len(win.Lines) {
			win.Rows[row] = Row{Range: win.Lines[idx]}
		} else {
			win.Rows[row] = Row{Blank: true}
		}
	}
	return win
}

// Tape slides the word ribbon under a fixed cursor column. Words left of
// the anchor are measured with their typed width so overtyped words keep
// their place; leftover columns become leading padding.
func Tape(s engine.Session, maxWidth int) TapeWindow {
	anchor := maxWidth * tapeAnchorPercent / 100
	idx := s.CurrentIndex
	cur := s.Current()
	displayLen := max(width(cur.Word), width(cur.Typed))
	cursorCol := min(width(cur.Typed), displayLen)

	win := TapeWindow{Range: Range{Start: idx, End: idx + 1}, Anchor: anchor}
	if len(s.Slots) == 0 {
		win.Range = Range{}
	}

	leftBudget := anchor - cursorCol
	for i := idx - 1; i >= 0 && leftBudget > 0; i-- {
		slot := s.Slots[i]
		w := max(width(slot.Word), width(slot.Typed)) + 1
		if w > leftBudget {
			break
		}
		leftBudget -= w
		win.Start = i
	}
	win.LeadingPad = max(0, leftBudget)

	rightBudget := (maxWidth - anchor + cursorCol) - (displayLen + 1)
	for i := idx + 1; i < len(s.Slots) && rightBudget > 0; i++ {
		w := width(s.Slots[i].Word) + 1
		if w > rightBudget {
			break
		}
		rightBudget -= w
		win.End = i + 1
	}
	return win
}

func width(s string) int {
	return runewidth.StringWidth(s)
}
