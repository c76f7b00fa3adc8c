package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/buddytype/internal/engine"
	"github.com/verte-zerg/buddytype/internal/layout"
)

type styledRune struct {
	s     string
	width int
}

// buildStyledRunes renders one slot followed by its separator column.
// Mistyped positions keep showing the target rune, extra runes show what
// was typed, and a completed word with missing runes is marked as missed.
func (st styles) buildStyledRunes(slot engine.WordSlot, current bool) []styledRune {
	target := []rune(slot.Word)
	typed := []rune(slot.Typed)
	n := max(len(target), len(typed))
	cursor := -1
	if current {
		cursor = len(typed)
	}

	out := make([]styledRune, 0, n+1)
	for i := 0; i < n; i++ {
		var displayed rune
		style := st.pending
		switch {
		case i >= len(target):
			displayed = typed[i]
			style = st.extra
		case i < len(typed):
			displayed = target[i]
			if typed[i] == target[i] {
				style = st.correct
			} else {
				style = st.incorrect
			}
		case slot.Completed:
			displayed = target[i]
			style = st.missed
		case current:
			displayed = target[i]
			style = st.currentWord
		default:
			displayed = target[i]
		}
		if i == cursor {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:     style.Render(string(displayed)),
			width: runewidth.RuneWidth(displayed),
		})
	}
	sep := st.pending
	if cursor == n {
		sep = st.cursor
	}
	out = append(out, styledRune{s: sep.Render(" "), width: 1})
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func (st styles) renderSlots(s engine.Session, r layout.Range) []styledRune {
	var line []styledRune
	for i := r.Start; i < r.End && i < len(s.Slots); i++ {
		current := i == s.CurrentIndex && !s.Finished
		line = append(line, st.buildStyledRunes(s.Slots[i], current)...)
	}
	return line
}

// renderWindow draws the visible rows of the text, padded to width so the
// block keeps its shape when centered.
func (st styles) renderWindow(s engine.Session, win layout.Window, width int) string {
	if win.OneLine {
		line := make([]styledRune, 0, width)
		for i := 0; i < win.Tape.LeadingPad; i++ {
			line = append(line, styledRune{s: " ", width: 1})
		}
		line = append(line, st.renderSlots(s, win.Tape.Range)...)
		return padRight(line, width)
	}
	rows := make([]string, 0, layout.VisibleRows)
	for _, row := range win.Wrap.Rows {
		if row.Blank {
			rows = append(rows, strings.Repeat(" ", width))
			continue
		}
		rows = append(rows, padRight(st.renderSlots(s, row.Range), width))
	}
	return strings.Join(rows, "\n")
}

func padRight(line []styledRune, width int) string {
	out := renderStyledRunes(line)
	if w := lineWidthOf(line); w < width {
		out += strings.Repeat(" ", width-w)
	}
	return out
}
