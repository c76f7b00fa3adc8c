package layout

import (
	"strings"
	"testing"

	"github.com/verte-zerg/buddytype/internal/engine"
)

func repeatWords(word string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = word
	}
	return out
}

// advance completes n words exactly, then types partial into the next one.
func advance(s engine.Session, n int, partial string) engine.Session {
	for i := 0; i < n; i++ {
		for _, r := range s.Slots[i].Word {
			s = s.Type(r, 0)
		}
		s = s.Space()
	}
	for _, r := range partial {
		s = s.Type(r, 0)
	}
	return s
}

func TestLinesRespectMaxWidth(t *testing.T) {
	words := strings.Fields("lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor incididunt ut labore")
	for _, maxWidth := range []int{12, 20, 33, 76} {
		lines := Lines(words, maxWidth)
		next := 0
		for _, line := range lines {
			if line.Start != next || line.Len() < 1 {
				t.Fatalf("lines must cover every word in order: %+v", lines)
			}
			next = line.End
			lineWidth := 0
			for _, w := range words[line.Start:line.End] {
				lineWidth += len(w) + 1
			}
			if lineWidth > maxWidth {
				t.Fatalf("line %+v is %d wide, max %d", line, lineWidth, maxWidth)
			}
		}
		if next != len(words) {
			t.Fatalf("expected all words covered, stopped at %d", next)
		}
	}
}

func TestLinesOversizedWordGetsOwnLine(t *testing.T) {
	lines := Lines([]string{"a", "extraordinarily", "b"}, 6)
	want := []Range{{0, 1}, {1, 2}, {2, 3}}
	if len(lines) != len(want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, lines)
		}
	}
}

func TestWrapKeepsCurrentLineSecond(t *testing.T) {
	// "abc " is 4 wide, so 2 words per 10-column line.
	s := engine.NewSession(repeatWords("abc", 10))
	tests := []struct {
		name       string
		completed  int
		activeLine int
		activeRow  int
		rows       [VisibleRows]Row
	}{
		{name: "first line", completed: 0, activeLine: 0, activeRow: 0,
			rows: [VisibleRows]Row{{Range: Range{0, 2}}, {Range: Range{2, 4}}, {Range: Range{4, 6}}}},
		{name: "middle", completed: 4, activeLine: 2, activeRow: 1,
			rows: [VisibleRows]Row{{Range: Range{2, 4}}, {Range: Range{4, 6}}, {Range: Range{6, 8}}}},
		{name: "last line", completed: 9, activeLine: 4, activeRow: 1,
			rows: [VisibleRows]Row{{Range: Range{6, 8}}, {Range: Range{8, 10}}, {Blank: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := Wrap(advance(s, tt.completed, "a"), 10)
			if len(win.Lines) != 5 {
				t.Fatalf("expected 5 lines, got %d", len(win.Lines))
			}
			if win.ActiveLine != tt.activeLine || win.ActiveRow != tt.activeRow {
				t.Fatalf("expected line %d row %d, got line %d row %d", tt.activeLine, tt.activeRow, win.ActiveLine, win.ActiveRow)
			}
			if win.Rows != tt.rows {
				t.Fatalf("expected rows %+v, got %+v", tt.rows, win.Rows)
			}
		})
	}
}

func TestWrapIgnoresTypedLength(t *testing.T) {
	s := engine.NewSession(repeatWords("abc", 6))
	before := Wrap(s, 10)
	after := Wrap(advance(s, 0, "abcxxxxxxx"), 10)
	if len(before.Lines) != len(after.Lines) || before.Rows != after.Rows {
		t.Fatalf("overtyping must not reflow lines")
	}
}

func TestWrapShortSequencePadsRows(t *testing.T) {
	win := Wrap(engine.NewSession([]string{"one", "two"}), 40)
	if win.Rows[0].Blank || !win.Rows[1].Blank || !win.Rows[2].Blank {
		t.Fatalf("expected one filled row and two blanks, got %+v", win.Rows)
	}
}

func TestTapeFillsBothSides(t *testing.T) {
	s := advance(engine.NewSession(repeatWords("abcd", 30)), 10, "ab")
	win := Tape(s, 100)
	if win.Anchor != 35 {
		t.Fatalf("expected anchor 35, got %d", win.Anchor)
	}
	// left budget 35-2=33 holds six 5-wide words, leaving 3
	if win.Start != 4 || win.LeadingPad != 3 {
		t.Fatalf("expected start 4 pad 3, got start %d pad %d", win.Start, win.LeadingPad)
	}
	// right budget (100-35+2)-5=62 holds twelve upcoming words
	if win.End != 23 {
		t.Fatalf("expected end 23, got %d", win.End)
	}
}

func TestTapeAtStartPadsToAnchor(t *testing.T) {
	win := Tape(engine.NewSession(repeatWords("abcd", 3)), 40)
	if win.Start != 0 || win.LeadingPad != 14 {
		t.Fatalf("expected start 0 pad 14, got %+v", win)
	}
	if win.End != 3 {
		t.Fatalf("expected every word visible, got end %d", win.End)
	}
}

func TestTapeUsesTypedWidthForPastWords(t *testing.T) {
	s := engine.NewSession([]string{"ab", "cd"})
	for _, r := range "abxyz" {
		s = s.Type(r, 0)
	}
	s = s.Space()
	// past word is 5 typed columns + 1
	win := Tape(s, 20)
	if win.Start != 0 || win.LeadingPad != 7-6 {
		t.Fatalf("expected start 0 pad 1, got %+v", win)
	}
}

func TestComputeDispatch(t *testing.T) {
	s := engine.NewSession(repeatWords("abc", 4))
	if w := Compute(s, 40, true); !w.OneLine || w.Tape.End == 0 {
		t.Fatalf("expected tape window, got %+v", w)
	}
	if w := Compute(s, 40, false); w.OneLine || len(w.Wrap.Lines) == 0 {
		t.Fatalf("expected wrap window, got %+v", w)
	}
}

func TestMaxWidth(t *testing.T) {
	tests := map[int]int{80: 76, 200: 120, 2: 1}
	for term, want := range tests {
		if got := MaxWidth(term); got != want {
			t.Fatalf("MaxWidth(%d): expected %d, got %d", term, want, got)
		}
	}
}
