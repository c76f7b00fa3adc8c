// Package engine implements the keystroke state machine of a typing test.
//
// A Session is a value: every transition returns a new Session and never
// writes to memory reachable from the receiver, so callers may keep old
// snapshots around (for rendering or undo) without copying them.
package engine

import (
	"slices"
	"unicode"
	"unicode/utf8"
)

// Keystroke records one typed character against its target.
type Keystroke struct {
	Char        rune
	Expected    rune // 0 when the keystroke is extra
	Correct     bool
	Extra       bool
	TimestampMs int64
}

// WordSlot is one target word and what has been typed for it.
type WordSlot struct {
	Word       string
	Typed      string
	Keystrokes []Keystroke
	Completed  bool
}

// Exact reports whether the typed text matches the word exactly.
func (w WordSlot) Exact() bool {
	return w.Typed == w.Word
}

// Session is the live typing state.
type Session struct {
	Slots          []WordSlot
	CurrentIndex   int
	CursorPosition int
	Finished       bool
	// ErrorCharsEver counts every incorrect keystroke, including ones
	// later erased by backspace.
	ErrorCharsEver    int
	KeypressCorrect   int
	KeypressIncorrect int
}

// Key is a single input event.
type Key struct {
	Rune      rune
	Backspace bool
	Ctrl      bool
}

// NewSession creates a session over the given target words.
func NewSession(words []string) Session {
	slots := make([]WordSlot, len(words))
	for i, w := range words {
		slots[i] = WordSlot{Word: w}
	}
	return Session{Slots: slots}
}

// Current returns the slot under the cursor.
func (s Session) Current() WordSlot {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Slots) {
		return WordSlot{}
	}
	return s.Slots[s.CurrentIndex]
}

// Apply dispatches a key event. Unsupported keys leave the session unchanged.
func (s Session) Apply(k Key, atMs int64) Session {
	switch {
	case k.Backspace && k.Ctrl:
		return s.CtrlBackspace()
	case k.Backspace:
		return s.Backspace()
	case k.Ctrl:
		return s
	case k.Rune == ' ':
		return s.Space()
	case k.Rune != 0 && unicode.IsPrint(k.Rune) && !unicode.IsSpace(k.Rune):
		return s.Type(k.Rune, atMs)
	default:
		return s
	}
}

// Type appends a character to the current word.
func (s Session) Type(r rune, atMs int64) Session {
	if s.Finished || len(s.Slots) == 0 {
		return s
	}
	next := s.withSlots()
	cur := next.Slots[next.CurrentIndex]
	target := []rune(cur.Word)
	pos := utf8.RuneCountInString(cur.Typed)

	ks := Keystroke{Char: r, Extra: pos >= len(target), TimestampMs: atMs}
	if !ks.Extra {
		ks.Expected = target[pos]
		ks.Correct = r == ks.Expected
	}

	cur.Typed += string(r)
	cur.Keystrokes = append(slices.Clip(cur.Keystrokes), ks)
	next.Slots[next.CurrentIndex] = cur
	next.CursorPosition = pos + 1
	if ks.Correct {
		next.KeypressCorrect++
	} else {
		next.KeypressIncorrect++
		next.ErrorCharsEver++
	}
	return next
}

// Space completes the current word and moves to the next one.
func (s Session) Space() Session {
	if s.Finished || len(s.Slots) == 0 {
		return s
	}
	cur := s.Slots[s.CurrentIndex]
	if cur.Typed == "" {
		return s
	}
	next := s.withSlots()
	cur.Completed = true
	next.Slots[next.CurrentIndex] = cur

	// The space is judged on the whole word, not per character.
	if cur.Exact() {
		next.KeypressCorrect++
	} else {
		next.KeypressIncorrect++
	}
	next.CursorPosition = 0
	if next.CurrentIndex+1 >= len(next.Slots) {
		next.Finished = true
		return next
	}
	next.CurrentIndex++
	return next
}

// Backspace erases the last character, or steps back into the previous
// completed word when the current one is empty. Keypress counters are
// history and are never decremented.
func (s Session) Backspace() Session {
	if s.Finished || len(s.Slots) == 0 {
		return s
	}
	cur := s.Slots[s.CurrentIndex]
	if cur.Typed != "" {
		next := s.withSlots()
		runes := []rune(cur.Typed)
		cur.Typed = string(runes[:len(runes)-1])
		cur.Keystrokes = slices.Clip(cur.Keystrokes[:len(cur.Keystrokes)-1])
		next.Slots[next.CurrentIndex] = cur
		next.CursorPosition = len(runes) - 1
		return next
	}
	if s.CurrentIndex == 0 || !s.Slots[s.CurrentIndex-1].Completed {
		return s
	}
	next := s.withSlots()
	next.CurrentIndex--
	prev := next.Slots[next.CurrentIndex]
	prev.Completed = false
	next.Slots[next.CurrentIndex] = prev
	next.CursorPosition = utf8.RuneCountInString(prev.Typed)
	return next
}

// CtrlBackspace clears the current word without crossing a word boundary.
func (s Session) CtrlBackspace() Session {
	if s.Finished || len(s.Slots) == 0 {
		return s
	}
	next := s.withSlots()
	cur := next.Slots[next.CurrentIndex]
	cur.Typed = ""
	cur.Keystrokes = nil
	next.Slots[next.CurrentIndex] = cur
	next.CursorPosition = 0
	return next
}

// CompletedWords counts completed slots.
func (s Session) CompletedWords() int {
	n := 0
	for _, slot := range s.Slots {
		if slot.Completed {
			n++
		}
	}
	return n
}

// CorrectWords counts completed slots typed exactly.
func (s Session) CorrectWords() int {
	n := 0
	for _, slot := range s.Slots {
		if slot.Completed && slot.Exact() {
			n++
		}
	}
	return n
}

// withSlots returns a copy of s owning a fresh slots slice.
func (s Session) withSlots() Session {
	s.Slots = slices.Clone(s.Slots)
	return s
}
