package corpus

import (
	"strings"
	"unicode"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a corpus-specific filter for user word lists.
func FilterForLang(name string) FilterFunc {
	name = strings.ToLower(name)
	switch {
	case name == "english":
		return filterEnglishASCII
	case strings.HasPrefix(name, "code_"):
		return filterPrintable
	default:
		return filterLetters
	}
}

func filterEnglishASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

func filterLetters(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func filterPrintable(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
