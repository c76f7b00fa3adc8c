// Package theme holds the color palettes the terminal screens are drawn with.
package theme

import (
	"sort"

	"github.com/samber/lo"
)

// Default is used when no theme is configured or the name is unknown.
const Default = "dark"

// Palette is a named set of hex colors.
type Palette struct {
	Name      string
	Bg        string
	Text      string
	TextDim   string
	Correct   string
	Incorrect string
	Extra     string
	Cursor    string
	Accent    string
	Stats     string
}

var palettes = map[string]Palette{
	"dark": {
		Name:      "dark",
		Bg:        "#323437",
		Text:      "#d1d0c5",
		TextDim:   "#646669",
		Correct:   "#d1d0c5",
		Incorrect: "#ca4754",
		Extra:     "#7e2a33",
		Cursor:    "#e2b714",
		Accent:    "#e2b714",
		Stats:     "#646669",
	},
	"light": {
		Name:      "light",
		Bg:        "#f3f2ee",
		Text:      "#1f2328",
		TextDim:   "#6b7280",
		Correct:   "#1f2328",
		Incorrect: "#d14343",
		Extra:     "#8a3232",
		Cursor:    "#c28e00",
		Accent:    "#0f766e",
		Stats:     "#6b7280",
	},
	"serika": {
		Name:      "serika",
		Bg:        "#e1e1e3",
		Text:      "#323437",
		TextDim:   "#aaaeb3",
		Correct:   "#323437",
		Incorrect: "#da3333",
		Extra:     "#791717",
		Cursor:    "#e2b714",
		Accent:    "#e2b714",
		Stats:     "#aaaeb3",
	},
	"nord": {
		Name:      "nord",
		Bg:        "#242933",
		Text:      "#d8dee9",
		TextDim:   "#617b94",
		Correct:   "#d8dee9",
		Incorrect: "#bf616a",
		Extra:     "#793e44",
		Cursor:    "#d8dee9",
		Accent:    "#88c0d0",
		Stats:     "#617b94",
	},
}

// Get returns the palette registered under name, falling back to Default.
func Get(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[Default]
}

// Known reports whether name is a registered palette.
func Known(name string) bool {
	_, ok := palettes[name]
	return ok
}

// Names returns the sorted palette names.
func Names() []string {
	names := lo.Keys(palettes)
	sort.Strings(names)
	return names
}
