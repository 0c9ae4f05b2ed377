// Package styles provides the shared lipgloss palette for picker labels.
//
// Labels are rendered once when a candidate is built, so the theme must be
// selected with [Init] before any candidate is produced.
package styles

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for UI components
type Theme struct {
	Primary   color.Color // prompt and borders
	Accent    color.Color // matched characters, cursor
	Highlight color.Color // branches of unmerged or primary commits
	Merged    color.Color // branches already merged into the primary reference
	Author    color.Color // commit author
	Muted     color.Color // counters, hints, timestamps
	Error     color.Color // error messages
}

var (
	// DefaultTheme mirrors classic terminal colors.
	DefaultTheme = Theme{
		Primary:   lipgloss.Color("62"),  // cyan/teal
		Accent:    lipgloss.Color("212"), // pink/magenta
		Highlight: lipgloss.Color("3"),   // yellow
		Merged:    lipgloss.Color("#373737"),
		Author:    lipgloss.Color("4"), // blue
		Muted:     lipgloss.Color("240"),
		Error:     lipgloss.Color("196"),
	}

	// NordTheme is based on the Nord color scheme (dark)
	NordTheme = Theme{
		Primary:   lipgloss.Color("#88c0d0"), // nord8
		Accent:    lipgloss.Color("#b48ead"), // nord15
		Highlight: lipgloss.Color("#ebcb8b"), // nord13
		Merged:    lipgloss.Color("#4c566a"), // nord3
		Author:    lipgloss.Color("#81a1c1"), // nord9
		Muted:     lipgloss.Color("#616e88"),
		Error:     lipgloss.Color("#bf616a"), // nord11
	}

	// NoneTheme renders without any colors.
	// Formatting (bold/underline) is preserved
	NoneTheme = Theme{
		Primary:   lipgloss.NoColor{},
		Accent:    lipgloss.NoColor{},
		Highlight: lipgloss.NoColor{},
		Merged:    lipgloss.NoColor{},
		Author:    lipgloss.NoColor{},
		Muted:     lipgloss.NoColor{},
		Error:     lipgloss.NoColor{},
	}
)

var themes = map[string]Theme{
	"default": DefaultTheme,
	"nord":    NordTheme,
	"none":    NoneTheme,
}

// ThemeNames lists the accepted theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// currentTheme holds the active theme
var currentTheme = DefaultTheme

// Current returns the current theme
func Current() Theme {
	return currentTheme
}

// Init selects a theme by name. An empty name selects the default theme.
func Init(name string) error {
	if name == "" {
		name = "default"
	}
	t, ok := themes[name]
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	currentTheme = t
	return nil
}

// Fg returns a style with the given foreground color.
func Fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}
