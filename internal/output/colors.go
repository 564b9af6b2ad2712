package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme defines the colors used for report elements.
type ColorScheme struct {
	Header      *color.Color
	Level       *color.Color
	Good        *color.Color
	Warn        *color.Color
	Bad         *color.Color
	Highlight   *color.Color
	Dim         *color.Color
	GraphFilled *color.Color
}

// DefaultColorScheme returns the default color scheme.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:      color.New(color.FgCyan, color.Bold),
		Level:       color.New(color.FgBlue),
		Good:        color.New(color.FgGreen),
		Warn:        color.New(color.FgYellow),
		Bad:         color.New(color.FgRed),
		Highlight:   color.New(color.FgMagenta, color.Bold),
		Dim:         color.New(color.Faint),
		GraphFilled: color.New(color.FgGreen),
	}
}

// NoColorScheme returns a color scheme with all colors disabled.
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	scheme.Header.DisableColor()
	scheme.Level.DisableColor()
	scheme.Good.DisableColor()
	scheme.Warn.DisableColor()
	scheme.Bad.DisableColor()
	scheme.Highlight.DisableColor()
	scheme.Dim.DisableColor()
	scheme.GraphFilled.DisableColor()

	return scheme
}

// ColorsEnabled reports whether stdout wants colorized output.
func ColorsEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
