package ui

import "github.com/gdamore/tcell/v2"

// Theme holds the handful of colors the chat screen uses. Everything is
// derived from one accent color so a single stored setting restyles the app.
type Theme struct {
	Accent     tcell.Color
	Background tcell.Color
	Foreground tcell.Color
	Dim        tcell.Color
	Border     tcell.Color
}

func NewTheme(accentHex string) *Theme {
	accent := tcell.GetColor(accentHex)
	if accent == tcell.ColorDefault {
		accent = tcell.ColorBlue
	}
	return &Theme{
		Accent:     accent,
		Background: tcell.ColorDefault,
		Foreground: tcell.ColorWhite,
		Dim:        tcell.ColorGray,
		Border:     tcell.ColorDarkSlateGray,
	}
}
