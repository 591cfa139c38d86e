package ui

import "fmt"

// ANSI256 color codes used by the report output.
const (
	colorAccent = 74  // blue, money figures
	colorBad    = 160 // red, high priority
	colorWarn   = 178 // yellow, medium priority
	colorGood   = 71  // green, low priority
	colorMuted  = 245 // medium gray, secondary text
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return colorize(colorAccent, s)
}

// RenderBad returns s in red.
func RenderBad(s string) string {
	return colorize(colorBad, s)
}

// RenderWarn returns s in yellow.
func RenderWarn(s string) string {
	return colorize(colorWarn, s)
}

// RenderGood returns s in green.
func RenderGood(s string) string {
	return colorize(colorGood, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return colorize(colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

func colorize(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}
