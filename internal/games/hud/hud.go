// Package hud draws the status line and message boxes the games share.
package hud

import (
	"unicode/utf8"

	"github.com/vovakirdan/tui-gridloop/internal/core"
)

// Status writes left-aligned and right-aligned text on row y and
// underlines the row with a separator when there is room.
func Status(dst *core.Screen, y int, left, right string) {
	dst.DrawTextColor(1, y, left, core.ColorBrightWhite)
	dst.DrawTextColor(dst.Width()-utf8.RuneCountInString(right)-1, y, right, core.ColorGray)
	dst.DrawHLine(0, y+1, dst.Width(), core.Cell{Rune: '─', Color: core.ColorGray})
}

// Overlay draws a framed box with the given lines centered on dst.
func Overlay(dst *core.Screen, lines ...string) {
	width := 0
	for _, l := range lines {
		width = max(width, utf8.RuneCountInString(l))
	}
	box := core.NewRect(0, 0, width+4, len(lines)+2)
	box.X = (dst.Width() - box.W) / 2
	box.Y = (dst.Height() - box.H) / 2

	dst.FillRect(box, core.Cell{Rune: ' '})
	dst.DrawBox(box)
	for i, l := range lines {
		x := box.X + (box.W-utf8.RuneCountInString(l))/2
		dst.DrawTextColor(x, box.Y+1+i, l, core.ColorBrightYellow)
	}
}
