package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlayCenter draws box over the middle of base. Lines of base outside the
// box are kept so the screen stays visible around a modal.
func overlayCenter(base, box string, width, height int) string {
	baseLines := strings.Split(base, "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}
	boxLines := strings.Split(box, "\n")
	boxWidth := 0
	for _, l := range boxLines {
		if w := ansi.StringWidth(l); w > boxWidth {
			boxWidth = w
		}
	}

	x := max(0, (width-boxWidth)/2)
	y := max(0, (len(baseLines)-len(boxLines))/2)
	for i, line := range boxLines {
		row := y + i
		if row >= len(baseLines) {
			baseLines = append(baseLines, "")
		}
		target := padRight(baseLines[row], width)
		left := padRight(ansi.Truncate(target, x, ""), x)
		mid := padRight(line, boxWidth)
		right := ansi.TruncateLeft(target, x+boxWidth, "")
		baseLines[row] = left + mid + right
	}
	return strings.Join(baseLines, "\n")
}

// padRight pads s with spaces to the given visual width.
func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
