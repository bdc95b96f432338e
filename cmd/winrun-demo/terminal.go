package main

import (
	"github.com/gdamore/tcell/v2"

	"winrun/cmd/winrun-demo/internal/hud"
)

var (
	titleStyle = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue).Bold(true)
	labelStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	valueStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	okStyle    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	warnStyle  = tcell.StyleDefault.Foreground(tcell.ColorOrange)
)

const labelWidth = 14

// drawTerminal paints the status panel. The loop shows the screen after
// the redraw callback returns.
func drawTerminal(s tcell.Screen, st hud.Status) {
	s.Clear()
	width, height := s.Size()

	putString(s, 1, 0, width, st.Title, titleStyle)
	if st.Focused {
		putString(s, 1+len(st.Title)+2, 0, width, "focused", okStyle)
	} else {
		putString(s, 1+len(st.Title)+2, 0, width, "unfocused", warnStyle)
	}

	for i, row := range st.Rows {
		y := i + 2
		if y >= height-1 {
			break
		}
		putString(s, 1, y, width, row.Label, labelStyle)
		putString(s, 1+labelWidth, y, width, row.Value, valueStyle)
	}

	if height > 0 {
		putString(s, 1, height-1, width, st.Hint, labelStyle)
	}
}

// putString writes str from column x, clipped at maxX. It returns the
// column after the last cell written.
func putString(s tcell.Screen, x, y, maxX int, str string, style tcell.Style) int {
	for _, r := range str {
		if x >= maxX {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
