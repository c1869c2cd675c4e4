package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/fcccode/winpty/console"
)

// demoScreen draws a framed sample on a simulated tcell screen and snapshots
// it. It exercises box drawing, wide glyphs and the 16-color palette.
func demoScreen(width, height int) (*console.Screen, error) {
	if width < 20 || height < 6 {
		return nil, errors.Errorf("demo screen must be at least 20x6, got %dx%d", width, height)
	}

	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		return nil, errors.Wrap(err, "init simulation screen")
	}
	defer s.Fini()
	s.SetSize(width, height)

	frame := tcell.StyleDefault.Foreground(tcell.ColorTeal).Background(tcell.ColorNavy)
	fill := tcell.StyleDefault.Background(tcell.ColorNavy)
	s.Fill(' ', fill)
	drawBox(s, 0, 0, width-1, height-1, frame)

	title := tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy).Bold(true)
	drawText(s, 2, 0, " conbridge ", title)

	drawText(s, 2, 2, "Plain text on blue", fill.Foreground(tcell.ColorSilver))
	drawText(s, 2, 3, "Wide: 漢字かな", fill.Foreground(tcell.ColorWhite))
	drawText(s, 2, 4, "Inverse", fill.Foreground(tcell.ColorSilver).Reverse(true))

	// One swatch per console color
	for i := 0; i < 16 && 2+i*2 < width-2; i++ {
		st := tcell.StyleDefault.Background(tcell.PaletteColor(i))
		s.SetContent(2+i*2, height-2, ' ', nil, st)
		s.SetContent(3+i*2, height-2, ' ', nil, st)
	}

	s.ShowCursor(2+len("Inverse"), 4)
	s.Show()
	return console.FromTcell(s), nil
}

func drawBox(s tcell.Screen, x1, y1, x2, y2 int, style tcell.Style) {
	for x := x1 + 1; x < x2; x++ {
		s.SetContent(x, y1, tcell.RuneHLine, nil, style)
		s.SetContent(x, y2, tcell.RuneHLine, nil, style)
	}
	for y := y1 + 1; y < y2; y++ {
		s.SetContent(x1, y, tcell.RuneVLine, nil, style)
		s.SetContent(x2, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(x1, y1, tcell.RuneULCorner, nil, style)
	s.SetContent(x2, y1, tcell.RuneURCorner, nil, style)
	s.SetContent(x1, y2, tcell.RuneLLCorner, nil, style)
	s.SetContent(x2, y2, tcell.RuneLRCorner, nil, style)
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x += console.RuneWidth(r)
	}
}
