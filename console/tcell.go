package console

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// paletteLab holds the 16 console colors in Lab space, indexed by Color
var paletteLab [16]colorful.Color

func init() {
	for i := range paletteLab {
		r, g, b := tcell.PaletteColor(i).RGB()
		paletteLab[i] = colorful.Color{
			R: float64(r) / 255,
			G: float64(g) / 255,
			B: float64(b) / 255,
		}
	}
}

// cursorReporter is implemented by tcell simulation screens
type cursorReporter interface {
	GetCursor() (x, y int, visible bool)
}

// FromTcell snapshots a tcell screen into a console Screen.
// Wide runes are flagged from their display width rather than from what the
// screen stores in the following cell.
func FromTcell(s tcell.Screen) *Screen {
	width, height := s.Size()
	scr := NewScreen(width, height)

	for y := 0; y < height; y++ {
		row := scr.Rows[y]
		for x := 0; x < width; x++ {
			mainc, _, style, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the cell accessor on all screens
			attr := AttrFromStyle(style)
			if mainc < 0x20 && !IsPopupCode(mainc) {
				mainc = ' '
			}
			if RuneWidth(mainc) == 2 && x+1 < width {
				row[x] = Cell{Ch: mainc, Attr: attr | LeadingByte}
				row[x+1] = Cell{Ch: mainc, Attr: attr | TrailingByte}
				x++
				continue
			}
			row[x] = Cell{Ch: mainc, Attr: attr}
		}
	}

	if cr, ok := s.(cursorReporter); ok {
		cx, cy, _ := cr.GetCursor()
		scr.SetCursor(cx, cy)
	}
	return scr
}

// AttrFromStyle converts a tcell style into console color bits
func AttrFromStyle(style tcell.Style) Attr {
	fg, bg, attrs := style.Decompose()
	fore := ColorFromTcell(fg, LightGray)
	back := ColorFromTcell(bg, Black)
	if attrs&tcell.AttrReverse != 0 {
		fore, back = back, fore
	}
	if attrs&tcell.AttrBold != 0 {
		fore |= FlagBright
	}
	return MakeAttr(fore, back)
}

// ColorFromTcell maps a tcell color onto the 16 console colors.
// Palette entries 0-15 map directly; RGB and extended palette colors are
// reduced to the perceptually nearest console color.
func ColorFromTcell(c tcell.Color, def Color) Color {
	if c == tcell.ColorDefault || !c.Valid() {
		return def
	}
	if !c.IsRGB() {
		if idx := c - tcell.ColorBlack; idx < 16 {
			return Color(idx)
		}
	}
	r, g, b := c.RGB()
	if r < 0 {
		return def
	}
	return NearestColor(uint8(r), uint8(g), uint8(b))
}

// NearestColor returns the console color closest to an RGB value
func NearestColor(r, g, b uint8) Color {
	target := colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}
	best := Black
	bestDist := target.DistanceLab(paletteLab[0])
	for i := 1; i < len(paletteLab); i++ {
		d := target.DistanceLab(paletteLab[i])
		if d < bestDist {
			bestDist = d
			best = Color(i)
		}
	}
	return best
}

// StyleFromAttr converts console color bits into a tcell style
func StyleFromAttr(a Attr) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.PaletteColor(int(a.Foreground()))).
		Background(tcell.PaletteColor(int(a.Background())))
}
