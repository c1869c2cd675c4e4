package console

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// RowFromString lays text out into a row of exactly width cells.
// Each grapheme cluster occupies one cell keyed by its first rune; combining
// runes are dropped since a cell holds a single code point. Double-width
// glyphs take two cells flagged LeadingByte/TrailingByte. A wide glyph that
// would straddle the right edge is replaced by a space.
func RowFromString(text string, width int, attr Attr) Row {
	if width <= 0 {
		return Row{}
	}
	attr &^= LeadingByte | TrailingByte
	row := BlankRow(width)
	for i := range row {
		row[i].Attr = attr
	}

	x := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() && x < width {
		r, w := clusterCell(g.Runes())
		switch w {
		case 0:
			continue
		case 1:
			row[x] = Cell{Ch: r, Attr: attr}
			x++
		default:
			if x+1 >= width {
				row[x] = Cell{Ch: ' ', Attr: attr}
				x++
				continue
			}
			row[x] = Cell{Ch: r, Attr: attr | LeadingByte}
			row[x+1] = Cell{Ch: r, Attr: attr | TrailingByte}
			x += 2
		}
	}
	return row
}

// StringWidth returns the number of cells text occupies when laid out by RowFromString
func StringWidth(text string) int {
	n := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		_, w := clusterCell(g.Runes())
		n += w
	}
	return n
}

// RuneWidth returns the display width of a single rune, 0, 1 or 2
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w > 2 {
		w = 2
	}
	return w
}

// clusterCell picks the code point and cell width for one grapheme cluster
func clusterCell(runes []rune) (rune, int) {
	if len(runes) == 0 {
		return 0, 0
	}
	r := runes[0]
	if r == '\t' {
		return ' ', 1
	}
	if (r < 0x20 && !IsPopupCode(r)) || r == 0x7f {
		return 0, 0
	}
	if IsPopupCode(r) {
		return r, 1
	}
	return r, RuneWidth(r)
}
