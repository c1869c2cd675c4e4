package console

// Attr is a packed console character attribute
// Low byte holds foreground/background color, high byte holds cell flags
type Attr uint16

const (
	ForegroundBlue      Attr = 0x0001
	ForegroundGreen     Attr = 0x0002
	ForegroundRed       Attr = 0x0004
	ForegroundIntensity Attr = 0x0008
	BackgroundBlue      Attr = 0x0010
	BackgroundGreen     Attr = 0x0020
	BackgroundRed       Attr = 0x0040
	BackgroundIntensity Attr = 0x0080

	// LeadingByte marks the left half of a double-width glyph
	LeadingByte Attr = 0x0100
	// TrailingByte marks the right half of a double-width glyph
	TrailingByte Attr = 0x0200

	GridHorizontal Attr = 0x0400
	GridLeftV      Attr = 0x0800
	GridRightV     Attr = 0x1000
	ReverseVideo   Attr = 0x4000
	Underscore     Attr = 0x8000
)

// ColorMask selects only the foreground and background color bits
const ColorMask Attr = 0x00FF

// DefaultAttr is light gray on black, the stock console scheme
const DefaultAttr Attr = ForegroundRed | ForegroundGreen | ForegroundBlue

// Color is a 4-bit color in terminal bit order (red is bit 0)
type Color uint8

const (
	FlagRed    Color = 1
	FlagGreen  Color = 2
	FlagBlue   Color = 4
	FlagBright Color = 8
)

const (
	Black     Color = 0
	DarkGray  Color = Black | FlagBright
	LightGray Color = FlagRed | FlagGreen | FlagBlue
	White     Color = LightGray | FlagBright
)

// Foreground returns the foreground color bits as a Color
func (a Attr) Foreground() Color {
	var c Color
	if a&ForegroundRed != 0 {
		c |= FlagRed
	}
	if a&ForegroundGreen != 0 {
		c |= FlagGreen
	}
	if a&ForegroundBlue != 0 {
		c |= FlagBlue
	}
	if a&ForegroundIntensity != 0 {
		c |= FlagBright
	}
	return c
}

// Background returns the background color bits as a Color
func (a Attr) Background() Color {
	var c Color
	if a&BackgroundRed != 0 {
		c |= FlagRed
	}
	if a&BackgroundGreen != 0 {
		c |= FlagGreen
	}
	if a&BackgroundBlue != 0 {
		c |= FlagBlue
	}
	if a&BackgroundIntensity != 0 {
		c |= FlagBright
	}
	return c
}

// MakeAttr packs a foreground and background color into console attribute bits
func MakeAttr(fg, bg Color) Attr {
	var a Attr
	if fg&FlagRed != 0 {
		a |= ForegroundRed
	}
	if fg&FlagGreen != 0 {
		a |= ForegroundGreen
	}
	if fg&FlagBlue != 0 {
		a |= ForegroundBlue
	}
	if fg&FlagBright != 0 {
		a |= ForegroundIntensity
	}
	if bg&FlagRed != 0 {
		a |= BackgroundRed
	}
	if bg&FlagGreen != 0 {
		a |= BackgroundGreen
	}
	if bg&FlagBlue != 0 {
		a |= BackgroundBlue
	}
	if bg&FlagBright != 0 {
		a |= BackgroundIntensity
	}
	return a
}

// Cell is a single console character cell
type Cell struct {
	Ch   rune
	Attr Attr
}

// IsPopupCode reports whether r is one of the code points 1-6 some CJK console
// hosts store in place of double-line popup borders. These are kept in cells
// unlike other C0 controls.
func IsPopupCode(r rune) bool {
	return r >= 1 && r <= 6
}

// BlankCell is a space in the default attribute
var BlankCell = Cell{Ch: ' ', Attr: DefaultAttr}

// Color returns the attribute masked to color bits only
func (c Cell) Color() Attr {
	return c.Attr & ColorMask
}

// Leading reports whether the cell is the left half of a double-width glyph
func (c Cell) Leading() bool {
	return c.Attr&LeadingByte != 0
}

// Trailing reports whether the cell is the right half of a double-width glyph
func (c Cell) Trailing() bool {
	return c.Attr&TrailingByte != 0
}

// Row is one horizontal line of cells, left to right
type Row []Cell

// BlankRow returns a row of width blank cells
func BlankRow(width int) Row {
	r := make(Row, width)
	for i := range r {
		r[i] = BlankCell
	}
	return r
}

// Equal reports whether two rows hold identical cells
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the row
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}
