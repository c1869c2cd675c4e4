package console

// Screen is a full snapshot of the console grid
// Rows are indexed top to bottom, each holding exactly Width cells
type Screen struct {
	Width   int
	Height  int
	Rows    []Row
	CursorX int
	CursorY int
}

// NewScreen creates a blank screen of the given size with the cursor at the origin
func NewScreen(width, height int) *Screen {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s := &Screen{
		Width:  width,
		Height: height,
		Rows:   make([]Row, height),
	}
	for y := range s.Rows {
		s.Rows[y] = BlankRow(width)
	}
	return s
}

// Row returns row y, or nil when out of range
func (s *Screen) Row(y int) Row {
	if y < 0 || y >= len(s.Rows) {
		return nil
	}
	return s.Rows[y]
}

// SetRow replaces row y, padding or truncating cells to the screen width
func (s *Screen) SetRow(y int, row Row) {
	if y < 0 || y >= len(s.Rows) {
		return
	}
	out := BlankRow(s.Width)
	copy(out, row)
	s.Rows[y] = out
}

// WriteString lays text out on row y starting at column x
func (s *Screen) WriteString(x, y int, text string, attr Attr) {
	if y < 0 || y >= len(s.Rows) || x < 0 || x >= s.Width {
		return
	}
	seg := RowFromString(text, s.Width-x, attr)
	row := s.Rows[y]
	// Only overwrite cells the text actually covers
	n := StringWidth(text)
	if n > len(seg) {
		n = len(seg)
	}
	copy(row[x:x+n], seg[:n])
}

// SetCursor moves the console cursor, clamped to the screen
func (s *Screen) SetCursor(x, y int) {
	s.CursorX = clamp(x, 0, max(s.Width-1, 0))
	s.CursorY = clamp(y, 0, max(s.Height-1, 0))
}

// Clone returns a deep copy of the screen
func (s *Screen) Clone() *Screen {
	out := *s
	out.Rows = make([]Row, len(s.Rows))
	for i, r := range s.Rows {
		out.Rows[i] = r.Clone()
	}
	return &out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
