package terminal

import "github.com/fcccode/winpty/console"

// Point is a 0-indexed column/row position
type Point struct {
	X, Y int
}

// State is the renderer's belief about the remote terminal
type State struct {
	// LastColor is the color attribute most recently emitted on the stream.
	// It persists across rows since terminal SGR state does.
	LastColor console.Attr
	// LastColorValid is false after Reset, when the remote color is unknown
	LastColorValid bool
	// RemoteLine is the row the terminal cursor occupies, in the caller's
	// line numbering as established by Reset
	RemoteLine int
	// CursorHidden is set while an update pass is drawing rows
	CursorHidden bool
	// CursorPos is the cursor target as of the last FinishOutput
	CursorPos Point
	// Passthrough suppresses every control sequence
	Passthrough bool
}

// Options configures a Renderer
type Options struct {
	// Charset encodes cell text; nil selects UTF8
	Charset Charset
	// PopupBoxRemap maps code points 1-6 to double-line box drawing glyphs.
	// CJK console hosts report popup borders with these values.
	PopupBoxRemap bool
	// Passthrough starts the renderer in passthrough mode
	Passthrough bool
}

// popupBoxGlyphs maps code points 1-6 to their box drawing equivalents
var popupBoxGlyphs = [7]rune{
	0,
	0x2554, // ╔ double down and right
	0x2557, // ╗ double down and left
	0x255A, // ╚ double up and right
	0x255D, // ╝ double up and left
	0x2551, // ║ double vertical
	0x2550, // ═ double horizontal
}

// Renderer encodes console rows and cursor positions into the minimal byte
// stream for one remote terminal. It is not safe for concurrent use; callers
// serialize Reset, RenderRow and FinishOutput into one update pass at a time.
type Renderer struct {
	sink       Sink
	charset    Charset
	popupRemap bool

	state State

	// Reused output scratch
	line []byte
	ctrl []byte

	// First sink error of the running operation
	err error
}

// NewRenderer creates a renderer bound to sink. The remote state starts
// unknown at line 0, as after Reset(false, 0).
func NewRenderer(sink Sink, opts Options) *Renderer {
	cs := opts.Charset
	if cs == nil {
		cs = UTF8
	}
	r := &Renderer{
		sink:       sink,
		charset:    cs,
		popupRemap: opts.PopupBoxRemap,
		line:       make([]byte, 0, 512),
		ctrl:       make([]byte, 0, 64),
	}
	r.state.Passthrough = opts.Passthrough
	r.resetState(0)
	return r
}

// State returns a copy of the current renderer state
func (r *Renderer) State() State {
	return r.state
}

// Charset returns the output charset
func (r *Renderer) Charset() Charset {
	return r.charset
}

// SetPassthroughMode toggles suppression of all control sequences, used when
// the sink is a raw console rather than a terminal
func (r *Renderer) SetPassthroughMode(enabled bool) {
	r.state.Passthrough = enabled
}

// Reset re-synchronizes with the remote terminal, optionally clearing it.
// startLine becomes the line the cursor is assumed to occupy.
func (r *Renderer) Reset(clearScreen bool, startLine int) error {
	if clearScreen && !r.state.Passthrough {
		r.emit(csiResetScreen)
	}
	r.resetState(startLine)
	return r.done()
}

func (r *Renderer) resetState(startLine int) {
	r.state.RemoteLine = startLine
	r.state.CursorHidden = false
	r.state.CursorPos = Point{X: 0, Y: startLine}
	r.state.LastColor = 0
	r.state.LastColorValid = false
}

// RenderRow redraws one line of the remote terminal with the first width
// cells of row. Trailing blank cells are not written; the line is erased first.
func (r *Renderer) RenderRow(line int, row console.Row, width int) error {
	pass := r.state.Passthrough

	r.hideCursor()
	r.moveToLine(line)

	if !pass {
		r.emit(csiEraseLine)
	}

	n := min(width, len(row))
	buf := r.line[:0]
	// length covers output through the last glyph or SGR sequence; pure
	// spaces after it are dropped
	length := 0

	for i := 0; i < n; i++ {
		cell := row[i]

		color := cell.Color()
		if !pass && (!r.state.LastColorValid || color != r.state.LastColor) {
			buf = AppendSGR(buf, color.Foreground(), color.Background())
			length = len(buf)
		}
		r.state.LastColor = color
		r.state.LastColorValid = true

		// The leading half already covers both columns
		if cell.Trailing() {
			continue
		}

		start := len(buf)
		var ok bool
		buf, ok = r.charset.AppendRune(buf, r.resolveRune(cell.Ch))
		if !ok {
			buf = append(buf[:start], '?')
		}
		if len(buf)-start == 1 && buf[start] == ' ' {
			continue
		}
		length = len(buf)
	}

	r.line = buf
	r.emit(buf[:length])
	return r.done()
}

// FinishOutput settles the cursor at its final position after an update pass.
// The cursor is revealed exactly once, after all rows are drawn.
func (r *Renderer) FinishOutput(col, row int) error {
	pos := Point{X: col, Y: row}
	if pos != r.state.CursorPos {
		r.hideCursor()
	}
	if r.state.CursorHidden {
		r.moveToLine(row)
		if !r.state.Passthrough {
			r.ctrl = appendCursorSettle(r.ctrl[:0], col)
			r.emit(r.ctrl)
		}
		r.state.CursorHidden = false
	}
	r.state.CursorPos = pos
	return r.done()
}

// hideCursor is idempotent within an update pass
func (r *Renderer) hideCursor() {
	if r.state.CursorHidden {
		return
	}
	if !r.state.Passthrough {
		r.emit(csiCursorHide)
	}
	r.state.CursorHidden = true
}

// moveToLine moves the terminal cursor to column 0 of line using relative
// movement only. Downward moves use CRLF so the terminal scrolls when the
// cursor is already on its last row.
func (r *Renderer) moveToLine(line int) {
	pass := r.state.Passthrough
	switch {
	case line < r.state.RemoteLine:
		if !pass {
			r.ctrl = appendCursorUp(r.ctrl[:0], r.state.RemoteLine-line)
			r.emit(r.ctrl)
		}
		r.state.RemoteLine = line

	case line > r.state.RemoteLine:
		buf := r.ctrl[:0]
		for line > r.state.RemoteLine {
			buf = append(buf, crLF...)
			r.state.RemoteLine++
		}
		r.ctrl = buf
		if !pass {
			r.emit(buf)
		}

	default:
		if !pass {
			r.emit(crOnly)
		}
	}
}

func (r *Renderer) resolveRune(ch rune) rune {
	if ch == 0 {
		return ' '
	}
	if r.popupRemap && ch > 0 && int(ch) < len(popupBoxGlyphs) {
		return popupBoxGlyphs[ch]
	}
	return ch
}

// emit writes p unless an earlier write of this operation failed.
// State is advanced by callers regardless, as if the bytes were delivered.
func (r *Renderer) emit(p []byte) {
	if r.err != nil {
		return
	}
	r.err = r.sink.Write(p)
}

// done ends an operation and returns its first write error
func (r *Renderer) done() error {
	err := r.err
	r.err = nil
	return err
}
