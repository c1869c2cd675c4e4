package console

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidSnapshot is returned for snapshot documents that are not valid JSON
var ErrInvalidSnapshot = errors.New("invalid console snapshot")

// Snapshot size limits. A console buffer dimension is a signed 16-bit value.
const (
	MaxSnapshotDim   = 0x7fff
	MaxSnapshotCells = 1 << 22
)

// ParseSnapshot decodes a JSON console snapshot:
//
//	{"width":80,"height":25,"cursor":{"x":0,"y":0},
//	 "rows":[{"text":"hello","attr":7,"attrs":[7,7,...]}]}
//
// "attr" is the row default color (DefaultAttr when absent) and "attrs"
// optionally overrides the color of individual columns. Missing width and
// height are derived from the rows.
func ParseSnapshot(data []byte) (*Screen, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidSnapshot
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, errors.Wrap(ErrInvalidSnapshot, "top level is not an object")
	}

	rows := doc.Get("rows").Array()

	width := int(doc.Get("width").Int())
	if width <= 0 {
		for _, r := range rows {
			width = max(width, StringWidth(r.Get("text").String()))
		}
	}
	height := int(doc.Get("height").Int())
	if height <= 0 {
		height = len(rows)
	}

	if width > MaxSnapshotDim || height > MaxSnapshotDim || width*height > MaxSnapshotCells {
		return nil, errors.Wrapf(ErrInvalidSnapshot, "size %dx%d exceeds limits", width, height)
	}

	scr := NewScreen(width, height)
	for y, r := range rows {
		if y >= height {
			break
		}
		attr := DefaultAttr
		if a := r.Get("attr"); a.Exists() {
			attr = Attr(a.Uint()) & ColorMask
		}
		row := RowFromString(r.Get("text").String(), width, attr)
		for x, a := range r.Get("attrs").Array() {
			if x >= width {
				break
			}
			row[x].Attr = row[x].Attr&^ColorMask | Attr(a.Uint())&ColorMask
		}
		scr.Rows[y] = row
	}

	scr.SetCursor(int(doc.Get("cursor.x").Int()), int(doc.Get("cursor.y").Int()))
	return scr, nil
}

// EncodeSnapshot renders a screen as a JSON snapshot readable by ParseSnapshot
func EncodeSnapshot(scr *Screen) ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.SetBytes(doc, path, value)
	}

	set("width", scr.Width)
	set("height", scr.Height)
	set("cursor.x", scr.CursorX)
	set("cursor.y", scr.CursorY)
	set("rows", []any{})

	for _, row := range scr.Rows {
		entry := map[string]any{"text": rowText(row)}
		attr := DefaultAttr
		if len(row) > 0 {
			attr = row[0].Color()
		}
		entry["attr"] = int(attr)
		if !uniformColor(row, attr) {
			attrs := make([]int, len(row))
			for i, c := range row {
				attrs[i] = int(c.Color())
			}
			entry["attrs"] = attrs
		}
		set("rows.-1", entry)
	}

	if err != nil {
		return nil, errors.Wrap(err, "encode snapshot")
	}
	return doc, nil
}

// rowText extracts the visible text of a row, one rune per glyph
func rowText(row Row) string {
	var b strings.Builder
	for _, c := range row {
		if c.Trailing() {
			continue
		}
		ch := c.Ch
		if ch < 0x20 && !IsPopupCode(ch) {
			ch = ' '
		}
		b.WriteRune(ch)
	}
	return strings.TrimRight(b.String(), " ")
}

func uniformColor(row Row, attr Attr) bool {
	for _, c := range row {
		if c.Color() != attr {
			return false
		}
	}
	return true
}
