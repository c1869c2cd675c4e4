// Package console models the character grid of a 16-color text console.
//
// A Screen is a snapshot of Rows of Cells, each cell carrying one code point
// and a packed Attr whose low byte is the foreground/background color and whose
// high byte carries double-width glyph flags. Sources fill screens from plain
// text, from a tcell screen, or from JSON snapshot files.
package console
